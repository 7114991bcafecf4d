package highlights

// AudioAnalyzer scores audio descriptor windows by volume dynamics.
type AudioAnalyzer struct {
	cfg AudioConfig
}

// NewAudioAnalyzer builds an analyzer for one detection call.
func NewAudioAnalyzer(cfg AudioConfig) *AudioAnalyzer {
	return &AudioAnalyzer{cfg: cfg}
}

// Source implements the scored-moment producer contract.
func (a *AudioAnalyzer) Source() Source {
	return SourceAudio
}

// Analyze emits one moment per run of contiguous qualifying windows. A window
// qualifies on volume variance above the threshold (sudden emphasis) or on a
// silence-before-spike pattern (pause then reaction); the latter scores
// strictly higher because it correlates with realization content. Windows
// meeting neither condition emit nothing.
func (a *AudioAnalyzer) Analyze(windows []AudioWindow) []ScoredMoment {
	var moments []ScoredMoment
	var cur *ScoredMoment

	for _, w := range windows {
		if w.EndTime <= w.StartTime {
			continue
		}

		score, reason := a.scoreWindow(w)
		if score <= 0 {
			if cur != nil {
				moments = append(moments, *cur)
				cur = nil
			}
			continue
		}

		if cur != nil && cur.EndTime == w.StartTime {
			cur.EndTime = w.EndTime
			if combined := combineScores(cur.Score, score, a.cfg.MergeStrategy); combined != cur.Score {
				cur.Score = combined
				cur.Reason = reason
			}
			continue
		}
		if cur != nil {
			moments = append(moments, *cur)
		}
		cur = &ScoredMoment{
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			Score:     score,
			Reason:    reason,
			Source:    SourceAudio,
		}
	}
	if cur != nil {
		moments = append(moments, *cur)
	}
	return moments
}

func (a *AudioAnalyzer) scoreWindow(w AudioWindow) (float64, string) {
	if w.SilenceBeforeSpike {
		return a.cfg.SilenceSpikeScore, "silence before spike"
	}
	if w.VolumeVariance > a.cfg.VarianceThreshold {
		return a.cfg.VarianceScore, "volume variance spike"
	}
	return 0, ""
}
