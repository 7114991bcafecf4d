package highlights

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SignalFusionEngine merges the three scored-moment streams on a shared time
// axis into weighted, classified candidate intervals. It never special-cases
// analyzer identity beyond the declared Source tag on each moment.
type SignalFusionEngine struct {
	cfg FusionConfig
}

// NewSignalFusionEngine builds a fusion engine for one detection call.
func NewSignalFusionEngine(cfg FusionConfig) *SignalFusionEngine {
	return &SignalFusionEngine{cfg: cfg}
}

// fusedInterval is one maximal sub-interval between consecutive boundaries,
// before tolerance merging.
type fusedInterval struct {
	start, end     float64
	signals        SignalBreakdown
	reasons        []string
	hasRealization bool
}

// Fuse combines the moment streams into classified candidates. No input from
// any source yields empty output, not an error.
func (e *SignalFusionEngine) Fuse(moments []ScoredMoment) []FusedCandidate {
	intervals := e.sweep(moments)
	intervals = e.mergeAdjacent(intervals)

	candidates := make([]FusedCandidate, 0, len(intervals))
	for _, iv := range intervals {
		total := e.totalScore(iv.signals)
		if total <= 0 {
			continue
		}
		clipType, ok := e.classify(iv)
		if !ok {
			continue
		}
		candidates = append(candidates, FusedCandidate{
			StartTime:      iv.start,
			EndTime:        iv.end,
			TotalScore:     total,
			Signals:        iv.signals,
			ClipType:       clipType,
			Reason:         strings.Join(dedupe(iv.reasons), "; "),
			Confidence:     math.Min(1, total/e.cfg.ReferenceMaxScore),
			HasRealization: iv.hasRealization,
		})
	}
	return candidates
}

// sweep builds the sorted boundary set of all input moments and scores every
// maximal sub-interval between consecutive boundaries.
func (e *SignalFusionEngine) sweep(moments []ScoredMoment) []fusedInterval {
	valid := moments[:0:0]
	for _, m := range moments {
		if m.EndTime > m.StartTime && m.Score > 0 {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	boundarySet := make(map[float64]struct{}, len(valid)*2)
	for _, m := range valid {
		boundarySet[m.StartTime] = struct{}{}
		boundarySet[m.EndTime] = struct{}{}
	}
	boundaries := make([]float64, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Float64s(boundaries)

	var intervals []fusedInterval
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if end <= start {
			continue
		}
		iv := fusedInterval{start: start, end: end}
		covered := false
		for _, m := range valid {
			if m.StartTime > start || m.EndTime < end {
				continue
			}
			covered = true
			iv.signals.Add(m.Source, m.Score)
			if m.Reason != "" {
				iv.reasons = append(iv.reasons, fmt.Sprintf("%s: %s", m.Source, m.Reason))
			}
			if m.Source == SourceTranscript &&
				strings.Contains(m.Reason, "realization") &&
				m.Score >= e.cfg.Thresholds.RealizationScore {
				iv.hasRealization = true
			}
		}
		if covered {
			intervals = append(intervals, iv)
		}
	}
	return intervals
}

// mergeAdjacent folds neighboring sub-intervals whose fused score is within
// the merge tolerance, so one contiguous high-value passage does not fragment
// into many tiny highlights. Merging stops once the duration cap would be
// exceeded. Zero-duration merges are skipped defensively.
func (e *SignalFusionEngine) mergeAdjacent(intervals []fusedInterval) []fusedInterval {
	if len(intervals) == 0 {
		return nil
	}

	merged := make([]fusedInterval, 0, len(intervals))
	cur := intervals[0]
	for _, next := range intervals[1:] {
		if next.end <= next.start {
			continue
		}
		curTotal := e.totalScore(cur.signals)
		nextTotal := e.totalScore(next.signals)
		adjacent := next.start == cur.end
		withinTolerance := math.Abs(nextTotal-curTotal) <= e.cfg.MergeTolerance
		underCap := next.end-cur.start <= e.cfg.MaxHighlightDuration
		if adjacent && withinTolerance && underCap {
			// Keep the stronger side's signal breakdown so the weighted
			// subtotal identity holds for the merged interval.
			if nextTotal > curTotal {
				cur.signals = next.signals
			}
			cur.end = next.end
			cur.reasons = append(cur.reasons, next.reasons...)
			cur.hasRealization = cur.hasRealization || next.hasRealization
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)
	return merged
}

// classify applies the clip-type policy. aha_moment is checked first and wins
// outright on a qualifying transcript realization moment; the remaining
// categories compare weighted sub-scores against the threshold table. demo is
// the fallback whenever any signal is present; with no signal at all the
// interval is not emitted.
func (e *SignalFusionEngine) classify(iv fusedInterval) (ClipType, bool) {
	transcript := iv.signals.Transcript * e.cfg.Weights.Transcript
	motion := iv.signals.Motion * e.cfg.Weights.Motion
	audio := iv.signals.Audio * e.cfg.Weights.Audio
	t := e.cfg.Thresholds

	if iv.hasRealization {
		if !e.cfg.AhaRequiresSupport || motion > 0 || audio > 0 {
			return ClipAhaMoment, true
		}
	}
	switch {
	case transcript >= t.ExplanationTranscript && motion < t.BuildMotion:
		return ClipExplanation, true
	case motion >= t.BuildMotion && transcript <= t.BuildTranscriptCeiling:
		return ClipBuildMoment, true
	case transcript >= t.DemoShared && motion >= t.DemoShared:
		return ClipDemo, true
	case transcript > 0 || motion > 0 || audio > 0:
		return ClipDemo, true
	}
	return "", false
}

func (e *SignalFusionEngine) totalScore(s SignalBreakdown) float64 {
	return s.Transcript*e.cfg.Weights.Transcript +
		s.Motion*e.cfg.Weights.Motion +
		s.Audio*e.cfg.Weights.Audio
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
