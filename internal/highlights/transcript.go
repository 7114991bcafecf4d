package highlights

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// TranscriptAnalyzer scores transcript segments by tiered phrase matching.
// It holds no mutable state; one value is safe for concurrent use.
type TranscriptAnalyzer struct {
	cfg    TranscriptConfig
	logger *logrus.Logger
}

// NewTranscriptAnalyzer builds an analyzer for one detection call.
func NewTranscriptAnalyzer(cfg TranscriptConfig, logger *logrus.Logger) *TranscriptAnalyzer {
	return &TranscriptAnalyzer{cfg: cfg, logger: logger}
}

// Source implements the scored-moment producer contract.
func (a *TranscriptAnalyzer) Source() Source {
	return SourceTranscript
}

// Analyze scores each segment against the four pattern tiers. Each tier
// contributes its weight at most once per segment; matches across tiers sum.
// Segments scoring zero emit no moment. Malformed segments (bad time bounds
// or empty text) are skipped and logged, never abort the batch.
func (a *TranscriptAnalyzer) Analyze(segments []TranscriptSegment) []ScoredMoment {
	moments := make([]ScoredMoment, 0, len(segments))
	for i, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.EndTime <= seg.StartTime {
			a.logger.WithFields(logrus.Fields{
				"segment_index": i,
				"start_time":    seg.StartTime,
				"end_time":      seg.EndTime,
			}).Warn("Skipping malformed transcript segment")
			continue
		}

		score, tiers := a.scoreText(text)
		if score <= 0 {
			continue
		}

		moments = append(moments, ScoredMoment{
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Score:     score,
			Reason:    strings.Join(tiers, "+"),
			Source:    SourceTranscript,
		})
	}
	return moments
}

// scoreText returns the tier score of a segment and the names of the tiers
// that matched, in tier order.
func (a *TranscriptAnalyzer) scoreText(text string) (float64, []string) {
	normalized := strings.ToLower(text)

	var score float64
	var tiers []string

	if containsAny(normalized, a.cfg.HighConfidencePhrases) {
		score += a.cfg.Weights.HighConfidence
		tiers = append(tiers, "high_confidence")
	}
	if containsAny(normalized, a.cfg.NarrationPhrases) {
		score += a.cfg.Weights.Narration
		tiers = append(tiers, "narration")
	}
	if containsAny(normalized, a.cfg.RealizationPhrases) {
		score += a.cfg.Weights.Realization
		tiers = append(tiers, "realization")
	}
	if containsAny(normalized, a.cfg.TechnicalTerms) {
		score += a.cfg.Weights.Technical
		tiers = append(tiers, "technical")
	}

	// A tier match is required before any bonus applies; bonuses alone never
	// surface a segment.
	if score <= 0 {
		return 0, nil
	}

	words := len(strings.Fields(normalized))
	switch {
	case words > a.cfg.VeryLongSegmentWords:
		score += a.cfg.VeryLongSegmentBonus
		tiers = append(tiers, "very_long")
	case words > a.cfg.LongSegmentWords:
		score += a.cfg.LongSegmentBonus
		tiers = append(tiers, "long")
	}

	if strings.Contains(text, "?") && strings.Contains(text, ".") {
		score += a.cfg.QuestionAnswerBonus
		tiers = append(tiers, "question_answer")
	}

	return score, tiers
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}
