package highlights

import (
	"fmt"
	"math"
	"sort"
)

// MotionAnalyzer scores time windows by scene-change density.
type MotionAnalyzer struct {
	cfg MotionConfig
}

// NewMotionAnalyzer builds an analyzer for one detection call.
func NewMotionAnalyzer(cfg MotionConfig) *MotionAnalyzer {
	return &MotionAnalyzer{cfg: cfg}
}

// Source implements the scored-moment producer contract.
func (a *MotionAnalyzer) Source() Source {
	return SourceMotion
}

// Analyze partitions [0, duration) into consecutive windows of WindowSize,
// counts scene-change events per window and classifies activity by density.
// When duration is zero or negative the timeline extends to the last event.
// Empty input yields empty output.
func (a *MotionAnalyzer) Analyze(events []float64, duration float64) []ScoredMoment {
	segments := a.Windows(events, duration)
	return a.merge(segments)
}

// Windows returns the per-window motion segments before merging. Only windows
// that qualify (medium or high activity sustained for at least
// MinActivityDuration) are returned; everything else is noise.
func (a *MotionAnalyzer) Windows(events []float64, duration float64) []MotionSegment {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]float64, len(events))
	copy(sorted, events)
	sort.Float64s(sorted)

	if duration <= 0 {
		duration = sorted[len(sorted)-1]
	}
	if duration <= 0 {
		return nil
	}

	windowCount := int(math.Ceil(duration / a.cfg.WindowSize))
	var segments []MotionSegment
	idx := 0
	for w := 0; w < windowCount; w++ {
		start := float64(w) * a.cfg.WindowSize
		end := math.Min(start+a.cfg.WindowSize, duration)
		// The boundary window uses its true, possibly shorter, length as the
		// density denominator.
		length := end - start
		if length <= 0 {
			break
		}

		count := 0
		for idx < len(sorted) && sorted[idx] < end {
			if sorted[idx] >= start {
				count++
			}
			idx++
		}

		density := float64(count) / length
		var level ActivityLevel
		var score float64
		switch {
		case density >= a.cfg.HighActivityDensity:
			level = ActivityHigh
			score = a.cfg.HighActivityScore
		case density >= a.cfg.MediumActivityDensity:
			level = ActivityMedium
			score = a.cfg.MediumActivityScore
		default:
			continue
		}

		// Short boundary windows below the minimum activity duration are
		// discarded as noise, not scored as low.
		if length < a.cfg.MinActivityDuration {
			continue
		}

		segments = append(segments, MotionSegment{
			StartTime:     start,
			EndTime:       end,
			MotionScore:   score,
			ActivityLevel: level,
			SceneChanges:  count,
		})
	}
	return segments
}

// merge folds adjacent windows of equal-or-escalating activity level into a
// single moment spanning their union.
func (a *MotionAnalyzer) merge(segments []MotionSegment) []ScoredMoment {
	if len(segments) == 0 {
		return nil
	}

	var moments []ScoredMoment
	cur := segments[0]
	flush := func(s MotionSegment) {
		moments = append(moments, ScoredMoment{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Score:     s.MotionScore,
			Reason:    fmt.Sprintf("%s activity: %d scene changes", s.ActivityLevel, s.SceneChanges),
			Source:    SourceMotion,
		})
	}

	for _, next := range segments {
		if next.StartTime == cur.StartTime {
			continue
		}
		adjacent := next.StartTime == cur.EndTime
		escalating := activityRank(next.ActivityLevel) >= activityRank(cur.ActivityLevel)
		if adjacent && escalating {
			cur.EndTime = next.EndTime
			cur.SceneChanges += next.SceneChanges
			cur.MotionScore = combineScores(cur.MotionScore, next.MotionScore, a.cfg.MergeStrategy)
			if activityRank(next.ActivityLevel) > activityRank(cur.ActivityLevel) {
				cur.ActivityLevel = next.ActivityLevel
			}
			continue
		}
		flush(cur)
		cur = next
	}
	flush(cur)
	return moments
}

func activityRank(l ActivityLevel) int {
	switch l {
	case ActivityHigh:
		return 2
	case ActivityMedium:
		return 1
	}
	return 0
}

// combineScores merges two window scores under the configured strategy.
// Max is the default: it preserves spike visibility instead of diluting it
// across a long merged span.
func combineScores(a, b float64, strategy MergeStrategy) float64 {
	if strategy == MergeSum {
		return a + b
	}
	return math.Max(a, b)
}
