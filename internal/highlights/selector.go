package highlights

import (
	"sort"
)

// SelectOptions control filtering and ranking of fused candidates.
type SelectOptions struct {
	// MaxClips caps the returned list; zero means the default of 10, and the
	// effective value is clamped to [1, 20].
	MaxClips int `json:"max_clips"`
	// MinScore drops candidates below it; zero means the default of 3. Use a
	// negative value to keep everything.
	MinScore float64 `json:"min_score"`
	// PreferTypes, when given, ranks candidates of the listed clip types
	// first, in list order, before score ordering applies.
	PreferTypes []ClipType `json:"prefer_types,omitempty"`
}

const (
	defaultMaxClips = 10
	maxClipsCeiling = 20
	defaultMinScore = 3.0
)

// normalized resolves defaults and clamps MaxClips.
func (o SelectOptions) normalized() SelectOptions {
	if o.MaxClips == 0 {
		o.MaxClips = defaultMaxClips
	}
	if o.MaxClips < 1 {
		o.MaxClips = 1
	}
	if o.MaxClips > maxClipsCeiling {
		o.MaxClips = maxClipsCeiling
	}
	if o.MinScore == 0 {
		o.MinScore = defaultMinScore
	}
	if o.MinScore < 0 {
		o.MinScore = 0
	}
	return o
}

// HighlightSelector filters, ranks and deconflicts fused candidates into the
// final ordered highlight list.
type HighlightSelector struct{}

// NewHighlightSelector returns a selector. It is stateless.
func NewHighlightSelector() *HighlightSelector {
	return &HighlightSelector{}
}

// Select returns at most MaxClips non-overlapping highlights. Candidates are
// ranked by (preferred type, total score descending, earliest start), walked
// greedily with overlap rejection, then re-sorted by start time: selection
// order and presentation order differ on purpose.
func (s *HighlightSelector) Select(candidates []FusedCandidate, opts SelectOptions) []DetectedHighlight {
	opts = opts.normalized()

	filtered := make([]FusedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.TotalScore >= opts.MinScore && c.EndTime > c.StartTime {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return []DetectedHighlight{}
	}

	preference := preferenceIndex(opts.PreferTypes)
	sort.SliceStable(filtered, func(i, j int) bool {
		pi, pj := preference(filtered[i].ClipType), preference(filtered[j].ClipType)
		if pi != pj {
			return pi < pj
		}
		if filtered[i].TotalScore != filtered[j].TotalScore {
			return filtered[i].TotalScore > filtered[j].TotalScore
		}
		return filtered[i].StartTime < filtered[j].StartTime
	})

	accepted := newIntervalSet()
	selected := make([]DetectedHighlight, 0, opts.MaxClips)
	for _, c := range filtered {
		if len(selected) >= opts.MaxClips {
			break
		}
		if accepted.overlaps(c.StartTime, c.EndTime) {
			continue
		}
		accepted.insert(c.StartTime, c.EndTime)
		selected = append(selected, DetectedHighlight{
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Duration:   c.EndTime - c.StartTime,
			TotalScore: c.TotalScore,
			Signals:    c.Signals,
			ClipType:   c.ClipType,
			Reason:     c.Reason,
			Confidence: c.Confidence,
		})
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].StartTime < selected[j].StartTime
	})
	return selected
}

// preferenceIndex maps a clip type to its rank in the preferred list, or one
// past the end for non-preferred types.
func preferenceIndex(preferred []ClipType) func(ClipType) int {
	if len(preferred) == 0 {
		return func(ClipType) int { return 0 }
	}
	ranks := make(map[ClipType]int, len(preferred))
	for i, t := range preferred {
		if _, ok := ranks[t]; !ok {
			ranks[t] = i
		}
	}
	return func(t ClipType) int {
		if r, ok := ranks[t]; ok {
			return r
		}
		return len(preferred)
	}
}

// intervalSet keeps accepted intervals sorted by start so each overlap check
// is a binary search rather than a pairwise scan.
type intervalSet struct {
	starts []float64
	ends   []float64
}

func newIntervalSet() *intervalSet {
	return &intervalSet{}
}

func (s *intervalSet) overlaps(start, end float64) bool {
	// First interval starting at or after `start`; its predecessor is the
	// only earlier interval that could still reach into [start, end).
	i := sort.SearchFloat64s(s.starts, start)
	if i < len(s.starts) && s.starts[i] < end {
		return true
	}
	if i > 0 && s.ends[i-1] > start {
		return true
	}
	return false
}

func (s *intervalSet) insert(start, end float64) {
	i := sort.SearchFloat64s(s.starts, start)
	s.starts = append(s.starts, 0)
	s.ends = append(s.ends, 0)
	copy(s.starts[i+1:], s.starts[i:])
	copy(s.ends[i+1:], s.ends[i:])
	s.starts[i] = start
	s.ends[i] = end
}
