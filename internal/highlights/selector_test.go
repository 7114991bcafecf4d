package highlights

import (
	"reflect"
	"testing"
)

func candidateFixture() []FusedCandidate {
	return []FusedCandidate{
		{StartTime: 0, EndTime: 20, TotalScore: 9.0, ClipType: ClipExplanation, Confidence: 0.45},
		{StartTime: 15, EndTime: 30, TotalScore: 7.5, ClipType: ClipDemo, Confidence: 0.38},
		{StartTime: 40, EndTime: 55, TotalScore: 6.0, ClipType: ClipBuildMoment, Confidence: 0.3},
		{StartTime: 60, EndTime: 70, TotalScore: 12.0, ClipType: ClipAhaMoment, Confidence: 0.6},
		{StartTime: 80, EndTime: 95, TotalScore: 2.0, ClipType: ClipDemo, Confidence: 0.1},
	}
}

func TestSelectorOutputNonOverlappingAndSorted(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(candidateFixture(), SelectOptions{})
	for i := 1; i < len(highlights); i++ {
		if highlights[i].StartTime < highlights[i-1].StartTime {
			t.Fatalf("output not sorted by start time: %+v", highlights)
		}
		if highlights[i].StartTime < highlights[i-1].EndTime {
			t.Fatalf("overlapping highlights in output: %+v", highlights)
		}
	}
}

func TestSelectorDropsOverlapOfLowerRankedCandidate(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(candidateFixture(), SelectOptions{})
	// [15,30] overlaps the higher-scoring [0,20] and must lose.
	for _, h := range highlights {
		if h.StartTime == 15 {
			t.Fatalf("overlapping lower-ranked candidate was accepted: %+v", highlights)
		}
	}
}

func TestSelectorMinScoreFilter(t *testing.T) {
	// Scenario D: a 9.0 candidate with minScore 10 yields an empty list.
	selector := NewHighlightSelector()
	highlights := selector.Select([]FusedCandidate{
		{StartTime: 10, EndTime: 16, TotalScore: 9.0, ClipType: ClipDemo},
	}, SelectOptions{MinScore: 10})
	if len(highlights) != 0 {
		t.Fatalf("expected empty list, got %+v", highlights)
	}
}

func TestSelectorDefaultMinScoreDropsWeakCandidates(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(candidateFixture(), SelectOptions{})
	for _, h := range highlights {
		if h.TotalScore < 3 {
			t.Fatalf("candidate below default min score accepted: %+v", h)
		}
	}
}

func TestSelectorMaxClipsOneReturnsHighestRanked(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(candidateFixture(), SelectOptions{MaxClips: 1})
	if len(highlights) != 1 {
		t.Fatalf("expected exactly one highlight, got %d", len(highlights))
	}
	if highlights[0].TotalScore != 12.0 {
		t.Fatalf("expected the top-scored candidate, got %+v", highlights[0])
	}
}

func TestSelectorMaxClipsClamped(t *testing.T) {
	selector := NewHighlightSelector()
	many := make([]FusedCandidate, 0, 30)
	for i := 0; i < 30; i++ {
		start := float64(i * 10)
		many = append(many, FusedCandidate{
			StartTime:  start,
			EndTime:    start + 5,
			TotalScore: 5.0,
			ClipType:   ClipDemo,
		})
	}
	highlights := selector.Select(many, SelectOptions{MaxClips: 100})
	if len(highlights) != 20 {
		t.Fatalf("expected max clips clamped to 20, got %d", len(highlights))
	}
}

func TestSelectorPreferTypesOrdering(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(candidateFixture(), SelectOptions{
		MaxClips:    1,
		PreferTypes: []ClipType{ClipBuildMoment},
	})
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(highlights))
	}
	// The preferred build_moment outranks the higher-scoring aha_moment.
	if highlights[0].ClipType != ClipBuildMoment {
		t.Fatalf("expected preferred type to win, got %+v", highlights[0])
	}
}

func TestSelectorTieBreaksByEarliestStart(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select([]FusedCandidate{
		{StartTime: 50, EndTime: 60, TotalScore: 5.0, ClipType: ClipDemo},
		{StartTime: 10, EndTime: 20, TotalScore: 5.0, ClipType: ClipDemo},
	}, SelectOptions{MaxClips: 1})
	if len(highlights) != 1 || highlights[0].StartTime != 10 {
		t.Fatalf("expected earliest-start tie break, got %+v", highlights)
	}
}

func TestSelectorDeterministic(t *testing.T) {
	selector := NewHighlightSelector()
	opts := SelectOptions{PreferTypes: []ClipType{ClipAhaMoment, ClipExplanation}}
	a := selector.Select(candidateFixture(), opts)
	b := selector.Select(candidateFixture(), opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("selector output not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestSelectorEmptyInput(t *testing.T) {
	selector := NewHighlightSelector()
	highlights := selector.Select(nil, SelectOptions{})
	if highlights == nil || len(highlights) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", highlights)
	}
}
