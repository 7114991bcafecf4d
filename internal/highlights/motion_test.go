package highlights

import "testing"

func TestMotionHighActivityWindowScenario(t *testing.T) {
	// Scenario B: window [100,110] with 6 scene changes has density 0.6 and
	// classifies as high activity.
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	events := []float64{101, 102.5, 104, 105.5, 107, 109}
	segments := analyzer.Windows(events, 110)
	if len(segments) != 1 {
		t.Fatalf("expected 1 window, got %d: %+v", len(segments), segments)
	}
	w := segments[0]
	if w.StartTime != 100 || w.EndTime != 110 {
		t.Fatalf("unexpected window [%v,%v]", w.StartTime, w.EndTime)
	}
	if w.ActivityLevel != ActivityHigh {
		t.Fatalf("expected high activity, got %q", w.ActivityLevel)
	}
	if w.SceneChanges != 6 {
		t.Fatalf("expected 6 scene changes, got %d", w.SceneChanges)
	}
}

func TestMotionEmptyInputYieldsEmptyOutput(t *testing.T) {
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	if got := analyzer.Analyze(nil, 120); len(got) != 0 {
		t.Fatalf("expected empty output, got %+v", got)
	}
}

func TestMotionLowDensityWindowsEmitNothing(t *testing.T) {
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	// One event in a 10s window: density 0.1, below medium.
	moments := analyzer.Analyze([]float64{5}, 10)
	if len(moments) != 0 {
		t.Fatalf("expected no moments, got %+v", moments)
	}
}

func TestMotionShortBoundaryWindowDiscardedAsNoise(t *testing.T) {
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	// Events packed into a 2s boundary window [10,12): density 1.5 would be
	// high, but 2s is under the 3s minimum activity duration.
	moments := analyzer.Analyze([]float64{10.2, 10.8, 11.5}, 12)
	if len(moments) != 0 {
		t.Fatalf("expected noise window to be discarded, got %+v", moments)
	}
}

func TestMotionBoundaryWindowUsesTrueLength(t *testing.T) {
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	// Boundary window [10,15) is 5s long; 3 events make density 0.6, high.
	// With the full 10s denominator it would only have been medium.
	segments := analyzer.Windows([]float64{11, 12, 13}, 15)
	if len(segments) != 1 {
		t.Fatalf("expected 1 window, got %d", len(segments))
	}
	if segments[0].ActivityLevel != ActivityHigh {
		t.Fatalf("expected high activity with true-length denominator, got %q", segments[0].ActivityLevel)
	}
}

func TestMotionAdjacentEscalatingWindowsMergeWithMaxScore(t *testing.T) {
	cfg := DefaultDetectionConfig().Motion
	analyzer := NewMotionAnalyzer(cfg)
	// Window [0,10): 3 events, density 0.3, medium (score 1.0).
	// Window [10,20): 6 events, density 0.6, high (score 2.0).
	events := []float64{1, 4, 7, 11, 12, 14, 15, 17, 19}
	moments := analyzer.Analyze(events, 20)
	if len(moments) != 1 {
		t.Fatalf("expected merged moment, got %d: %+v", len(moments), moments)
	}
	m := moments[0]
	if m.StartTime != 0 || m.EndTime != 20 {
		t.Fatalf("unexpected merged span [%v,%v]", m.StartTime, m.EndTime)
	}
	if m.Score != cfg.HighActivityScore {
		t.Fatalf("merged score should be the max (%v), got %v", cfg.HighActivityScore, m.Score)
	}
}

func TestMotionDeescalatingWindowsDoNotMerge(t *testing.T) {
	analyzer := NewMotionAnalyzer(DefaultDetectionConfig().Motion)
	// Window [0,10): high (6 events). Window [10,20): medium (3 events).
	events := []float64{1, 2, 4, 5, 7, 9, 11, 14, 17}
	moments := analyzer.Analyze(events, 20)
	if len(moments) != 2 {
		t.Fatalf("expected 2 separate moments, got %d: %+v", len(moments), moments)
	}
}

func TestMotionSumMergeStrategy(t *testing.T) {
	cfg := DefaultDetectionConfig().Motion
	cfg.MergeStrategy = MergeSum
	analyzer := NewMotionAnalyzer(cfg)
	// Two adjacent high windows.
	events := []float64{1, 2, 4, 5, 7, 9, 11, 12, 14, 15, 17, 19}
	moments := analyzer.Analyze(events, 20)
	if len(moments) != 1 {
		t.Fatalf("expected merged moment, got %d", len(moments))
	}
	if moments[0].Score != 2*cfg.HighActivityScore {
		t.Fatalf("expected summed score %v, got %v", 2*cfg.HighActivityScore, moments[0].Score)
	}
}
