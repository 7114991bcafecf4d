package highlights

import "testing"

func TestAudioVarianceSpikeScores(t *testing.T) {
	cfg := DefaultDetectionConfig().Audio
	analyzer := NewAudioAnalyzer(cfg)
	moments := analyzer.Analyze([]AudioWindow{
		{StartTime: 0, EndTime: 10, VolumeVariance: 0.9},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	if moments[0].Score != cfg.VarianceScore {
		t.Fatalf("expected variance score %v, got %v", cfg.VarianceScore, moments[0].Score)
	}
}

func TestAudioSilenceBeforeSpikeScoresHigherThanVariance(t *testing.T) {
	cfg := DefaultDetectionConfig().Audio
	if cfg.SilenceSpikeScore <= cfg.VarianceScore {
		t.Fatalf("silence spike score %v must exceed variance score %v", cfg.SilenceSpikeScore, cfg.VarianceScore)
	}
	analyzer := NewAudioAnalyzer(cfg)
	moments := analyzer.Analyze([]AudioWindow{
		{StartTime: 0, EndTime: 10, VolumeVariance: 0.9, SilenceBeforeSpike: true},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	if moments[0].Score != cfg.SilenceSpikeScore {
		t.Fatalf("expected silence spike score %v, got %v", cfg.SilenceSpikeScore, moments[0].Score)
	}
}

func TestAudioQuietWindowsEmitNothing(t *testing.T) {
	analyzer := NewAudioAnalyzer(DefaultDetectionConfig().Audio)
	moments := analyzer.Analyze([]AudioWindow{
		{StartTime: 0, EndTime: 10, VolumeVariance: 0.1},
		{StartTime: 10, EndTime: 20, VolumeVariance: 0.2},
	})
	if len(moments) != 0 {
		t.Fatalf("expected no moments, got %+v", moments)
	}
}

func TestAudioContiguousQualifyingWindowsMergeWithMaxScore(t *testing.T) {
	cfg := DefaultDetectionConfig().Audio
	analyzer := NewAudioAnalyzer(cfg)
	moments := analyzer.Analyze([]AudioWindow{
		{StartTime: 0, EndTime: 10, VolumeVariance: 0.8},
		{StartTime: 10, EndTime: 20, SilenceBeforeSpike: true},
		{StartTime: 20, EndTime: 30, VolumeVariance: 0.7},
		// gap: [30,40) is quiet
		{StartTime: 30, EndTime: 40, VolumeVariance: 0.1},
		{StartTime: 40, EndTime: 50, VolumeVariance: 0.9},
	})
	if len(moments) != 2 {
		t.Fatalf("expected 2 merged runs, got %d: %+v", len(moments), moments)
	}
	first := moments[0]
	if first.StartTime != 0 || first.EndTime != 30 {
		t.Fatalf("unexpected merged span [%v,%v]", first.StartTime, first.EndTime)
	}
	if first.Score != cfg.SilenceSpikeScore {
		t.Fatalf("merged score should be the max (%v), got %v", cfg.SilenceSpikeScore, first.Score)
	}
	if moments[1].StartTime != 40 {
		t.Fatalf("unexpected second run start %v", moments[1].StartTime)
	}
}

func TestAudioEmptyInputYieldsEmptyOutput(t *testing.T) {
	analyzer := NewAudioAnalyzer(DefaultDetectionConfig().Audio)
	if got := analyzer.Analyze(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %+v", got)
	}
}
