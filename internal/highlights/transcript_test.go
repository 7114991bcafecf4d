package highlights

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestTranscriptHighConfidenceScenario(t *testing.T) {
	// Scenario A: "so the idea is we cache results" over [10,16] matches the
	// high-confidence tier and nothing else.
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		{Text: "so the idea is we cache results", StartTime: 10, EndTime: 16},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	m := moments[0]
	if m.StartTime != 10 || m.EndTime != 16 {
		t.Fatalf("unexpected span [%v,%v]", m.StartTime, m.EndTime)
	}
	if m.Score != 3.0 {
		t.Fatalf("expected score 3.0, got %v", m.Score)
	}
	if m.Source != SourceTranscript {
		t.Fatalf("expected transcript source, got %q", m.Source)
	}
	if m.Reason != "high_confidence" {
		t.Fatalf("expected reason high_confidence, got %q", m.Reason)
	}
}

func TestTranscriptZeroTierSegmentEmitsNothing(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		{Text: "um yeah okay sure", StartTime: 0, EndTime: 4},
	})
	if len(moments) != 0 {
		t.Fatalf("expected no moments, got %+v", moments)
	}
}

func TestTranscriptTierWeightsDoNotStackWithinTier(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		// Two high-confidence phrases, one tier: the weight applies once.
		{Text: "the idea is simple and the key is caching", StartTime: 0, EndTime: 5},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	if moments[0].Score != 3.0 {
		t.Fatalf("expected single tier weight 3.0, got %v", moments[0].Score)
	}
}

func TestTranscriptTiersSumAcrossTiers(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		{Text: "the idea is we refactor the algorithm", StartTime: 0, EndTime: 5},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	// high_confidence 3.0 + technical 1.5
	if moments[0].Score != 4.5 {
		t.Fatalf("expected 4.5, got %v", moments[0].Score)
	}
	if moments[0].Reason != "high_confidence+technical" {
		t.Fatalf("unexpected reason %q", moments[0].Reason)
	}
}

func TestTranscriptLengthBonusesDoNotStack(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())

	long := "the idea is " + strings.Repeat("word ", 35)
	veryLong := "the idea is " + strings.Repeat("word ", 55)

	longMoments := analyzer.Analyze([]TranscriptSegment{{Text: long, StartTime: 0, EndTime: 30}})
	veryLongMoments := analyzer.Analyze([]TranscriptSegment{{Text: veryLong, StartTime: 0, EndTime: 40}})

	if got := longMoments[0].Score; got != 4.0 {
		t.Fatalf("long segment: expected 3.0 + 1.0, got %v", got)
	}
	if got := veryLongMoments[0].Score; got != 4.5 {
		t.Fatalf("very long segment: expected 3.0 + 1.5 (not 3.0 + 1.0 + 1.5), got %v", got)
	}
}

func TestTranscriptQuestionAnswerBonus(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		{Text: "why is this slow? the reason is lock contention.", StartTime: 0, EndTime: 8},
	})
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	// high_confidence 3.0 + question_answer 1.0
	if moments[0].Score != 4.0 {
		t.Fatalf("expected 4.0, got %v", moments[0].Score)
	}
}

func TestTranscriptSkipsMalformedSegments(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	moments := analyzer.Analyze([]TranscriptSegment{
		{Text: "", StartTime: 0, EndTime: 5},
		{Text: "the idea is inverted bounds", StartTime: 9, EndTime: 4},
		{Text: "the idea is this one survives", StartTime: 20, EndTime: 25},
	})
	if len(moments) != 1 {
		t.Fatalf("expected only the well-formed segment, got %d moments", len(moments))
	}
	if moments[0].StartTime != 20 {
		t.Fatalf("wrong surviving segment: %+v", moments[0])
	}
}

func TestTranscriptDeterministic(t *testing.T) {
	analyzer := NewTranscriptAnalyzer(DefaultDetectionConfig().Transcript, testLogger())
	segments := []TranscriptSegment{
		{Text: "first we set up the pipeline", StartTime: 0, EndTime: 6},
		{Text: "oh wait that's why it failed", StartTime: 10, EndTime: 14},
	}
	a := analyzer.Analyze(segments)
	b := analyzer.Analyze(segments)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic moment %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
