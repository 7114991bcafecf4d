package highlights

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakeProvider hands canned signals to the detector. A nil error with nil
// data is a valid empty source; a non-nil error marks the source unavailable.
type fakeProvider struct {
	segments    []TranscriptSegment
	events      []float64
	windows     []AudioWindow
	transcriptE error
	scenesE     error
	audioE      error
	delay       time.Duration
}

func (f *fakeProvider) Transcript(ctx context.Context, ref SourceRef) ([]TranscriptSegment, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.segments, f.transcriptE
}

func (f *fakeProvider) SceneChanges(ctx context.Context, ref SourceRef) ([]float64, error) {
	return f.events, f.scenesE
}

func (f *fakeProvider) AudioWindows(ctx context.Context, ref SourceRef, windowSize float64) ([]AudioWindow, error) {
	return f.windows, f.audioE
}

func testRef() SourceRef {
	return SourceRef{VideoID: "video-1", MediaPath: "/tmp/video-1.mp4", Duration: 120}
}

func TestDetectHighlightsFullPipeline(t *testing.T) {
	provider := &fakeProvider{
		segments: []TranscriptSegment{
			{Text: "so the idea is we cache results", StartTime: 10, EndTime: 16},
			{Text: "oh wait that's why the build kept failing", StartTime: 60, EndTime: 66},
		},
		events: []float64{11, 12.5, 13, 14, 15, 15.5},
		windows: []AudioWindow{
			{StartTime: 60, EndTime: 70, SilenceBeforeSpike: true},
		},
	}
	detector := NewDetector(provider, testLogger())
	result, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Degraded {
		t.Fatalf("result should not be degraded: %+v", result)
	}
	if len(result.Highlights) == 0 {
		t.Fatal("expected highlights")
	}
	var foundAha bool
	for _, h := range result.Highlights {
		if h.ClipType == ClipAhaMoment {
			foundAha = true
		}
	}
	if !foundAha {
		t.Fatalf("expected an aha_moment from the realization segment, got %+v", result.Highlights)
	}
}

func TestDetectHighlightsDeterministic(t *testing.T) {
	provider := &fakeProvider{
		segments: []TranscriptSegment{
			{Text: "first we wire up the pipeline", StartTime: 0, EndTime: 8},
			{Text: "the idea is to batch writes", StartTime: 30, EndTime: 38},
		},
		events:  []float64{1, 2, 3, 4, 5, 6, 31, 33, 35},
		windows: []AudioWindow{{StartTime: 30, EndTime: 40, VolumeVariance: 0.8}},
	}
	detector := NewDetector(provider, testLogger())
	a, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("detection not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestDetectHighlightsValidationFailsFast(t *testing.T) {
	detector := NewDetector(&fakeProvider{}, testLogger())
	_, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{
		SelectOptions: SelectOptions{MaxClips: 21},
	})
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = detector.DetectHighlights(context.Background(), testRef(), DetectOptions{
		SelectOptions: SelectOptions{MaxClips: -1},
	})
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDetectHighlightsDegradedOnMissingSource(t *testing.T) {
	provider := &fakeProvider{
		segments: []TranscriptSegment{
			{Text: "so the idea is we cache results", StartTime: 10, EndTime: 16},
		},
		scenesE: errors.New("scene extraction unavailable"),
		audioE:  errors.New("audio sampling unavailable"),
	}
	detector := NewDetector(provider, testLogger())
	result, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{})
	if err != nil {
		t.Fatalf("degraded detection must not fail: %v", err)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	want := []Source{SourceMotion, SourceAudio}
	if !reflect.DeepEqual(result.MissingSources, want) {
		t.Fatalf("expected missing sources %v, got %v", want, result.MissingSources)
	}
	if len(result.Highlights) == 0 {
		t.Fatal("transcript-only highlights expected")
	}
}

func TestDetectHighlightsTimeoutBeforeJoinAborts(t *testing.T) {
	provider := &fakeProvider{
		segments: []TranscriptSegment{
			{Text: "so the idea is we cache results", StartTime: 10, EndTime: 16},
		},
		delay: 200 * time.Millisecond,
	}
	detector := NewDetector(provider, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	result, err := detector.DetectHighlights(ctx, testRef(), DetectOptions{})
	if err == nil || !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if result != nil {
		t.Fatalf("no partial result may be returned, got %+v", result)
	}
}

func TestDetectHighlightsEmptySignalsIsSuccess(t *testing.T) {
	detector := NewDetector(&fakeProvider{}, testLogger())
	result, err := detector.DetectHighlights(context.Background(), testRef(), DetectOptions{})
	if err != nil {
		t.Fatalf("zero highlights is a valid success outcome, got error %v", err)
	}
	if result.Degraded {
		t.Fatalf("empty sources are not degraded sources: %+v", result)
	}
	if len(result.Highlights) != 0 {
		t.Fatalf("expected no highlights, got %+v", result.Highlights)
	}
}

func TestQuickDetectTranscriptOnly(t *testing.T) {
	provider := &fakeProvider{
		segments: []TranscriptSegment{
			{Text: "the idea is to shard by customer", StartTime: 5, EndTime: 18},
		},
		// Motion and audio collaborators must never be consulted; make them
		// poison the result if they are.
		events:  []float64{5.1, 5.2, 5.3, 5.4, 5.5, 6, 6.5, 7, 7.5, 8},
		windows: []AudioWindow{{StartTime: 0, EndTime: 10, SilenceBeforeSpike: true}},
	}
	detector := NewDetector(provider, testLogger())
	result, err := detector.QuickDetect(context.Background(), testRef(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %+v", result.Highlights)
	}
	h := result.Highlights[0]
	if h.Signals.Motion != 0 || h.Signals.Audio != 0 {
		t.Fatalf("quick detect must carry no motion/audio weight: %+v", h.Signals)
	}
}

func TestQuickDetectMissingTranscriptIsDegraded(t *testing.T) {
	provider := &fakeProvider{transcriptE: errors.New("no transcription stored")}
	detector := NewDetector(provider, testLogger())
	result, err := detector.QuickDetect(context.Background(), testRef(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Degraded || len(result.Highlights) != 0 {
		t.Fatalf("expected degraded empty result, got %+v", result)
	}
}
