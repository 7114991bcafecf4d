package highlights

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SignalProvider is the narrow contract the detector consumes raw signals
// through. Implementations do the actual I/O (transcript lookup, scene-change
// extraction, audio sampling); the detection core itself never blocks on I/O
// outside these calls.
type SignalProvider interface {
	Transcript(ctx context.Context, ref SourceRef) ([]TranscriptSegment, error)
	SceneChanges(ctx context.Context, ref SourceRef) ([]float64, error)
	AudioWindows(ctx context.Context, ref SourceRef, windowSize float64) ([]AudioWindow, error)
}

// SourceRef identifies the recording a detection call runs against.
type SourceRef struct {
	VideoID   string  `json:"video_id"`
	MediaPath string  `json:"media_path"`
	Duration  float64 `json:"duration"`
}

// DetectOptions are the caller-facing options of one detection call. The
// zero value selects all defaults.
type DetectOptions struct {
	SelectOptions
	// Config overrides the full weight/threshold/pattern configuration for
	// this call. Nil means DefaultDetectionConfig.
	Config *DetectionConfig `json:"config,omitempty"`
}

// Validate fails fast on malformed options, before the pipeline starts.
func (o DetectOptions) Validate() error {
	if o.MaxClips < 0 || o.MaxClips > maxClipsCeiling {
		return &ValidationError{
			Field:   "max_clips",
			Message: fmt.Sprintf("must be between 1 and %d (or 0 for the default), got %d", maxClipsCeiling, o.MaxClips),
		}
	}
	if o.Config != nil {
		if o.Config.Motion.WindowSize <= 0 {
			return &ValidationError{Field: "config.motion.window_size", Message: "must be positive"}
		}
		if o.Config.Fusion.ReferenceMaxScore <= 0 {
			return &ValidationError{Field: "config.fusion.reference_max_score", Message: "must be positive"}
		}
		if o.Config.Fusion.MaxHighlightDuration <= 0 {
			return &ValidationError{Field: "config.fusion.max_highlight_duration", Message: "must be positive"}
		}
	}
	return nil
}

// Detector runs the full three-signal pipeline: analyzers fan out
// concurrently, fusion joins their outputs, selection produces the final
// list. A Detector holds no cross-call mutable state and is safe for
// concurrent use.
type Detector struct {
	provider SignalProvider
	logger   *logrus.Logger
}

// NewDetector builds a detector on top of a signal provider.
func NewDetector(provider SignalProvider, logger *logrus.Logger) *Detector {
	return &Detector{provider: provider, logger: logger}
}

// DetectHighlights runs the full pipeline for one recording. A deadline or
// cancellation that fires before the fusion join point aborts the whole call
// with a TimeoutError; no partial, under-fused result is ever returned. An
// unavailable upstream source does not fail the call: detection proceeds on
// the remaining sources and the result is marked degraded.
func (d *Detector) DetectHighlights(ctx context.Context, ref SourceRef, opts DetectOptions) (*DetectionResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg := DefaultDetectionConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	// Each goroutine owns one moments slot and one error slot, so the fan-out
	// needs no locking.
	var (
		transcriptMoments []ScoredMoment
		motionMoments     []ScoredMoment
		audioMoments      []ScoredMoment
		transcriptErr     error
		motionErr         error
		audioErr          error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		segments, err := d.provider.Transcript(gctx, ref)
		if err != nil {
			transcriptErr = err
			return d.sourceFailure(gctx, SourceTranscript, err)
		}
		transcriptMoments = NewTranscriptAnalyzer(cfg.Transcript, d.logger).Analyze(segments)
		return nil
	})
	g.Go(func() error {
		events, err := d.provider.SceneChanges(gctx, ref)
		if err != nil {
			motionErr = err
			return d.sourceFailure(gctx, SourceMotion, err)
		}
		motionMoments = NewMotionAnalyzer(cfg.Motion).Analyze(events, ref.Duration)
		return nil
	})
	g.Go(func() error {
		windows, err := d.provider.AudioWindows(gctx, ref, cfg.Motion.WindowSize)
		if err != nil {
			audioErr = err
			return d.sourceFailure(gctx, SourceAudio, err)
		}
		audioMoments = NewAudioAnalyzer(cfg.Audio).Analyze(windows)
		return nil
	})

	// Fusion is a join point: partial fusion would change scoring semantics,
	// so the deadline is checked here and the whole call aborts on expiry.
	if err := g.Wait(); err != nil {
		return nil, &TimeoutError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TimeoutError{Err: err}
	}

	moments := make([]ScoredMoment, 0, len(transcriptMoments)+len(motionMoments)+len(audioMoments))
	moments = append(moments, transcriptMoments...)
	moments = append(moments, motionMoments...)
	moments = append(moments, audioMoments...)

	candidates := NewSignalFusionEngine(cfg.Fusion).Fuse(moments)
	highlights := NewHighlightSelector().Select(candidates, opts.SelectOptions)

	result := &DetectionResult{Highlights: highlights}
	for _, missing := range []struct {
		src Source
		err error
	}{
		{SourceTranscript, transcriptErr},
		{SourceMotion, motionErr},
		{SourceAudio, audioErr},
	} {
		if missing.err != nil {
			result.Degraded = true
			result.MissingSources = append(result.MissingSources, missing.src)
		}
	}

	d.logger.WithFields(logrus.Fields{
		"video_id":   ref.VideoID,
		"candidates": len(candidates),
		"highlights": len(highlights),
		"degraded":   result.Degraded,
	}).Info("Highlight detection completed")
	return result, nil
}

// QuickDetect is the transcript-only, lower-latency preview variant. Motion
// and audio analyzers never run and contribute no weight.
func (d *Detector) QuickDetect(ctx context.Context, ref SourceRef, maxClips int) (*DetectionResult, error) {
	opts := DetectOptions{SelectOptions: SelectOptions{MaxClips: maxClips}}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg := DefaultDetectionConfig()

	segments, err := d.provider.Transcript(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TimeoutError{Err: ctx.Err()}
		}
		// Transcript is the only source here, so an unavailable upstream
		// still yields a degraded empty success, matching the full pipeline.
		d.logger.WithError(err).Warn("Quick detection has no transcript available")
		return &DetectionResult{
			Highlights:     []DetectedHighlight{},
			Degraded:       true,
			MissingSources: []Source{SourceTranscript},
		}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &TimeoutError{Err: err}
	}

	moments := NewTranscriptAnalyzer(cfg.Transcript, d.logger).Analyze(segments)
	candidates := NewSignalFusionEngine(cfg.Fusion).Fuse(moments)
	highlights := NewHighlightSelector().Select(candidates, opts.SelectOptions)
	return &DetectionResult{Highlights: highlights}, nil
}

// sourceFailure distinguishes a genuine upstream failure (logged, detection
// proceeds degraded) from context cancellation (aborts the group).
func (d *Detector) sourceFailure(ctx context.Context, src Source, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	partial := &PartialSignalError{Source: src, Err: err}
	d.logger.WithError(partial).WithField("source", src).Warn("Signal source unavailable, proceeding degraded")
	return nil
}
