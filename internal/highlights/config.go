package highlights

// MergeStrategy controls how the score of merged adjacent windows is combined.
// Max preserves spike visibility against a diluting average; Sum rewards
// sustained activity instead.
type MergeStrategy string

const (
	MergeMax MergeStrategy = "max"
	MergeSum MergeStrategy = "sum"
)

// TierWeights are the per-tier contributions of the transcript analyzer. A
// tier contributes its weight at most once per segment.
type TierWeights struct {
	HighConfidence float64 `json:"high_confidence"`
	Narration      float64 `json:"narration"`
	Realization    float64 `json:"realization"`
	Technical      float64 `json:"technical"`
}

// TranscriptConfig holds the phrase tables and bonuses of the transcript
// analyzer. Pattern matching is case-insensitive substring containment
// against the normalized segment text.
type TranscriptConfig struct {
	HighConfidencePhrases []string    `json:"high_confidence_phrases"`
	NarrationPhrases      []string    `json:"narration_phrases"`
	RealizationPhrases    []string    `json:"realization_phrases"`
	TechnicalTerms        []string    `json:"technical_terms"`
	Weights               TierWeights `json:"weights"`

	// LongSegmentBonus applies above LongSegmentWords, VeryLongSegmentBonus
	// replaces it above VeryLongSegmentWords. The two never stack.
	LongSegmentWords     int     `json:"long_segment_words"`
	VeryLongSegmentWords int     `json:"very_long_segment_words"`
	LongSegmentBonus     float64 `json:"long_segment_bonus"`
	VeryLongSegmentBonus float64 `json:"very_long_segment_bonus"`

	// QuestionAnswerBonus applies when a segment contains both '?' and '.'.
	QuestionAnswerBonus float64 `json:"question_answer_bonus"`
}

// MotionConfig holds the windowing and density thresholds of the motion
// analyzer. Durations are seconds.
type MotionConfig struct {
	WindowSize            float64       `json:"window_size"`
	HighActivityDensity   float64       `json:"high_activity_density"`
	MediumActivityDensity float64       `json:"medium_activity_density"`
	MinActivityDuration   float64       `json:"min_activity_duration"`
	HighActivityScore     float64       `json:"high_activity_score"`
	MediumActivityScore   float64       `json:"medium_activity_score"`
	MergeStrategy         MergeStrategy `json:"merge_strategy"`
}

// AudioConfig holds the qualification thresholds of the audio analyzer.
type AudioConfig struct {
	VarianceThreshold float64 `json:"variance_threshold"`
	VarianceScore     float64 `json:"variance_score"`
	// SilenceSpikeScore must stay above VarianceScore: a pause followed by a
	// reaction correlates with realization content.
	SilenceSpikeScore float64       `json:"silence_spike_score"`
	MergeStrategy     MergeStrategy `json:"merge_strategy"`
}

// FusionWeights are the per-source multipliers applied during fusion.
type FusionWeights struct {
	Transcript float64 `json:"transcript"`
	Motion     float64 `json:"motion"`
	Audio      float64 `json:"audio"`
}

// Get returns the weight for a source.
func (w FusionWeights) Get(src Source) float64 {
	switch src {
	case SourceTranscript:
		return w.Transcript
	case SourceMotion:
		return w.Motion
	case SourceAudio:
		return w.Audio
	}
	return 0
}

// ClassifyThresholds is the clip-type threshold table consulted by fusion.
// All values compare against weighted per-source sub-scores.
type ClassifyThresholds struct {
	// RealizationScore is the minimum raw score a transcript realization
	// moment needs to trigger aha_moment classification.
	RealizationScore float64 `json:"realization_score"`
	// ExplanationTranscript is the minimum weighted transcript sub-score for
	// explanation; motion must stay below BuildMotion.
	ExplanationTranscript float64 `json:"explanation_transcript"`
	// BuildMotion / BuildTranscriptCeiling gate build_moment: motion high,
	// transcript low.
	BuildMotion            float64 `json:"build_motion"`
	BuildTranscriptCeiling float64 `json:"build_transcript_ceiling"`
	// DemoShared is the lower bar both transcript and motion must clear for
	// demo.
	DemoShared float64 `json:"demo_shared"`
}

// FusionConfig holds the weights, merge limits and classification table of
// the fusion engine.
type FusionConfig struct {
	Weights FusionWeights `json:"weights"`
	// MaxHighlightDuration caps the span of tolerance-merged intervals,
	// seconds.
	MaxHighlightDuration float64 `json:"max_highlight_duration"`
	// MergeTolerance is the fused-score delta under which adjacent
	// sub-intervals merge.
	MergeTolerance float64            `json:"merge_tolerance"`
	Thresholds     ClassifyThresholds `json:"thresholds"`
	// ReferenceMaxScore normalizes confidence so it stays comparable across
	// differently weighted configurations.
	ReferenceMaxScore float64 `json:"reference_max_score"`
	// AhaRequiresSupport additionally demands a non-zero motion or audio
	// sub-score before aha_moment wins. Off by default: a transcript
	// realization phrase alone triggers it.
	AhaRequiresSupport bool `json:"aha_requires_support"`
}

// DetectionConfig is the full immutable configuration for one detection call.
// Construct it once per call (DefaultDetectionConfig plus overrides) and pass
// it through the pipeline; it is never mutated and safe to share by reference
// across concurrent calls.
type DetectionConfig struct {
	Transcript TranscriptConfig `json:"transcript"`
	Motion     MotionConfig     `json:"motion"`
	Audio      AudioConfig      `json:"audio"`
	Fusion     FusionConfig     `json:"fusion"`
}

// DefaultDetectionConfig returns the tuned defaults. Every field is meant to
// be overridden per call; nothing in the pipeline reads package-level state.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Transcript: TranscriptConfig{
			HighConfidencePhrases: []string{
				"the idea is",
				"the key is",
				"the trick is",
				"what this means",
				"the reason is",
				"this is how",
				"let me explain",
				"the way it works",
				"important to understand",
			},
			NarrationPhrases: []string{
				"first we",
				"then we",
				"next we",
				"now we need",
				"after that",
				"step by step",
				"let's start",
				"going to build",
			},
			RealizationPhrases: []string{
				"oh wait",
				"i just realized",
				"that's why",
				"now i see",
				"it turns out",
				"that makes sense",
				"there it is",
				"it's working",
			},
			TechnicalTerms: []string{
				"algorithm",
				"refactor",
				"endpoint",
				"middleware",
				"concurrency",
				"pipeline",
				"benchmark",
				"regression",
			},
			Weights: TierWeights{
				HighConfidence: 3.0,
				Narration:      2.0,
				Realization:    2.5,
				Technical:      1.5,
			},
			LongSegmentWords:     30,
			VeryLongSegmentWords: 50,
			LongSegmentBonus:     1.0,
			VeryLongSegmentBonus: 1.5,
			QuestionAnswerBonus:  1.0,
		},
		Motion: MotionConfig{
			WindowSize:            10,
			HighActivityDensity:   0.5,
			MediumActivityDensity: 0.2,
			MinActivityDuration:   3,
			HighActivityScore:     2.0,
			MediumActivityScore:   1.0,
			MergeStrategy:         MergeMax,
		},
		Audio: AudioConfig{
			VarianceThreshold: 0.5,
			VarianceScore:     1.5,
			SilenceSpikeScore: 2.5,
			MergeStrategy:     MergeMax,
		},
		Fusion: FusionConfig{
			Weights: FusionWeights{
				Transcript: 2.0,
				Motion:     1.5,
				Audio:      1.0,
			},
			MaxHighlightDuration: 90,
			MergeTolerance:       1.0,
			Thresholds: ClassifyThresholds{
				RealizationScore:       2.0,
				ExplanationTranscript:  4.0,
				BuildMotion:            3.0,
				BuildTranscriptCeiling: 2.0,
				DemoShared:             1.5,
			},
			ReferenceMaxScore:  20,
			AhaRequiresSupport: false,
		},
	}
}
