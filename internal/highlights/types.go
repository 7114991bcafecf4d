package highlights

// Source identifies which analyzer produced a scored moment.
type Source string

const (
	SourceTranscript Source = "transcript"
	SourceMotion     Source = "motion"
	SourceAudio      Source = "audio"
)

// ClipType classifies what kind of highlight a fused interval represents.
type ClipType string

const (
	ClipAhaMoment   ClipType = "aha_moment"
	ClipExplanation ClipType = "explanation"
	ClipBuildMoment ClipType = "build_moment"
	ClipDemo        ClipType = "demo"
)

// ActivityLevel classifies the scene-change density of a motion window.
type ActivityLevel string

const (
	ActivityHigh   ActivityLevel = "high"
	ActivityMedium ActivityLevel = "medium"
	ActivityLow    ActivityLevel = "low"
)

// TranscriptSegment is one utterance span from the transcription collaborator.
// Times are seconds from the start of the recording, matching the float64
// second timestamps stored on source_videos.transcription.
type TranscriptSegment struct {
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence,omitempty"`
}

// AudioWindow is one fixed-duration audio descriptor window handed in by the
// audio sampling collaborator.
type AudioWindow struct {
	StartTime          float64 `json:"start_time"`
	EndTime            float64 `json:"end_time"`
	SpeechRatio        float64 `json:"speech_ratio"`
	AverageVolume      float64 `json:"average_volume"`
	VolumeVariance     float64 `json:"volume_variance"`
	SilenceBeforeSpike bool    `json:"silence_before_spike"`
}

// MotionSegment is one analyzed motion window before merging.
type MotionSegment struct {
	StartTime     float64       `json:"start_time"`
	EndTime       float64       `json:"end_time"`
	MotionScore   float64       `json:"motion_score"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	SceneChanges  int           `json:"scene_changes"`
}

// ScoredMoment is the common unit every analyzer produces and fusion consumes.
type ScoredMoment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Source    Source  `json:"source"`
}

// Duration returns the moment span in seconds.
func (m ScoredMoment) Duration() float64 {
	return m.EndTime - m.StartTime
}

// SignalBreakdown carries the per-source raw sub-score totals of a fused
// interval. TotalScore on the owning candidate is always the weighted sum of
// these three values.
type SignalBreakdown struct {
	Transcript float64 `json:"transcript"`
	Motion     float64 `json:"motion"`
	Audio      float64 `json:"audio"`
}

// Get returns the sub-score for a source.
func (s SignalBreakdown) Get(src Source) float64 {
	switch src {
	case SourceTranscript:
		return s.Transcript
	case SourceMotion:
		return s.Motion
	case SourceAudio:
		return s.Audio
	}
	return 0
}

// Add accumulates a sub-score for a source.
func (s *SignalBreakdown) Add(src Source, v float64) {
	switch src {
	case SourceTranscript:
		s.Transcript += v
	case SourceMotion:
		s.Motion += v
	case SourceAudio:
		s.Audio += v
	}
}

// FusedCandidate is one interval produced by the fusion engine, before
// selection. Signals holds raw (unweighted) per-source subtotals; TotalScore
// is their weighted sum under the fusion weights active for the call.
type FusedCandidate struct {
	StartTime      float64         `json:"start_time"`
	EndTime        float64         `json:"end_time"`
	TotalScore     float64         `json:"total_score"`
	Signals        SignalBreakdown `json:"signals"`
	ClipType       ClipType        `json:"clip_type"`
	Reason         string          `json:"reason"`
	Confidence     float64         `json:"confidence"`
	HasRealization bool            `json:"has_realization"`
}

// DetectedHighlight is the final, immutable output unit handed to the
// extraction collaborator.
type DetectedHighlight struct {
	StartTime  float64         `json:"start_time"`
	EndTime    float64         `json:"end_time"`
	Duration   float64         `json:"duration"`
	TotalScore float64         `json:"total_score"`
	Signals    SignalBreakdown `json:"signals"`
	ClipType   ClipType        `json:"clip_type"`
	Reason     string          `json:"reason"`
	Confidence float64         `json:"confidence"`
}

// DetectionResult wraps the final highlight list. Degraded is set when one or
// more signal sources were unavailable upstream and detection proceeded on the
// remaining ones.
type DetectionResult struct {
	Highlights     []DetectedHighlight `json:"highlights"`
	Degraded       bool                `json:"degraded"`
	MissingSources []Source            `json:"missing_sources,omitempty"`
}
