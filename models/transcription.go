package models

// TranscriptionData represents the structure of stored transcription data.
type TranscriptionData struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptSegment represents a single segment of a transcription.
type TranscriptSegment struct {
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence,omitempty"`
}

// HighlightMarkers is the JSONB payload stored on source_videos once
// detection has run.
type HighlightMarkers struct {
	Highlights []HighlightMarker `json:"highlights"`
	Degraded   bool              `json:"degraded,omitempty"`
	Missing    []string          `json:"missing_sources,omitempty"`
}

// HighlightMarker is one detected highlight persisted for a source video.
type HighlightMarker struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
	TotalScore float64 `json:"total_score"`
	ClipType   string  `json:"clip_type"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}
