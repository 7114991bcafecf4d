package models

import (
	"time"

	"github.com/google/uuid"
)

// Clip represents one extracted highlight clip in the database.
type Clip struct {
	ID            uuid.UUID `json:"id"`
	SourceVideoID uuid.UUID `json:"source_video_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	StoragePath   *string   `json:"storage_path,omitempty"`
	StartTime     *float64  `json:"start_time,omitempty"` // Nullable FLOAT, seconds
	EndTime       *float64  `json:"end_time,omitempty"`   // Nullable FLOAT, seconds
	Duration      *float64  `json:"duration,omitempty"`
	ClipType      *string   `json:"clip_type,omitempty"`
	TotalScore    *float64  `json:"total_score,omitempty"` // Nullable FLOAT
	Confidence    *float64  `json:"confidence,omitempty"`  // Nullable FLOAT
	Reason        *string   `json:"reason,omitempty"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	DownloadURL   *string   `json:"download_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
