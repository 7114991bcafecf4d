package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
)

// DetectHighlightsJob runs the full detection pipeline for one source video
// and persists the resulting markers. When the job metadata asks for it, a
// clip row and extraction job are queued per detected highlight.
type DetectHighlightsJob struct {
	Runtime *Runtime
	Record  models.ProcessingJob
}

// detectJobMetadata is the optional JSONB payload on a detect_highlights job.
type detectJobMetadata struct {
	MaxClips    int                   `json:"max_clips,omitempty"`
	MinScore    float64               `json:"min_score,omitempty"`
	PreferTypes []highlights.ClipType `json:"prefer_types,omitempty"`
	AutoClip    bool                  `json:"auto_clip,omitempty"`
}

// ID returns the database job ID.
func (j *DetectHighlightsJob) ID() string {
	return j.Record.ID.String()
}

// Execute runs detection and records the outcome on the job row.
func (j *DetectHighlightsJob) Execute(ctx context.Context) error {
	rt := j.Runtime
	videoID := j.Record.EntityID.String()

	var meta detectJobMetadata
	if len(j.Record.Metadata) > 0 {
		if err := json.Unmarshal(j.Record.Metadata, &meta); err != nil {
			rt.Logger.Warnf("Job %s has unreadable metadata, using defaults: %v", j.ID(), err)
		}
	}

	video, err := rt.Store.GetSourceVideo(videoID)
	if err != nil {
		return j.fail(err)
	}

	ref := highlights.SourceRef{VideoID: videoID}
	if video.Duration != nil {
		ref.Duration = *video.Duration
	}
	opts := highlights.DetectOptions{
		SelectOptions: highlights.SelectOptions{
			MaxClips:    meta.MaxClips,
			MinScore:    meta.MinScore,
			PreferTypes: meta.PreferTypes,
		},
	}

	result, err := rt.Detector.DetectHighlights(ctx, ref, opts)
	if err != nil {
		return j.fail(fmt.Errorf("detection for video %s: %w", videoID, err))
	}

	if err := j.persistMarkers(videoID, result); err != nil {
		return j.fail(err)
	}

	if meta.AutoClip {
		for _, hl := range result.Highlights {
			if err := j.queueClipExtraction(video, hl); err != nil {
				rt.Logger.Errorf("Could not queue extraction for highlight %.2fs-%.2fs of video %s: %v",
					hl.StartTime, hl.EndTime, videoID, err)
			}
		}
	}

	rt.Logger.Infof("Detection job %s stored %d highlights for video %s (degraded=%v)",
		j.ID(), len(result.Highlights), videoID, result.Degraded)
	return rt.Store.CompleteJob(j.ID())
}

func (j *DetectHighlightsJob) fail(err error) error {
	if dbErr := j.Runtime.Store.FailJob(j.ID(), err); dbErr != nil {
		j.Runtime.Logger.Errorf("Could not record failure of job %s: %v", j.ID(), dbErr)
	}
	return err
}

// persistMarkers writes the detection result onto the source video row.
func (j *DetectHighlightsJob) persistMarkers(videoID string, result *highlights.DetectionResult) error {
	markers := models.HighlightMarkers{
		Highlights: make([]models.HighlightMarker, 0, len(result.Highlights)),
		Degraded:   result.Degraded,
	}
	for _, src := range result.MissingSources {
		markers.Missing = append(markers.Missing, string(src))
	}
	for _, hl := range result.Highlights {
		markers.Highlights = append(markers.Highlights, models.HighlightMarker{
			StartTime:  hl.StartTime,
			EndTime:    hl.EndTime,
			Duration:   hl.Duration,
			TotalScore: hl.TotalScore,
			ClipType:   string(hl.ClipType),
			Reason:     hl.Reason,
			Confidence: hl.Confidence,
		})
	}

	markerBytes, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("marshalling highlight markers: %w", err)
	}
	return j.Runtime.Store.UpdateSourceVideo(videoID, map[string]interface{}{
		"highlight_markers":  json.RawMessage(markerBytes),
		"detection_degraded": result.Degraded,
	})
}

// queueClipExtraction creates a clip row plus its extraction job.
func (j *DetectHighlightsJob) queueClipExtraction(video *models.SourceVideo, hl highlights.DetectedHighlight) error {
	now := time.Now()
	clipType := string(hl.ClipType)
	clip := models.Clip{
		ID:            uuid.New(),
		SourceVideoID: video.ID,
		Title:         fmt.Sprintf("%s %s %.0fs", video.Title, clipType, hl.StartTime),
		StartTime:     &hl.StartTime,
		EndTime:       &hl.EndTime,
		Duration:      &hl.Duration,
		ClipType:      &clipType,
		TotalScore:    &hl.TotalScore,
		Confidence:    &hl.Confidence,
		Reason:        &hl.Reason,
		Status:        "pending_extraction",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created []models.Clip
	_, err := j.Runtime.Store.Client.From("clips").
		Insert(clip, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		return fmt.Errorf("inserting clip: %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("no record returned after clip insert")
	}

	_, err = j.Runtime.Store.CreateJob(models.ProcessingJob{
		ID:         uuid.New(),
		JobType:    models.JobTypeExtractClip,
		EntityID:   created[0].ID,
		EntityType: "clip",
		Status:     models.JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return err
}
