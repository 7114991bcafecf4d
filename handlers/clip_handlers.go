package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
	"github.com/Organized-AI/whop-clipping-agency-sub001/utils"
)

// CreateClipRequest defines the JSON body for creating a clip from an
// accepted highlight.
type CreateClipRequest struct {
	Title      string  `json:"title"`
	StartTime  float64 `json:"start_time" validate:"min=0"`
	EndTime    float64 `json:"end_time" validate:"required,gtfield=StartTime"`
	ClipType   string  `json:"clip_type"`
	TotalScore float64 `json:"total_score"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// CreateClip records a clip for an accepted highlight and queues an
// extraction job for the processor.
// POST /api/v1/videos/:videoId/clips
func (h *ApplicationHandler) CreateClip(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	payload := new(CreateClipRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing create clip payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Validation failed: %s", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Source video not found")
	}
	if video.Duration != nil && payload.EndTime > *video.Duration {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Clip end time %.2fs exceeds video duration %.2fs", payload.EndTime, *video.Duration))
	}

	now := time.Now()
	title := utils.SanitizeInput(payload.Title)
	if title == "" {
		title = fmt.Sprintf("%s clip %.0fs-%.0fs", video.Title, payload.StartTime, payload.EndTime)
	}

	duration := payload.EndTime - payload.StartTime
	clip := models.Clip{
		ID:            uuid.New(),
		SourceVideoID: videoID,
		Title:         title,
		StartTime:     &payload.StartTime,
		EndTime:       &payload.EndTime,
		Duration:      &duration,
		Status:        "pending_extraction",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if payload.ClipType != "" {
		clip.ClipType = &payload.ClipType
	}
	if payload.TotalScore > 0 {
		clip.TotalScore = &payload.TotalScore
	}
	if payload.Confidence > 0 {
		clip.Confidence = &payload.Confidence
	}
	if payload.Reason != "" {
		clip.Reason = &payload.Reason
	}

	var created []models.Clip
	bodyBytes, _, err := h.DB.From("clips").
		Insert(clip, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating clip record: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create clip record: %v", err))
	}
	if err := json.Unmarshal(bodyBytes, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling clip creation response: %v, body: %s", err, string(bodyBytes))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to confirm clip record creation")
	}

	if err := h.enqueueExtractionJob(created[0].ID); err != nil {
		h.Logger.Errorf("Could not enqueue extraction job for clip %s: %v", created[0].ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Clip created but extraction could not be queued")
	}

	h.Logger.Infof("Created clip %s for video %s (%.2fs-%.2fs)", created[0].ID, videoID, payload.StartTime, payload.EndTime)
	return utils.RespondWithJSON(c, fiber.StatusCreated, created[0])
}

// ListClips returns all clips for a source video.
// GET /api/v1/videos/:videoId/clips
func (h *ApplicationHandler) ListClips(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	var clips []models.Clip
	bodyBytes, _, err := h.DB.From("clips").
		Select("*", "", false).
		Eq("source_video_id", videoID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching clips for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve clips: %v", err))
	}
	if err := json.Unmarshal(bodyBytes, &clips); err != nil {
		h.Logger.Errorf("Error unmarshalling clips: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process clip data")
	}
	if clips == nil {
		clips = []models.Clip{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, clips)
}

// GetClip returns one clip row.
// GET /api/v1/clips/:clipId
func (h *ApplicationHandler) GetClip(c *fiber.Ctx) error {
	clipID, err := uuid.Parse(c.Params("clipId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	var clips []models.Clip
	bodyBytes, _, err := h.DB.From("clips").
		Select("*", "", false).
		Eq("id", clipID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching clip %s: %v", clipID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve clip: %v", err))
	}
	if err := json.Unmarshal(bodyBytes, &clips); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process clip data")
	}
	if len(clips) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Clip not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, clips[0])
}

// enqueueExtractionJob creates a pending extract_clip job for the processor.
func (h *ApplicationHandler) enqueueExtractionJob(clipID uuid.UUID) error {
	now := time.Now()
	job := models.ProcessingJob{
		ID:         uuid.New(),
		JobType:    models.JobTypeExtractClip,
		EntityID:   clipID,
		EntityType: "clip",
		Status:     models.JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, _, err := h.DB.From("processing_jobs").
		Insert(job, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("inserting processing job: %w", err)
	}
	return nil
}
