package handlers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
	"github.com/Organized-AI/whop-clipping-agency-sub001/utils"
)

var validate = validator.New()

// InitiateUploadRequest defines the expected JSON structure for initiating a video upload.
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"` // e.g., "video/mp4"
	Title       string `json:"title"`
}

// InitiateVideoUpload creates a SourceVideo record and returns the storage
// path the client should upload the recording to.
// POST /api/v1/videos
func (h *ApplicationHandler) InitiateVideoUpload(c *fiber.Ctx) error {
	payload := new(InitiateUploadRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing initiate upload payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	if err := validate.Struct(payload); err != nil {
		h.Logger.Errorf("Validation error for initiate upload payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Validation failed: %s", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	newSourceVideoID := uuid.New()
	now := time.Now()
	fileExtension := filepath.Ext(payload.FileName)
	// storageFileName ensures a unique name in storage using the video's new UUID
	storageFileName := fmt.Sprintf("%s%s", newSourceVideoID.String(), fileExtension)
	storagePath := fmt.Sprintf("uploads/%s", storageFileName)

	title := utils.SanitizeInput(payload.Title)
	if title == "" {
		title = payload.FileName
	}

	format := payload.ContentType
	defaultTranscriptionStatus := "pending_transcription"
	sourceVideo := models.SourceVideo{
		ID:                  newSourceVideoID,
		Title:               title,
		StoragePath:         storagePath,
		Status:              "pending_upload",
		Format:              &format,
		TranscriptionStatus: &defaultTranscriptionStatus,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	var createdVideoRecord []models.SourceVideo
	bodyBytes, _, err := h.DB.From("source_videos").
		Insert(sourceVideo, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating source video record in Supabase: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create source video record: %v", err))
	}
	if err := json.Unmarshal(bodyBytes, &createdVideoRecord); err != nil || len(createdVideoRecord) == 0 {
		h.Logger.Errorf("Error unmarshalling source video record creation response: %v, body: %s", err, string(bodyBytes))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to confirm source video record creation")
	}

	h.Logger.Infof("Initiated upload for source video %s at %s", newSourceVideoID, storagePath)
	return utils.RespondWithJSON(c, fiber.StatusCreated, createdVideoRecord[0])
}

// GetVideo returns one source video row.
// GET /api/v1/videos/:videoId
func (h *ApplicationHandler) GetVideo(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, video)
}

// ListVideos returns all source videos, newest first.
// GET /api/v1/videos
func (h *ApplicationHandler) ListVideos(c *fiber.Ctx) error {
	var videos []models.SourceVideo
	bodyBytes, _, err := h.DB.From("source_videos").
		Select("*", "", false).
		Order("created_at", nil).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching source videos from Supabase: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve videos: %v", err))
	}
	if err := json.Unmarshal(bodyBytes, &videos); err != nil {
		h.Logger.Errorf("Error unmarshalling source videos: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process video data")
	}
	if videos == nil {
		videos = []models.SourceVideo{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, videos)
}
