package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
	"github.com/Organized-AI/whop-clipping-agency-sub001/utils"
)

// DetectHighlightsPayload defines the options accepted by the detection
// endpoints. All fields are optional; zero values select the engine defaults.
type DetectHighlightsPayload struct {
	MaxClips    int                         `json:"max_clips"`
	MinScore    float64                     `json:"min_score"`
	PreferTypes []highlights.ClipType       `json:"prefer_types,omitempty"`
	Config      *highlights.DetectionConfig `json:"config,omitempty"`
	// TimeoutSeconds bounds the detection call; defaults to 120.
	TimeoutSeconds int `json:"timeout_seconds"`
}

const defaultDetectTimeout = 120 * time.Second

// DetectHighlights runs the full three-signal detection pipeline for a source
// video and persists the resulting highlight markers.
// POST /api/v1/videos/:videoId/highlights/detect
func (h *ApplicationHandler) DetectHighlights(c *fiber.Ctx) error {
	videoIDStr := c.Params("videoId")
	videoID, err := uuid.Parse(videoIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}
	h.Logger.Infof("Received highlight detection request for video %s", videoID)

	// An absent or unparsable body is fine; everything defaults.
	payload := new(DetectHighlightsPayload)
	if err := c.BodyParser(payload); err != nil && len(c.Body()) > 0 {
		h.Logger.Warnf("Could not parse detection payload for video %s: %v", videoID, err)
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Source video not found: %v", err))
	}

	timeout := defaultDetectTimeout
	if payload.TimeoutSeconds > 0 {
		timeout = time.Duration(payload.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Context(), timeout)
	defer cancel()

	ref := highlights.SourceRef{VideoID: videoID.String()}
	if video.Duration != nil {
		ref.Duration = *video.Duration
	}
	opts := highlights.DetectOptions{
		SelectOptions: highlights.SelectOptions{
			MaxClips:    payload.MaxClips,
			MinScore:    payload.MinScore,
			PreferTypes: payload.PreferTypes,
		},
		Config: payload.Config,
	}

	result, err := h.Detector.DetectHighlights(ctx, ref, opts)
	if err != nil {
		switch {
		case highlights.IsValidation(err):
			return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
		case highlights.IsTimeout(err):
			return utils.RespondWithError(c, fiber.StatusGatewayTimeout, err.Error())
		default:
			h.Logger.Errorf("Highlight detection failed for video %s: %v", videoID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Highlight detection failed: %v", err))
		}
	}

	if err := h.persistHighlightMarkers(videoID, result); err != nil {
		h.Logger.Errorf("Could not persist highlight markers for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not store highlight markers: %v", err))
	}

	h.Logger.Infof("Detected %d highlights for video %s (degraded=%v)", len(result.Highlights), videoID, result.Degraded)
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// QuickDetectHighlights runs the transcript-only preview variant. Nothing is
// persisted; the response is meant for interactive preview.
// POST /api/v1/videos/:videoId/highlights/quick
func (h *ApplicationHandler) QuickDetectHighlights(c *fiber.Ctx) error {
	videoIDStr := c.Params("videoId")
	videoID, err := uuid.Parse(videoIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	payload := new(DetectHighlightsPayload)
	if err := c.BodyParser(payload); err != nil {
		payload = &DetectHighlightsPayload{}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	result, err := h.Detector.QuickDetect(ctx, highlights.SourceRef{VideoID: videoID.String()}, payload.MaxClips)
	if err != nil {
		switch {
		case highlights.IsValidation(err):
			return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
		case highlights.IsTimeout(err):
			return utils.RespondWithError(c, fiber.StatusGatewayTimeout, err.Error())
		default:
			h.Logger.Errorf("Quick detection failed for video %s: %v", videoID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Quick detection failed: %v", err))
		}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// GetHighlights returns the stored highlight markers for a source video.
// GET /api/v1/videos/:videoId/highlights
func (h *ApplicationHandler) GetHighlights(c *fiber.Ctx) error {
	videoIDStr := c.Params("videoId")
	videoID, err := uuid.Parse(videoIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Source video not found: %v", err))
	}

	markers := models.HighlightMarkers{Highlights: []models.HighlightMarker{}}
	if len(video.HighlightMarkers) > 0 {
		if err := json.Unmarshal(video.HighlightMarkers, &markers); err != nil {
			h.Logger.Errorf("Could not decode highlight markers for video %s: %v", videoID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not decode stored highlight markers")
		}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, markers)
}

// fetchSourceVideo loads one source video row by ID.
func (h *ApplicationHandler) fetchSourceVideo(videoID uuid.UUID) (*models.SourceVideo, error) {
	var videos []models.SourceVideo
	bodyBytes, _, err := h.DB.From("source_videos").
		Select("*", "", false).
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching source video: %w", err)
	}
	if err := json.Unmarshal(bodyBytes, &videos); err != nil {
		return nil, fmt.Errorf("unmarshalling source video: %w", err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}
	return &videos[0], nil
}

// persistHighlightMarkers writes the detection result back to the source
// video row.
func (h *ApplicationHandler) persistHighlightMarkers(videoID uuid.UUID, result *highlights.DetectionResult) error {
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

	updateFields := map[string]interface{}{
		"highlight_markers":  json.RawMessage(markerBytes),
		"detection_degraded": result.Degraded,
		"updated_at":         time.Now(),
	}
	_, _, err = h.DB.From("source_videos").
		Update(updateFields, "", "").
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("updating source video: %w", err)
	}
	return nil
}
