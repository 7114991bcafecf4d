package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/config"
	"github.com/Organized-AI/whop-clipping-agency-sub001/utils"
)

const sourceVideoBucket = "source-videos"

// UploadVideoFile streams an uploaded recording into Supabase storage at the
// path reserved by InitiateVideoUpload, then marks the video uploaded. Going
// through the API keeps browser clients clear of storage CORS rules.
// POST /api/v1/videos/:videoId/upload
func (h *ApplicationHandler) UploadVideoFile(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}
	h.Logger.Infof("Received file upload for video %s", videoID)

	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.Errorf("Error getting file from upload request: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}

	fileHandle, err := file.Open()
	if err != nil {
		h.Logger.Errorf("Error opening uploaded file: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error opening file: %v", err))
	}
	defer fileHandle.Close()

	fileContent, err := io.ReadAll(fileHandle)
	if err != nil {
		h.Logger.Errorf("Error reading uploaded file: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error reading file: %v", err))
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Source video not found")
	}
	if video.StoragePath == "" {
		return utils.RespondWithError(c, fiber.StatusConflict, "Video has no reserved storage path")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", config.GetSupabaseURL(), sourceVideoBucket, video.StoragePath)
	req, err := http.NewRequestWithContext(c.Context(), http.MethodPost, uploadURL, bytes.NewReader(fileContent))
	if err != nil {
		h.Logger.Errorf("Error creating storage upload request: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error creating upload request: %v", err))
	}
	contentType := "application/octet-stream"
	if cts := file.Header["Content-Type"]; len(cts) > 0 {
		contentType = cts[0]
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+config.GetSupabaseKey())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		h.Logger.Errorf("Error uploading file to storage: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error uploading file: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		h.Logger.Errorf("Storage upload failed with status %d: %s", resp.StatusCode, string(respBody))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Upload failed with status %d", resp.StatusCode))
	}

	updateFields := map[string]interface{}{
		"status":     "uploaded",
		"updated_at": time.Now(),
	}
	if _, _, err := h.DB.From("source_videos").
		Update(updateFields, "", "").
		Eq("id", videoID.String()).
		Execute(); err != nil {
		// Upload itself succeeded, keep going.
		h.Logger.Errorf("Error updating video %s status after upload: %v", videoID, err)
	}

	h.Logger.Infof("Uploaded file for video %s (%d bytes)", videoID, len(fileContent))
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"video_id":     videoID,
		"storage_path": video.StoragePath,
		"size_bytes":   len(fileContent),
	})
}

// CompleteVideoUpload is called by clients that uploaded directly to storage.
// It verifies the object exists before marking the video uploaded.
// POST /api/v1/videos/:videoId/upload/complete
func (h *ApplicationHandler) CompleteVideoUpload(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	video, err := h.fetchSourceVideo(videoID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Source video not found")
	}

	infoURL := fmt.Sprintf("%s/storage/v1/object/info/%s/%s", config.GetSupabaseURL(), sourceVideoBucket, video.StoragePath)
	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, infoURL, nil)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error creating storage check request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+config.GetSupabaseKey())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		h.Logger.Errorf("Error checking storage object for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not verify uploaded object")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return utils.RespondWithError(c, fiber.StatusConflict, "Uploaded object not found in storage")
	}

	updateFields := map[string]interface{}{
		"status":     "uploaded",
		"updated_at": time.Now(),
	}
	bodyBytes, _, err := h.DB.From("source_videos").
		Update(updateFields, "", "").
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error marking video %s uploaded: %v, body: %s", videoID, err, string(bodyBytes))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not update video status")
	}

	h.Logger.Infof("Marked video %s uploaded", videoID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"video_id": videoID, "status": "uploaded"})
}
