// Package jobs holds the concrete background jobs the processor runs:
// highlight detection over a source video and clip extraction for accepted
// highlights.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/db"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/signals"
)

const clipBucket = "clips"

// Runtime bundles the shared dependencies every job needs.
type Runtime struct {
	Store    *db.Store
	Provider *signals.Provider
	Detector *highlights.Detector
	Logger   *logrus.Logger

	SupabaseURL string
	SupabaseKey string
}

// uploadClip pushes an extracted clip file into storage at storagePath.
func (r *Runtime) uploadClip(ctx context.Context, localPath, storagePath string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading extracted clip %s: %w", localPath, err)
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", r.SupabaseURL, clipBucket, storagePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("creating clip upload request: %w", err)
	}
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Authorization", "Bearer "+r.SupabaseKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("uploading clip to storage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clip upload returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
