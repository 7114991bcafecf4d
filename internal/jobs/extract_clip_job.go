package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/ffmpeg"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
)

// ExtractClipJob cuts one highlight time range out of the source media and
// uploads the result to clip storage.
type ExtractClipJob struct {
	Runtime *Runtime
	Record  models.ProcessingJob
}

// ID returns the database job ID.
func (j *ExtractClipJob) ID() string {
	return j.Record.ID.String()
}

// Execute extracts the clip and records the outcome on the job row.
func (j *ExtractClipJob) Execute(ctx context.Context) error {
	rt := j.Runtime
	clipID := j.Record.EntityID.String()

	clip, err := rt.Store.GetClip(clipID)
	if err != nil {
		return j.fail(err)
	}
	if clip.StartTime == nil || clip.EndTime == nil || *clip.EndTime <= *clip.StartTime {
		return j.fail(fmt.Errorf("clip %s has no usable time range", clipID))
	}

	video, err := rt.Store.GetSourceVideo(clip.SourceVideoID.String())
	if err != nil {
		return j.fail(err)
	}

	ref := highlights.SourceRef{VideoID: video.ID.String()}
	sourcePath, cleanup, err := rt.Provider.LocalMedia(ctx, ref)
	if err != nil {
		return j.fail(fmt.Errorf("resolving source media for clip %s: %w", clipID, err))
	}
	defer cleanup()

	outputPath := filepath.Join(os.TempDir(), fmt.Sprintf("clip-%s.mp4", clipID))
	defer os.Remove(outputPath)

	start := time.Duration(*clip.StartTime * float64(time.Second))
	duration := time.Duration((*clip.EndTime - *clip.StartTime) * float64(time.Second))
	if err := ffmpeg.ExtractClip(ctx, sourcePath, outputPath, start, duration); err != nil {
		j.markClipFailed(clipID, err)
		return j.fail(fmt.Errorf("extracting clip %s: %w", clipID, err))
	}

	storagePath := fmt.Sprintf("%s/%s.mp4", clip.SourceVideoID, clipID)
	if err := rt.uploadClip(ctx, outputPath, storagePath); err != nil {
		j.markClipFailed(clipID, err)
		return j.fail(fmt.Errorf("uploading clip %s: %w", clipID, err))
	}

	downloadURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", rt.SupabaseURL, clipBucket, storagePath)
	if err := rt.Store.UpdateClip(clipID, map[string]interface{}{
		"status":       "completed",
		"storage_path": storagePath,
		"download_url": downloadURL,
	}); err != nil {
		return j.fail(err)
	}

	rt.Logger.Infof("Extraction job %s produced clip %s (%.2fs-%.2fs)", j.ID(), clipID, *clip.StartTime, *clip.EndTime)
	return rt.Store.CompleteJob(j.ID())
}

func (j *ExtractClipJob) fail(err error) error {
	if dbErr := j.Runtime.Store.FailJob(j.ID(), err); dbErr != nil {
		j.Runtime.Logger.Errorf("Could not record failure of job %s: %v", j.ID(), dbErr)
	}
	return err
}

// markClipFailed records the failure on the clip row as well, so the API
// surfaces it without a job lookup.
func (j *ExtractClipJob) markClipFailed(clipID string, cause error) {
	msg := cause.Error()
	if err := j.Runtime.Store.UpdateClip(clipID, map[string]interface{}{
		"status":        "failed",
		"error_message": msg,
	}); err != nil {
		j.Runtime.Logger.Errorf("Could not mark clip %s failed: %v", clipID, err)
	}
}
