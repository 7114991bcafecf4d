// Package signals acquires the raw detection inputs: stored transcriptions
// from Supabase and scene-change/audio measurements from ffmpeg. The
// detection core consumes these through the highlights.SignalProvider
// interface and never performs I/O itself.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/ffmpeg"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
)

const sourceVideoBucket = "source-videos"

// Provider implements highlights.SignalProvider against Supabase and ffmpeg.
type Provider struct {
	DB     *supa.Client
	Logger *logrus.Logger

	// SupabaseURL and SupabaseKey back the storage download when a source
	// video is not available on local disk.
	SupabaseURL string
	SupabaseKey string

	// SceneThreshold is the ffmpeg scene-score cutoff for a frame to count
	// as a scene change.
	SceneThreshold float64
	// ChunkSeconds is the audio sampling resolution.
	ChunkSeconds float64
}

// NewProvider builds a provider with the default extraction tuning.
func NewProvider(db *supa.Client, logger *logrus.Logger, supabaseURL, supabaseKey string) *Provider {
	return &Provider{
		DB:             db,
		Logger:         logger,
		SupabaseURL:    supabaseURL,
		SupabaseKey:    supabaseKey,
		SceneThreshold: 0.4,
		ChunkSeconds:   1,
	}
}

// Transcript loads the stored transcription for a source video and converts
// it to ordered transcript segments.
func (p *Provider) Transcript(ctx context.Context, ref highlights.SourceRef) ([]highlights.TranscriptSegment, error) {
	if _, err := uuid.Parse(ref.VideoID); err != nil {
		return nil, fmt.Errorf("invalid video ID %q: %w", ref.VideoID, err)
	}

	var videos []models.SourceVideo
	bodyBytes, _, err := p.DB.From("source_videos").
		Select("transcription", "", false).
		Eq("id", ref.VideoID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching transcription for video %s: %w", ref.VideoID, err)
	}
	if err := json.Unmarshal(bodyBytes, &videos); err != nil {
		return nil, fmt.Errorf("unmarshalling source video %s: %w", ref.VideoID, err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("source video %s not found", ref.VideoID)
	}
	if len(videos[0].Transcription) == 0 {
		return nil, fmt.Errorf("source video %s has no stored transcription", ref.VideoID)
	}

	var data models.TranscriptionData
	if err := json.Unmarshal(videos[0].Transcription, &data); err != nil {
		return nil, fmt.Errorf("decoding transcription for video %s: %w", ref.VideoID, err)
	}

	segments := make([]highlights.TranscriptSegment, 0, len(data.Segments))
	for _, s := range data.Segments {
		segments = append(segments, highlights.TranscriptSegment{
			Text:       s.Text,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Confidence: s.Confidence,
		})
	}
	return segments, nil
}

// SceneChanges extracts scene-change timestamps from the source media.
func (p *Provider) SceneChanges(ctx context.Context, ref highlights.SourceRef) ([]float64, error) {
	path, cleanup, err := p.mediaPath(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	events, err := ffmpeg.DetectSceneChanges(ctx, path, p.SceneThreshold)
	if err != nil {
		return nil, err
	}
	p.Logger.WithFields(logrus.Fields{
		"video_id":      ref.VideoID,
		"scene_changes": len(events),
	}).Debug("Scene change extraction completed")
	return events, nil
}

// AudioWindows samples per-chunk RMS levels and aggregates them into
// fixed-size descriptor windows.
func (p *Provider) AudioWindows(ctx context.Context, ref highlights.SourceRef, windowSize float64) ([]highlights.AudioWindow, error) {
	path, cleanup, err := p.mediaPath(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	chunks, err := ffmpeg.SampleAudioLevels(ctx, path, p.ChunkSeconds, 0)
	if err != nil {
		return nil, err
	}
	windows := WindowsFromChunks(chunks, windowSize)
	p.Logger.WithFields(logrus.Fields{
		"video_id": ref.VideoID,
		"windows":  len(windows),
	}).Debug("Audio sampling completed")
	return windows, nil
}

// LocalMedia resolves a local filesystem path for the source media,
// downloading from storage when needed. Callers must invoke the returned
// cleanup func when done with the file.
func (p *Provider) LocalMedia(ctx context.Context, ref highlights.SourceRef) (string, func(), error) {
	return p.mediaPath(ctx, ref)
}

// mediaPath returns a local path to the source media, downloading it from
// Supabase storage when the ref has no local path. The cleanup func removes
// any temporary download.
func (p *Provider) mediaPath(ctx context.Context, ref highlights.SourceRef) (string, func(), error) {
	noop := func() {}
	if ref.MediaPath != "" {
		if _, err := os.Stat(ref.MediaPath); err != nil {
			return "", noop, fmt.Errorf("source media not readable at %s: %w", ref.MediaPath, err)
		}
		return ref.MediaPath, noop, nil
	}

	storagePath, err := p.storagePath(ref)
	if err != nil {
		return "", noop, err
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", p.SupabaseURL, sourceVideoBucket, storagePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", noop, fmt.Errorf("creating storage download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.SupabaseKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", noop, fmt.Errorf("downloading source media %s: %w", storagePath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", noop, fmt.Errorf("storage download for %s returned status %d", storagePath, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "source-video-*"+filepath.Ext(storagePath))
	if err != nil {
		return "", noop, fmt.Errorf("creating temp media file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, fmt.Errorf("writing temp media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, fmt.Errorf("closing temp media file: %w", err)
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}

// storagePath looks up the storage path recorded for the source video.
func (p *Provider) storagePath(ref highlights.SourceRef) (string, error) {
	var videos []models.SourceVideo
	bodyBytes, _, err := p.DB.From("source_videos").
		Select("storage_path", "", false).
		Eq("id", ref.VideoID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("fetching storage path for video %s: %w", ref.VideoID, err)
	}
	if err := json.Unmarshal(bodyBytes, &videos); err != nil {
		return "", fmt.Errorf("unmarshalling source video %s: %w", ref.VideoID, err)
	}
	if len(videos) == 0 || videos[0].StoragePath == "" {
		return "", fmt.Errorf("source video %s has no storage path", ref.VideoID)
	}
	return videos[0].StoragePath, nil
}
