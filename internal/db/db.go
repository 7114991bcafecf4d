// Package db is the processor's persistence layer. It talks PostgREST
// directly: job polling, job state transitions, and the clip/video row
// updates extraction needs.
package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"

	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
)

const (
	jobsTable   = "processing_jobs"
	clipsTable  = "clips"
	videosTable = "source_videos"
)

// Store wraps a PostgREST client for the processor's tables.
type Store struct {
	Client *postgrest.Client
	Logger *logrus.Logger
}

// NewStore builds a store against the Supabase REST endpoint.
func NewStore(supabaseURL, supabaseKey string, logger *logrus.Logger) (*Store, error) {
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key are required")
	}
	client := postgrest.NewClient(supabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        supabaseKey,
		"Authorization": fmt.Sprintf("Bearer %s", supabaseKey),
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("initializing postgrest client: %w", client.ClientError)
	}
	return &Store{Client: client, Logger: logger}, nil
}

// FetchPendingJobs returns up to limit pending jobs, oldest first.
func (s *Store) FetchPendingJobs(limit int) ([]models.ProcessingJob, error) {
	var jobs []models.ProcessingJob
	_, err := s.Client.From(jobsTable).
		Select("*", "", false).
		Eq("status", models.JobStatusPending).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Limit(limit, "").
		ExecuteTo(&jobs)
	if err != nil {
		return nil, fmt.Errorf("fetching pending jobs: %w", err)
	}
	return jobs, nil
}

// ClaimJob transitions a pending job to processing. The status filter makes
// the claim a no-op when another poller got there first; the returned bool
// reports whether this store won the claim.
func (s *Store) ClaimJob(jobID string) (bool, error) {
	now := time.Now()
	var claimed []models.ProcessingJob
	_, err := s.Client.From(jobsTable).
		Update(map[string]interface{}{
			"status":     models.JobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		}, "representation", "").
		Eq("id", jobID).
		Eq("status", models.JobStatusPending).
		ExecuteTo(&claimed)
	if err != nil {
		return false, fmt.Errorf("claiming job %s: %w", jobID, err)
	}
	return len(claimed) > 0, nil
}

// ReleaseJob puts a claimed job back to pending so a later poll retries it.
func (s *Store) ReleaseJob(jobID string) error {
	_, err := s.Client.From(jobsTable).
		Update(map[string]interface{}{
			"status":     models.JobStatusPending,
			"started_at": nil,
			"updated_at": time.Now(),
		}, "", "").
		Eq("id", jobID).
		ExecuteTo(&[]models.ProcessingJob{})
	if err != nil {
		return fmt.Errorf("releasing job %s: %w", jobID, err)
	}
	return nil
}

// CompleteJob marks a job completed.
func (s *Store) CompleteJob(jobID string) error {
	now := time.Now()
	_, err := s.Client.From(jobsTable).
		Update(map[string]interface{}{
			"status":       models.JobStatusCompleted,
			"progress":     100.0,
			"completed_at": now,
			"updated_at":   now,
		}, "", "").
		Eq("id", jobID).
		ExecuteTo(&[]models.ProcessingJob{})
	if err != nil {
		return fmt.Errorf("completing job %s: %w", jobID, err)
	}
	s.Logger.Infof("Job %s completed", jobID)
	return nil
}

// FailJob marks a job failed and records the error message.
func (s *Store) FailJob(jobID string, jobErr error) error {
	now := time.Now()
	_, err := s.Client.From(jobsTable).
		Update(map[string]interface{}{
			"status":        models.JobStatusFailed,
			"error_message": jobErr.Error(),
			"completed_at":  now,
			"updated_at":    now,
		}, "", "").
		Eq("id", jobID).
		ExecuteTo(&[]models.ProcessingJob{})
	if err != nil {
		return fmt.Errorf("failing job %s: %w", jobID, err)
	}
	s.Logger.Warnf("Job %s failed: %v", jobID, jobErr)
	return nil
}

// CreateJob inserts a new pending job and returns the stored row.
func (s *Store) CreateJob(job models.ProcessingJob) (*models.ProcessingJob, error) {
	var created []models.ProcessingJob
	_, err := s.Client.From(jobsTable).
		Insert(job, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no record returned after job insert")
	}
	return &created[0], nil
}

// GetClip loads one clip row.
func (s *Store) GetClip(clipID string) (*models.Clip, error) {
	var clips []models.Clip
	_, err := s.Client.From(clipsTable).
		Select("*", "", false).
		Eq("id", clipID).
		ExecuteTo(&clips)
	if err != nil {
		return nil, fmt.Errorf("fetching clip %s: %w", clipID, err)
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("clip %s not found", clipID)
	}
	return &clips[0], nil
}

// UpdateClip applies field updates to one clip row.
func (s *Store) UpdateClip(clipID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	_, err := s.Client.From(clipsTable).
		Update(fields, "", "").
		Eq("id", clipID).
		ExecuteTo(&[]models.Clip{})
	if err != nil {
		return fmt.Errorf("updating clip %s: %w", clipID, err)
	}
	return nil
}

// GetSourceVideo loads one source video row.
func (s *Store) GetSourceVideo(videoID string) (*models.SourceVideo, error) {
	var videos []models.SourceVideo
	_, err := s.Client.From(videosTable).
		Select("*", "", false).
		Eq("id", videoID).
		ExecuteTo(&videos)
	if err != nil {
		return nil, fmt.Errorf("fetching source video %s: %w", videoID, err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("source video %s not found", videoID)
	}
	return &videos[0], nil
}

// UpdateSourceVideo applies field updates to one source video row.
func (s *Store) UpdateSourceVideo(videoID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	_, err := s.Client.From(videosTable).
		Update(fields, "", "").
		Eq("id", videoID).
		ExecuteTo(&[]models.SourceVideo{})
	if err != nil {
		return fmt.Errorf("updating source video %s: %w", videoID, err)
	}
	return nil
}
