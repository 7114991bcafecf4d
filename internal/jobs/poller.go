package jobs

import (
	"context"
	"time"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/worker"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
)

// Poller pulls pending jobs from the database and feeds them into the
// dispatcher. Claims are optimistic so multiple processors can share a
// queue.
type Poller struct {
	Runtime    *Runtime
	Dispatcher *worker.Dispatcher
	Interval   time.Duration
	BatchSize  int
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	batch := p.BatchSize
	if batch <= 0 {
		batch = 10
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.Runtime.Logger.Infof("Job poller running every %s", interval)
	for {
		p.pollOnce(batch)
		select {
		case <-ctx.Done():
			p.Runtime.Logger.Info("Job poller stopping")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) pollOnce(batch int) {
	rt := p.Runtime
	pending, err := rt.Store.FetchPendingJobs(batch)
	if err != nil {
		rt.Logger.Errorf("Could not fetch pending jobs: %v", err)
		return
	}

	for _, record := range pending {
		job := p.buildJob(record)
		if job == nil {
			rt.Logger.Warnf("Skipping job %s with unknown type %q", record.ID, record.JobType)
			if err := rt.Store.FailJob(record.ID.String(), unknownJobTypeError(record.JobType)); err != nil {
				rt.Logger.Errorf("Could not fail unknown-type job %s: %v", record.ID, err)
			}
			continue
		}

		claimed, err := rt.Store.ClaimJob(record.ID.String())
		if err != nil {
			rt.Logger.Errorf("Could not claim job %s: %v", record.ID, err)
			continue
		}
		if !claimed {
			continue
		}
		if !p.Dispatcher.SubmitJob(job) {
			// Queue full; release the claim so a later poll retries.
			if err := rt.Store.ReleaseJob(record.ID.String()); err != nil {
				rt.Logger.Errorf("Could not release job %s after queue overflow: %v", record.ID, err)
			}
		}
	}
}

func (p *Poller) buildJob(record models.ProcessingJob) worker.Job {
	switch record.JobType {
	case models.JobTypeDetectHighlights:
		return &DetectHighlightsJob{Runtime: p.Runtime, Record: record}
	case models.JobTypeExtractClip:
		return &ExtractClipJob{Runtime: p.Runtime, Record: record}
	default:
		return nil
	}
}

type unknownJobTypeError string

func (e unknownJobTypeError) Error() string { return "unknown job type " + string(e) }
