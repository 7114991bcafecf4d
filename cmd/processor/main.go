package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Organized-AI/whop-clipping-agency-sub001/config"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/db"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/jobs"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/signals"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/worker"
)

func main() {
	config.InitLogger()
	log := config.Logger()
	log.Info("Starting clip processor")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	store, err := db.NewStore(cfg.SupabaseURL, cfg.SupabaseKey, log)
	if err != nil {
		log.Fatalf("Failed to initialize job store: %v", err)
	}

	provider := signals.NewProvider(config.SupabaseClient, log, cfg.SupabaseURL, cfg.SupabaseKey)
	runtime := &jobs.Runtime{
		Store:       store,
		Provider:    provider,
		Detector:    highlights.NewDetector(provider, log),
		Logger:      log,
		SupabaseURL: cfg.SupabaseURL,
		SupabaseKey: cfg.SupabaseKey,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(cfg.MaxWorkers, cfg.JobQueueSize, log)
	dispatcher.Run(ctx)

	poller := &jobs.Poller{
		Runtime:    runtime,
		Dispatcher: dispatcher,
		Interval:   time.Duration(cfg.JobPollSeconds) * time.Second,
	}
	go poller.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down clip processor")
	cancel()
	dispatcher.Stop()
	log.Info("Clip processor shut down")
}
