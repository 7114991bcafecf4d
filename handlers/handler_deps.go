package handlers

import (
	"context"

	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Organized-AI/whop-clipping-agency-sub001/config"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
)

// HighlightDetector defines the operations handlers expect from the detection
// engine. This allows for decoupling and easier testing.
type HighlightDetector interface {
	DetectHighlights(ctx context.Context, ref highlights.SourceRef, opts highlights.DetectOptions) (*highlights.DetectionResult, error)
	QuickDetect(ctx context.Context, ref highlights.SourceRef, maxClips int) (*highlights.DetectionResult, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Detector HighlightDetector
	Logger   *logrus.Logger
	DB       *supa.Client
	Config   *config.AppConfig
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(detector HighlightDetector, logger *logrus.Logger, dbClient *supa.Client, cfg *config.AppConfig) *ApplicationHandler {
	return &ApplicationHandler{
		Detector: detector,
		Logger:   logger,
		DB:       dbClient,
		Config:   cfg,
	}
}
