package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Organized-AI/whop-clipping-agency-sub001/config"
	"github.com/Organized-AI/whop-clipping-agency-sub001/handlers"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/signals"
	"github.com/Organized-AI/whop-clipping-agency-sub001/middleware"
)

func main() {
	config.InitLogger()
	log := config.Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	provider := signals.NewProvider(config.SupabaseClient, log, cfg.SupabaseURL, cfg.SupabaseKey)
	detector := highlights.NewDetector(provider, log)
	h := handlers.NewApplicationHandler(detector, log, config.SupabaseClient, cfg)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Whop-Signature",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Clipping service is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	// Source videos
	apiV1.Post("/videos", h.InitiateVideoUpload)
	apiV1.Get("/videos", h.ListVideos)
	apiV1.Get("/videos/:videoId", h.GetVideo)
	apiV1.Post("/videos/:videoId/upload", h.UploadVideoFile)
	apiV1.Post("/videos/:videoId/upload/complete", h.CompleteVideoUpload)

	// Highlight detection
	apiV1.Post("/videos/:videoId/highlights/detect", h.DetectHighlights)
	apiV1.Post("/videos/:videoId/highlights/quick", h.QuickDetectHighlights)
	apiV1.Get("/videos/:videoId/highlights", h.GetHighlights)

	// Clips
	apiV1.Post("/videos/:videoId/clips", h.CreateClip)
	apiV1.Get("/videos/:videoId/clips", h.ListClips)
	apiV1.Get("/clips/:clipId", h.GetClip)

	// Whop membership webhooks
	apiV1.Post("/webhooks/whop", h.HandleWhopWebhook)

	log.Infof("Starting API server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
