package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds the environment-driven settings shared by the API server
// and the processor.
type AppConfig struct {
	Port              string
	SupabaseURL       string
	SupabaseKey       string
	WhopWebhookSecret string
	WhopAPIKey        string
	MaxWorkers        int
	JobQueueSize      int
	JobPollSeconds    int
	FFmpegPath        string
	FFprobePath       string
}

// LoadConfig reads the application configuration from environment variables.
// Supabase credentials are required; everything else has a default.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:              envOrDefault("PORT", "8080"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_SERVICE_KEY"),
		WhopWebhookSecret: os.Getenv("WHOP_WEBHOOK_SECRET"),
		WhopAPIKey:        os.Getenv("WHOP_API_KEY"),
		MaxWorkers:        envIntOrDefault("MAX_WORKERS", 5),
		JobQueueSize:      envIntOrDefault("JOB_QUEUE_SIZE", 100),
		JobPollSeconds:    envIntOrDefault("JOB_POLL_SECONDS", 10),
		FFmpegPath:        envOrDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:       envOrDefault("FFPROBE_PATH", "ffprobe"),
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in environment variables")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
