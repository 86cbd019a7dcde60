package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"reelscript/internal/adapters/llm"
	"reelscript/internal/adapters/localstorage"
	"reelscript/internal/adapters/whisper"
	"reelscript/internal/adapters/ytdlp"
	"reelscript/internal/brand"
	"reelscript/internal/config"
	"reelscript/internal/service"
)

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return cfg, logger, nil
}

// buildRouter wires the adapters into the message router.
func buildRouter(cfg config.Config, logger *slog.Logger) (*service.Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	profile, err := brand.Load(cfg.BrandProfile)
	if err != nil {
		return nil, err
	}

	tmp := localstorage.NewTempDir(cfg.TempDir)
	if err := tmp.Init(); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	downloader := ytdlp.NewYtDlpDownloader(tmp, logger,
		ytdlp.WithBinary(cfg.YtDlpPath),
		ytdlp.WithCookies(cfg.YtDlpCookies),
	)
	transcriber := whisper.New(whisper.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.WhisperBaseURL,
		Model:   cfg.WhisperModel,
	}, logger)
	client := llm.New(llm.Config{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMAPIBase,
		Model:       cfg.LLMModel,
		SearchModel: cfg.LLMSearchModel,
		MaxTokens:   int64(cfg.LLMMaxTokens),
		Temperature: cfg.LLMTemperature,
	}, profile, logger)

	orchestrator := service.NewOrchestrator(downloader, transcriber, client, logger,
		service.WithSegments(cfg.DetailedTranscript),
		service.WithMinTranscriptChars(cfg.MinTranscriptChars),
		service.WithMaxLength(cfg.MaxMessageLength),
	)
	logger.Info("pipeline ready",
		slog.String("brand", profile.Name),
		slog.String("temp_dir", tmp.BaseDir),
		slog.String("llm_model", cfg.LLMModel),
	)
	return service.NewRouter(orchestrator, client, logger), nil
}

func newRedisClient(cfg config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
