// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"
)

// Config holds every setting, injected from main.
type Config struct {
	OpenAIAPIKey   string
	WhisperBaseURL string
	WhisperModel   string

	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMSearchModel string
	LLMMaxTokens   int
	LLMTemperature float64

	YtDlpPath    string
	YtDlpCookies string
	TempDir      string

	MaxMessageLength   int
	DetailedTranscript bool
	MinTranscriptChars int
	BrandProfile       string

	RedisURL          string
	RedisQueue        string
	ReplyTTL          time.Duration
	WorkerConcurrency int
	RunTimeout        time.Duration
	HTTPAddr          string

	LogLevel  string
	LogFormat string
}

// Load reads a .env file if present and then the environment.
func Load() (Config, error) {
	// A missing .env is fine: variables may be set by the caller.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	openAIKey := env.Str("OPENAI_API_KEY", "")
	llmModel := env.Str("LLM_MODEL", "gpt-4o-mini")
	llmBase := env.Str("LLM_API_BASE", "")
	detailed, err := parseBool(env.Str("DETAILED_TRANSCRIPT", "false"))
	if err != nil {
		return Config{}, errors.New("config: DETAILED_TRANSCRIPT must be a boolean")
	}

	return Config{
		OpenAIAPIKey:   openAIKey,
		WhisperBaseURL: env.Str("WHISPER_BASE_URL", ""),
		WhisperModel:   env.Str("WHISPER_MODEL", "whisper-1"),

		LLMAPIKey:      env.Str("LLM_API_KEY", openAIKey),
		LLMAPIBase:     llmBase,
		LLMModel:       llmModel,
		LLMSearchModel: env.Str("LLM_SEARCH_MODEL", defaultSearchModel(llmBase, llmModel)),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 4096),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.7),

		YtDlpPath:    env.Str("YTDLP_PATH", ""),
		YtDlpCookies: env.Str("YTDLP_COOKIES", "cookies.txt"),
		TempDir:      env.Str("TEMP_DIR", "./temp"),

		MaxMessageLength:   env.Int("MAX_MESSAGE_LENGTH", 4000),
		DetailedTranscript: detailed,
		MinTranscriptChars: env.Int("MIN_TRANSCRIPT_CHARS", 1),
		BrandProfile:       env.Str("BRAND_PROFILE", ""),

		RedisURL:          env.Str("REDIS_URL", "redis://localhost:6379/0"),
		RedisQueue:        env.Str("REDIS_QUEUE", "reelscript:requests"),
		ReplyTTL:          env.Duration("REPLY_TTL", time.Hour),
		WorkerConcurrency: env.Int("WORKER_CONCURRENCY", 4),
		RunTimeout:        env.Duration("RUN_TIMEOUT", 0),
		HTTPAddr:          env.Str("HTTP_ADDR", ":8080"),

		LogLevel:  env.Str("LOG_LEVEL", "info"),
		LogFormat: env.Str("LOG_FORMAT", "text"),
	}, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		errs = append(errs, errors.New("config: OPENAI_API_KEY is required"))
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		errs = append(errs, errors.New("config: LLM_API_KEY is required"))
	}
	if c.MaxMessageLength < 1 {
		errs = append(errs, errors.New("config: MAX_MESSAGE_LENGTH must be positive"))
	}
	if c.MinTranscriptChars < 1 {
		errs = append(errs, errors.New("config: MIN_TRANSCRIPT_CHARS must be positive"))
	}
	if c.LLMMaxTokens < 1 {
		errs = append(errs, errors.New("config: LLM_MAX_TOKENS must be positive"))
	}
	if c.WorkerConcurrency < 1 {
		errs = append(errs, errors.New("config: WORKER_CONCURRENCY must be positive"))
	}
	if c.RunTimeout < 0 {
		errs = append(errs, errors.New("config: RUN_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}

// defaultSearchModel picks OpenAI's search-preview model when requests go to
// OpenAI itself. Other providers fall back to the chat model.
func defaultSearchModel(base, model string) string {
	if strings.TrimSpace(base) == "" {
		return "gpt-4o-mini-search-preview"
	}
	return model
}
