// Package llm talks to an OpenAI-compatible chat completions API for script
// rewriting and the conversational fallback.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"reelscript/internal/brand"
)

// Config holds the provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	SearchModel string
	MaxTokens   int64
	Temperature float64
}

// Client implements ports.ScriptRewriter and ports.Chatter.
type Client struct {
	client  openai.Client
	cfg     Config
	profile *brand.Profile
	logger  *slog.Logger
}

// New creates a Client. Requests are sent once: the SDK's automatic retries
// are disabled.
func New(cfg Config, profile *brand.Profile, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = cfg.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if profile == nil {
		profile = brand.Default()
	}
	return &Client{
		client:  openai.NewClient(opts...),
		cfg:     cfg,
		profile: profile,
		logger:  logger,
	}
}

// completion is one chat completion call.
type completion struct {
	model  string
	system string
	user   string
	format *openai.ChatCompletionNewParamsResponseFormatUnion
	// webSearch turns on the provider's built-in search. Search models
	// reject a sampling temperature, so none is sent.
	webSearch bool
}

func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.system),
			openai.UserMessage(req.user),
		},
		Model:     req.model,
		MaxTokens: openai.Int(c.cfg.MaxTokens),
	}
	if req.webSearch {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{SearchContextSize: "medium"}
	} else {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}
	if req.format != nil {
		params.ResponseFormat = *req.format
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion")
	}
	c.logger.Debug("completion received",
		slog.String("model", req.model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// searchCapable reports whether model is one of the search-preview models
// that accept web_search_options.
func searchCapable(model string) bool {
	return strings.Contains(strings.ToLower(model), "search")
}
