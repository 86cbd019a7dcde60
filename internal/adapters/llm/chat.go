package llm

import (
	"context"
	"fmt"
	"log/slog"
)

const emptyReply = "I couldn't generate a response."

// Chat answers free text in the brand persona.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	return c.chat(ctx, completion{model: c.cfg.Model, user: text})
}

// WebSearch answers a search request with the search model. Live results
// need a search-preview model such as gpt-4o-mini-search-preview; any other
// model answers from what it already knows.
func (c *Client) WebSearch(ctx context.Context, query string) (string, error) {
	req := completion{
		model:     c.cfg.SearchModel,
		user:      fmt.Sprintf(searchUserPrompt, query),
		webSearch: searchCapable(c.cfg.SearchModel),
	}
	c.logger.Info("web search", slog.String("query", query), slog.Bool("live", req.webSearch))
	if !req.webSearch {
		c.logger.Warn("search model has no web access", slog.String("model", req.model))
	}
	return c.chat(ctx, req)
}

func (c *Client) chat(ctx context.Context, req completion) (string, error) {
	req.system = chatSystemPrompt(c.profile)
	reply, err := c.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if reply == "" {
		return emptyReply, nil
	}
	return reply, nil
}
