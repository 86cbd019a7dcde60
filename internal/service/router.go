package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"reelscript/internal/core/chunker"
	"reelscript/internal/core/domain"
	"reelscript/internal/core/matcher"
	"reelscript/internal/core/ports"
)

const (
	searchFailedMessage = "Sorry, I couldn't complete the web search."
	chatFailedMessage   = "Sorry, I encountered an error processing your message."
)

var searchPrefixes = []string{"search ", "google ", "look up "}

// Router dispatches an inbound message to the video pipeline, web search or
// plain chat.
type Router struct {
	orchestrator *Orchestrator
	chatter      ports.Chatter
	logger       *slog.Logger
}

// NewRouter creates a Router.
func NewRouter(orchestrator *Orchestrator, chatter ports.Chatter, logger *slog.Logger) *Router {
	return &Router{orchestrator: orchestrator, chatter: chatter, logger: logger}
}

// Handle implements ports.MessageHandler. A failed video run has already
// reported itself to sink; its error is still returned so callers can log or
// surface it. No-speech runs are not errors here.
func (r *Router) Handle(ctx context.Context, msg domain.Message, sink ports.ProgressSink) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	maxLength := msg.MaxLength
	if maxLength <= 0 {
		maxLength = r.orchestrator.maxLength
	}
	log := r.logger.With(slog.String("message_id", msg.ID), slog.String("chat_id", msg.ChatID))

	if ref, ok := matcher.Match(text); ok {
		log.Info("video link found", slog.String("url", ref.URL))
		_, err := r.orchestrator.Run(ctx, RunRequest{Video: ref, MaxLength: maxLength}, sink)
		if err != nil && !errors.Is(err, domain.ErrNoSpeech) {
			return fmt.Errorf("video run: %w", err)
		}
		return nil
	}

	if query, ok := searchQuery(text); ok {
		r.reply(ctx, sink, fmt.Sprintf("Searching the web for: \"%s\"...", query), maxLength)
		answer, err := r.chatter.WebSearch(ctx, query)
		if err != nil {
			log.Error("web search failed", slog.Any("error", err))
			r.replyTerminal(ctx, sink, searchFailedMessage, maxLength)
			return fmt.Errorf("web search: %w", err)
		}
		r.reply(ctx, sink, answer, maxLength)
		return nil
	}

	answer, err := r.chatter.Chat(ctx, text)
	if err != nil {
		log.Error("chat failed", slog.Any("error", err))
		r.replyTerminal(ctx, sink, chatFailedMessage, maxLength)
		return fmt.Errorf("chat: %w", err)
	}
	r.reply(ctx, sink, answer, maxLength)
	return nil
}

func (r *Router) reply(ctx context.Context, sink ports.ProgressSink, text string, maxLength int) {
	parts := chunker.Split(text, maxLength)
	for i, p := range parts {
		ev := domain.Event{Kind: domain.EventReply, Index: i + 1, Total: len(parts), Text: p}
		if err := sink.Emit(ctx, ev); err != nil {
			r.logger.Warn("failed to emit reply", slog.Any("error", err))
		}
	}
}

func (r *Router) replyTerminal(ctx context.Context, sink ports.ProgressSink, text string, maxLength int) {
	ctx, cancel := terminalContext(ctx)
	defer cancel()
	r.reply(ctx, sink, text, maxLength)
}

// searchQuery reports whether text asks for a web search and returns the
// query with the prefix removed.
func searchQuery(text string) (string, bool) {
	for _, p := range searchPrefixes {
		if len(text) > len(p) && strings.EqualFold(text[:len(p)], p) {
			if q := strings.TrimSpace(text[len(p):]); q != "" {
				return q, true
			}
		}
	}
	return "", false
}
