package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
)

// SinkFactory returns the sink events for one chat are delivered to.
type SinkFactory func(chatID string) ports.ProgressSink

// Worker pulls messages from a source and handles up to Concurrency of them
// at once.
type Worker struct {
	source      ports.MessageSource
	handler     ports.MessageHandler
	sinkFor     SinkFactory
	concurrency int
	runTimeout  time.Duration
	retryDelay  time.Duration
	logger      *slog.Logger
}

// NewWorker creates a Worker. A zero runTimeout leaves runs unbounded.
func NewWorker(source ports.MessageSource, handler ports.MessageHandler, sinkFor SinkFactory, concurrency int, runTimeout time.Duration, logger *slog.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		source:      source,
		handler:     handler,
		sinkFor:     sinkFor,
		concurrency: concurrency,
		runTimeout:  runTimeout,
		retryDelay:  time.Second,
		logger:      logger,
	}
}

// Run consumes until ctx is cancelled, then waits for in-flight messages.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", slog.Int("concurrency", w.concurrency), slog.Duration("run_timeout", w.runTimeout))

	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for {
		msg, err := w.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			w.logger.Error("failed to receive message", slog.Any("error", err))
			select {
			case <-ctx.Done():
			case <-time.After(w.retryDelay):
			}
			continue
		}

		// Go blocks while the limit is reached
		g.Go(func() error {
			w.handle(ctx, msg)
			return nil
		})
	}

	_ = g.Wait()
	w.logger.Info("worker stopped")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (w *Worker) handle(ctx context.Context, msg domain.Message) {
	// in-flight runs finish even when the listener is stopped
	ctx = context.WithoutCancel(ctx)
	if w.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.runTimeout)
		defer cancel()
	}

	log := w.logger.With(slog.String("message_id", msg.ID), slog.String("chat_id", msg.ChatID))
	start := time.Now()
	if err := w.handler.Handle(ctx, msg, w.sinkFor(msg.ChatID)); err != nil {
		log.Error("message failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return
	}
	log.Info("message handled", slog.Duration("elapsed", time.Since(start)))
}
