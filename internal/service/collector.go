package service

import (
	"context"
	"sync"

	"reelscript/internal/core/domain"
)

// Collector is a ProgressSink that keeps every event in memory.
type Collector struct {
	mu     sync.Mutex
	events []domain.Event
}

func (c *Collector) Emit(_ context.Context, ev domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

// Events returns a copy of the events received so far.
func (c *Collector) Events() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Event, len(c.events))
	copy(out, c.events)
	return out
}
