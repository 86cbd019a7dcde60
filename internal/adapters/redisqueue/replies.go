package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
)

const replyKeyPrefix = "reelscript:replies:"

// Replies appends events to one list per chat. Each list expires ttl after
// its last write.
type Replies struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReplies creates a Replies store. A zero ttl leaves lists without expiry.
func NewReplies(rdb *redis.Client, ttl time.Duration) *Replies {
	return &Replies{rdb: rdb, ttl: ttl}
}

// Key returns the list holding events for chatID.
func Key(chatID string) string {
	return replyKeyPrefix + chatID
}

// SinkFor returns a ProgressSink writing to chatID's list.
func (r *Replies) SinkFor(chatID string) ports.ProgressSink {
	return ports.SinkFunc(func(ctx context.Context, ev domain.Event) error {
		return r.Append(ctx, chatID, ev)
	})
}

// Append pushes ev to chatID's list and refreshes its expiry.
func (r *Replies) Append(ctx context.Context, chatID string, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	key := Key(chatID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// List returns every event stored for chatID, oldest first.
func (r *Replies) List(ctx context.Context, chatID string) ([]domain.Event, error) {
	key := Key(chatID)
	raw, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	events := make([]domain.Event, 0, len(raw))
	for _, s := range raw {
		var ev domain.Event
		if err := json.Unmarshal([]byte(s), &ev); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
