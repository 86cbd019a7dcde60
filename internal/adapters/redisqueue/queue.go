// Package redisqueue carries inbound messages and outbound events over Redis
// lists.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"reelscript/internal/core/domain"
)

// DefaultQueue is the list requests are pushed to.
const DefaultQueue = "reelscript:requests"

// Queue implements ports.MessageSource on a Redis list: producers LPUSH,
// consumers BRPOP.
type Queue struct {
	rdb    *redis.Client
	name   string
	poll   time.Duration
	logger *slog.Logger
}

// NewQueue creates a Queue on the named list.
func NewQueue(rdb *redis.Client, name string, logger *slog.Logger) *Queue {
	if name == "" {
		name = DefaultQueue
	}
	return &Queue{rdb: rdb, name: name, poll: time.Second, logger: logger}
}

// Enqueue pushes msg, assigning an id if it has none.
func (q *Queue) Enqueue(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return msg, fmt.Errorf("marshal message: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, payload).Err(); err != nil {
		return msg, fmt.Errorf("lpush %s: %w", q.name, err)
	}
	return msg, nil
}

// Next blocks until a message is available or ctx is done. Payloads that do
// not decode are logged and dropped.
func (q *Queue) Next(ctx context.Context) (domain.Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Message{}, err
		}
		res, err := q.rdb.BRPop(ctx, q.poll, q.name).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return domain.Message{}, ctx.Err()
			}
			return domain.Message{}, fmt.Errorf("brpop %s: %w", q.name, err)
		}

		// res[0] is the list name, res[1] the payload
		var msg domain.Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			q.logger.Warn("dropping malformed request", slog.String("queue", q.name), slog.Any("error", err))
			continue
		}
		return msg, nil
	}
}
