package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscript/internal/adapters/redisqueue"
	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerFunc func(context.Context, domain.Message, ports.ProgressSink) error

func (f handlerFunc) Handle(ctx context.Context, msg domain.Message, sink ports.ProgressSink) error {
	return f(ctx, msg, sink)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type eventsBody struct {
	Error  string         `json:"error"`
	Events []domain.Event `json:"events"`
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, eventsBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	var out eventsBody
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHealth(t *testing.T) {
	s := NewServer(handlerFunc(nil), discardLogger())
	w, _ := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestPostMessage(t *testing.T) {
	var got domain.Message
	h := handlerFunc(func(ctx context.Context, msg domain.Message, sink ports.ProgressSink) error {
		got = msg
		_ = sink.Emit(ctx, domain.Event{Kind: domain.EventProgress, Step: 1, TotalSteps: 4, Text: "Step 1/4"})
		return sink.Emit(ctx, domain.Event{Kind: domain.EventResult, Index: 1, Total: 1, Text: "doc"})
	})
	s := NewServer(h, discardLogger())

	w, body := do(t, s, http.MethodPost, "/v1/messages", `{"chat_id":"c1","text":"hello","max_length":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Message{ChatID: "c1", Text: "hello", MaxLength: 100}, got)
	require.Len(t, body.Events, 2)
	assert.Equal(t, domain.EventResult, body.Events[1].Kind)
	assert.Equal(t, "doc", body.Events[1].Text)
}

func TestPostMessageBadBody(t *testing.T) {
	s := NewServer(handlerFunc(nil), discardLogger())

	for _, body := range []string{`{`, `{"chat_id":"c1"}`, `{"text":"x","max_length":-1}`} {
		w, _ := do(t, s, http.MethodPost, "/v1/messages", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestPostMessageHandlerError(t *testing.T) {
	h := handlerFunc(func(ctx context.Context, _ domain.Message, sink ports.ProgressSink) error {
		_ = sink.Emit(ctx, domain.Event{Kind: domain.EventFailure, Text: "Sorry"})
		return errors.New("video run: boom")
	})
	s := NewServer(h, discardLogger())

	w, body := do(t, s, http.MethodPost, "/v1/messages", `{"text":"https://youtu.be/x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "video run: boom", body.Error)
	require.Len(t, body.Events, 1)
	assert.Equal(t, domain.EventFailure, body.Events[0].Kind)
}

func TestQueueRoutesDisabledByDefault(t *testing.T) {
	s := NewServer(handlerFunc(nil), discardLogger())
	w, _ := do(t, s, http.MethodPost, "/v1/queue", `{"chat_id":"c","text":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueueAndEventsWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := redisqueue.NewQueue(rdb, "reqs", discardLogger())
	replies := redisqueue.NewReplies(rdb, time.Hour)
	s := NewServer(handlerFunc(nil), discardLogger(), WithQueue(q), WithEventStore(replies))

	w, _ := do(t, s, http.MethodPost, "/v1/queue", `{"chat_id":"c9","text":"search cats"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.NotEmpty(t, accepted["id"])

	msg, err := q.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "search cats", msg.Text)
	assert.Equal(t, accepted["id"], msg.ID)

	w, _ = do(t, s, http.MethodPost, "/v1/queue", `{"text":"no chat"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, replies.Append(context.Background(), "c9", domain.Event{Kind: domain.EventReply, Text: "meow"}))
	w, body := do(t, s, http.MethodGet, "/v1/chats/c9/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body.Events, 1)
	assert.Equal(t, "meow", body.Events[0].Text)
}
