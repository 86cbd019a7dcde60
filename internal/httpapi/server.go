// Package httpapi exposes the message router over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
	"reelscript/internal/service"
)

// Enqueuer hands a message to the background worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg domain.Message) (domain.Message, error)
}

// EventStore lists the events delivered to a chat.
type EventStore interface {
	List(ctx context.Context, chatID string) ([]domain.Event, error)
}

// Server holds the HTTP dependencies.
type Server struct {
	handler ports.MessageHandler
	queue   Enqueuer
	events  EventStore
	logger  *slog.Logger
	Router  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithQueue enables POST /v1/queue.
func WithQueue(q Enqueuer) Option { return func(s *Server) { s.queue = q } }

// WithEventStore enables GET /v1/chats/:chat_id/events.
func WithEventStore(e EventStore) Option { return func(s *Server) { s.events = e } }

// NewServer builds the gin engine and its routes.
func NewServer(handler ports.MessageHandler, logger *slog.Logger, opts ...Option) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{handler: handler, logger: logger, Router: router}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := s.Router.Group("/v1")
	{
		v1.POST("/messages", s.handleMessage)
		if s.queue != nil {
			v1.POST("/queue", s.enqueueMessage)
		}
		if s.events != nil {
			v1.GET("/chats/:chat_id/events", s.listEvents)
		}
	}
}

type messageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text" binding:"required"`
	MaxLength int    `json:"max_length" binding:"gte=0"`
}

func (r messageRequest) message() domain.Message {
	return domain.Message{ChatID: r.ChatID, Text: r.Text, MaxLength: r.MaxLength}
}

// handleMessage runs the message synchronously and returns every event it
// produced.
func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sink := &service.Collector{}
	if err := s.handler.Handle(c.Request.Context(), req.message(), sink); err != nil {
		s.logger.Error("message failed", slog.String("chat_id", req.ChatID), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "events": sink.Events()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": sink.Events()})
}

func (s *Server) enqueueMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ChatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
		return
	}

	msg, err := s.queue.Enqueue(c.Request.Context(), req.message())
	if err != nil {
		s.logger.Error("enqueue failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue message"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": msg.ID, "chat_id": msg.ChatID})
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.events.List(c.Request.Context(), c.Param("chat_id"))
	if err != nil {
		s.logger.Error("list events failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
