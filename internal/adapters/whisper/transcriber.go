// Package whisper transcribes audio artifacts with the OpenAI Whisper API or
// any server exposing the same /audio/transcriptions endpoint.
package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"reelscript/internal/core/domain"
)

// Transcriber implements ports.Transcriber.
type Transcriber struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// Config holds the provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// New creates a Transcriber.
func New(cfg Config, logger *slog.Logger) *Transcriber {
	oc := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logger,
	}
}

// Transcribe returns the plain text of the audio file. Empty output is not an
// error here.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.logger.Info("transcribing", slog.String("path", audioPath))
	resp, err := t.send(ctx, audioPath, openai.AudioResponseFormatJSON, nil)
	if err != nil {
		return "", err
	}
	t.logger.Info("transcription complete", slog.Int("chars", len(resp.Text)))
	return resp.Text, nil
}

// TranscribeSegments requests segment-level timestamps and returns them
// ordered by start time with overlaps clamped away.
func (t *Transcriber) TranscribeSegments(ctx context.Context, audioPath string) ([]domain.Segment, error) {
	t.logger.Info("transcribing with timestamps", slog.String("path", audioPath))
	resp, err := t.send(ctx, audioPath, openai.AudioResponseFormatVerboseJSON, []openai.TranscriptionTimestampGranularity{
		openai.TranscriptionTimestampGranularitySegment,
	})
	if err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, domain.Segment{Text: strings.TrimSpace(s.Text), Start: s.Start, End: s.End})
	}
	segments = normalize(segments)
	t.logger.Info("detailed transcription complete", slog.Int("segments", len(segments)))
	return segments, nil
}

func (t *Transcriber) send(ctx context.Context, audioPath string, format openai.AudioResponseFormat, granularities []openai.TranscriptionTimestampGranularity) (openai.AudioResponse, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return openai.AudioResponse{}, &domain.TranscriptionError{Err: fmt.Errorf("open audio: %w", err)}
	}
	defer f.Close()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:                  t.model,
		FilePath:               filepath.Base(audioPath),
		Reader:                 f,
		Format:                 format,
		TimestampGranularities: granularities,
	})
	if err != nil {
		return openai.AudioResponse{}, &domain.TranscriptionError{Err: err}
	}
	return resp, nil
}

// normalize sorts segments by start and clamps each start to the previous
// end so the sequence never overlaps.
func normalize(segments []domain.Segment) []domain.Segment {
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		if segments[i].Start < prev.End {
			segments[i].Start = prev.End
		}
		if segments[i].End < segments[i].Start {
			segments[i].End = segments[i].Start
		}
	}
	return segments
}
