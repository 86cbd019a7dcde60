package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"reelscript/internal/core/chunker"
	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
)

const (
	totalSteps = 4

	// DefaultMaxLength is the transport size limit used when a run does not
	// carry its own.
	DefaultMaxLength = 4000

	noSpeechMessage = "Couldn't extract any speech from this video. It might be music-only or have no audio."

	// terminalEmitTimeout bounds delivery of a run's final message once the
	// run context itself is done.
	terminalEmitTimeout = 10 * time.Second
)

// Orchestrator coordinates one video-to-script run.
type Orchestrator struct {
	extractor   ports.AudioExtractor
	transcriber ports.Transcriber
	rewriter    ports.ScriptRewriter
	logger      *slog.Logger

	maxLength int
	minChars  int
	segments  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSegments switches transcription to segment-timed mode.
func WithSegments(enabled bool) Option {
	return func(o *Orchestrator) { o.segments = enabled }
}

// WithMinTranscriptChars sets how many runes a trimmed transcript needs
// before it counts as speech.
func WithMinTranscriptChars(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.minChars = n
		}
	}
}

// WithMaxLength sets the default chunk size for emitted text.
func WithMaxLength(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	extractor ports.AudioExtractor,
	transcriber ports.Transcriber,
	rewriter ports.ScriptRewriter,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		extractor:   extractor,
		transcriber: transcriber,
		rewriter:    rewriter,
		logger:      logger,
		maxLength:   DefaultMaxLength,
		minChars:    1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunRequest is one matched video plus the transport limit for its output.
type RunRequest struct {
	Video     domain.VideoReference
	MaxLength int
}

// Run drives the video through download, transcription and rewrite, emitting
// events to sink as each stage begins. The audio artifact is removed on every
// exit path. A run with no usable speech returns domain.ErrNoSpeech.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest, sink ports.ProgressSink) (*domain.RunResult, error) {
	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = o.maxLength
	}

	res := &domain.RunResult{
		RunID:     uuid.NewString(),
		Video:     req.Video,
		Stage:     domain.StageMatched,
		StartedAt: time.Now().UTC(),
	}
	log := o.logger.With(
		slog.String("run_id", res.RunID),
		slog.String("platform", req.Video.Platform.String()),
	)
	log.Info("run started", slog.String("url", req.Video.URL))

	r := &run{res: res, sink: sink, log: log}

	r.progress(ctx, 1, domain.StageDownloading,
		fmt.Sprintf("Found a %s link! Starting analysis...\n\nStep 1/4: Downloading audio...", req.Video.Platform))
	audioPath, err := o.extractor.DownloadAudio(ctx, req.Video.URL)
	if err != nil {
		return r.fail(ctx, err)
	}
	defer o.cleanup(log, audioPath)
	log.Info("audio downloaded", slog.String("path", audioPath), slog.Duration("elapsed", time.Since(res.StartedAt)))

	r.progress(ctx, 2, domain.StageTranscribing, "Step 2/4: Transcribing audio...")
	transcript, err := o.transcribe(ctx, audioPath)
	if err != nil {
		var te *domain.TranscriptionError
		if !errors.As(err, &te) {
			err = &domain.TranscriptionError{Err: err}
		}
		return r.fail(ctx, err)
	}
	res.Transcript = transcript

	if utf8.RuneCountInString(strings.TrimSpace(transcript.Text)) < o.minChars {
		res.Stage = domain.StageNoSpeech
		res.Outcome = domain.OutcomeNoSpeech
		res.UserMessage = noSpeechMessage
		r.emitTerminal(ctx, domain.Event{Kind: domain.EventNoSpeech, Stage: res.Stage, Text: noSpeechMessage})
		res.CompletedAt = time.Now().UTC()
		log.Info("no speech detected", slog.Int("transcript_chars", len(transcript.Text)))
		return res, domain.ErrNoSpeech
	}

	r.progress(ctx, 3, domain.StageRewriting, "Step 3/4: Analyzing script structure...")
	doc, err := o.rewriter.AnalyzeAndRewrite(ctx, transcript.Text, req.Video.Platform)
	if err != nil {
		var re *domain.RewriteError
		if !errors.As(err, &re) {
			err = &domain.RewriteError{Err: err}
		}
		return r.fail(ctx, err)
	}
	res.Document = doc

	r.progress(ctx, 4, domain.StageDone, "Step 4/4: Done!")
	r.chunks(ctx, domain.EventTranscript, "Original Transcript:\n"+transcript.Text, maxLength)
	res.Chunks = r.chunks(ctx, domain.EventResult, string(doc), maxLength)
	res.Outcome = domain.OutcomeDone
	res.CompletedAt = time.Now().UTC()

	log.Info("run completed",
		slog.Int("chunks", len(res.Chunks)),
		slog.Duration("elapsed", res.CompletedAt.Sub(res.StartedAt)),
	)
	return res, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, audioPath string) (domain.Transcript, error) {
	if !o.segments {
		text, err := o.transcriber.Transcribe(ctx, audioPath)
		return domain.Transcript{Text: text}, err
	}
	segs, err := o.transcriber.TranscribeSegments(ctx, audioPath)
	if err != nil {
		return domain.Transcript{}, err
	}
	return domain.Transcript{Text: domain.JoinSegments(segs), Segments: segs}, nil
}

func (o *Orchestrator) cleanup(log *slog.Logger, path string) {
	if err := o.extractor.Cleanup(path); err != nil {
		log.Warn("failed to remove audio artifact", slog.String("path", path), slog.Any("error", err))
		return
	}
	log.Debug("audio artifact removed", slog.String("path", path))
}

// run carries the per-run state shared by the emit helpers.
type run struct {
	res  *domain.RunResult
	sink ports.ProgressSink
	log  *slog.Logger
}

func (r *run) emit(ctx context.Context, ev domain.Event) {
	ev.RunID = r.res.RunID
	if err := r.sink.Emit(ctx, ev); err != nil {
		r.log.Warn("failed to emit event", slog.String("kind", string(ev.Kind)), slog.Any("error", err))
	}
}

// emitTerminal delivers the final event of a run even when ctx has expired
// or was cancelled.
func (r *run) emitTerminal(ctx context.Context, ev domain.Event) {
	ctx, cancel := terminalContext(ctx)
	defer cancel()
	r.emit(ctx, ev)
}

func terminalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), terminalEmitTimeout)
}

func (r *run) progress(ctx context.Context, step int, stage domain.Stage, text string) {
	r.res.Stage = stage
	r.log.Info("stage", slog.String("stage", string(stage)), slog.Int("step", step))
	r.emit(ctx, domain.Event{
		Kind:       domain.EventProgress,
		Stage:      stage,
		Step:       step,
		TotalSteps: totalSteps,
		Text:       text,
	})
}

func (r *run) chunks(ctx context.Context, kind domain.EventKind, text string, maxLength int) []string {
	parts := chunker.Split(text, maxLength)
	for i, p := range parts {
		r.emit(ctx, domain.Event{Kind: kind, Stage: r.res.Stage, Index: i + 1, Total: len(parts), Text: p})
	}
	return parts
}

func (r *run) fail(ctx context.Context, err error) (*domain.RunResult, error) {
	failedAt := r.res.Stage
	r.res.Stage = domain.StageFailed
	r.res.Outcome = domain.OutcomeFailed
	r.res.UserMessage = FailureMessage(r.res.Video.Platform, err)
	r.res.CompletedAt = time.Now().UTC()
	r.emitTerminal(ctx, domain.Event{Kind: domain.EventFailure, Stage: domain.StageFailed, Text: r.res.UserMessage})
	r.log.Error("run failed", slog.String("stage", string(failedAt)), slog.Any("error", err))
	return r.res, err
}

// FailureMessage builds the user-facing text for a failed run: the immediate
// error plus its probable causes.
func FailureMessage(platform domain.Platform, err error) string {
	return fmt.Sprintf("Sorry, I couldn't analyze this video. Error: %s\n\nThis might be due to:\n%s",
		err.Error(), strings.Join(probableCauses(platform, err), "\n"))
}

func probableCauses(platform domain.Platform, err error) []string {
	var de *domain.DownloadError
	if !errors.As(err, &de) {
		return []string{
			"- The video being private or age-restricted",
			"- Platform blocking downloads",
			"- Network issues",
		}
	}
	switch platform {
	case domain.PlatformYouTube:
		return []string{
			"- The video being private, age-restricted or members-only",
			"- YouTube asking for sign-in (a cookies file may help)",
			"- Network issues",
		}
	case domain.PlatformInstagram:
		return []string{
			"- The reel being private or removed",
			"- Instagram requiring a logged-in session (a cookies file may help)",
			"- Network issues",
		}
	case domain.PlatformTikTok:
		return []string{
			"- The video being private or removed",
			"- TikTok blocking downloads from this network",
			"- Network issues",
		}
	}
	return []string{
		"- The video being private or age-restricted",
		"- Platform blocking downloads",
		"- Network issues",
	}
}
