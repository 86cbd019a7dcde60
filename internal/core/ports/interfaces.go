package ports

import (
	"context"

	"reelscript/internal/core/domain"
)

// AudioExtractor defines the contract for pulling the audio track of a video.
type AudioExtractor interface {
	// DownloadAudio fetches the audio of videoURL into a uniquely named
	// temporary file and returns its path. Failures are *domain.DownloadError.
	DownloadAudio(ctx context.Context, videoURL string) (string, error)

	// Cleanup removes a file returned by DownloadAudio.
	// Calling it for a missing file is not an error.
	Cleanup(path string) error
}

// Transcriber defines the contract for speech-to-text.
type Transcriber interface {
	// Transcribe returns the plain text of the audio file.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// TranscribeSegments returns ordered, non-overlapping timed segments.
	TranscribeSegments(ctx context.Context, audioPath string) ([]domain.Segment, error)
}

// ScriptRewriter turns a transcript into an analysis-and-rewrite document.
type ScriptRewriter interface {
	AnalyzeAndRewrite(ctx context.Context, transcript string, platform domain.Platform) (domain.ScriptDocument, error)
}

// Chatter answers free text that carries no video link.
type Chatter interface {
	Chat(ctx context.Context, text string) (string, error)
	WebSearch(ctx context.Context, query string) (string, error)
}

// ProgressSink receives run events in order.
type ProgressSink interface {
	Emit(ctx context.Context, ev domain.Event) error
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(ctx context.Context, ev domain.Event) error

func (f SinkFunc) Emit(ctx context.Context, ev domain.Event) error { return f(ctx, ev) }

// MessageHandler processes one inbound message and reports to sink.
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message, sink ProgressSink) error
}

// MessageSource yields inbound messages one at a time. Next blocks until a
// message arrives or ctx is done.
type MessageSource interface {
	Next(ctx context.Context) (domain.Message, error)
}
