package domain

import (
	"errors"
	"fmt"
)

// ErrNoSpeech is returned when transcription yields no usable text.
// It is a terminal outcome, not a failure.
var ErrNoSpeech = errors.New("no speech detected")

// DownloadError reports a failed audio extraction.
type DownloadError struct {
	URL    string
	Detail string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download audio: %s", e.Detail)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// TranscriptionError wraps a speech-to-text provider failure.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// RewriteError wraps a text-generation provider failure.
type RewriteError struct {
	Err error
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("script rewrite failed: %v", e.Err)
}

func (e *RewriteError) Unwrap() error { return e.Err }
