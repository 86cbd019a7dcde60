package domain

import (
	"strings"
	"time"
)

// Platform is the social-media source of a video link.
type Platform string

const (
	PlatformTikTok    Platform = "TikTok"
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
)

func (p Platform) String() string {
	if p == "" {
		return "unknown"
	}
	return string(p)
}

// VideoReference is a supported video link found in user text.
type VideoReference struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// Segment is one time-aligned piece of a transcript. Times are in seconds.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the text extracted from the audio artifact.
// Segments is only set when segment-level alignment was requested.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
}

// JoinSegments flattens segments into one space-separated text.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ScriptDocument is the analysis-and-rewrite text produced for a transcript.
type ScriptDocument string

// Stage marks how far a pipeline run has progressed.
type Stage string

const (
	StageMatched      Stage = "matched"
	StageDownloading  Stage = "downloading"
	StageTranscribing Stage = "transcribing"
	StageRewriting    Stage = "rewriting"
	StageDone         Stage = "done"
	StageNoSpeech     Stage = "no_speech"
	StageFailed       Stage = "failed"
)

// Terminal reports whether no further transition is possible from s.
func (s Stage) Terminal() bool {
	switch s {
	case StageDone, StageNoSpeech, StageFailed:
		return true
	}
	return false
}

// Outcome is the final result class of a run.
type Outcome string

const (
	OutcomeDone     Outcome = "done"
	OutcomeNoSpeech Outcome = "no_speech"
	OutcomeFailed   Outcome = "failed"
)

// RunResult holds everything one pipeline run produced.
type RunResult struct {
	RunID       string
	Video       VideoReference
	Stage       Stage
	Outcome     Outcome
	Transcript  Transcript
	Document    ScriptDocument
	Chunks      []string
	UserMessage string
	StartedAt   time.Time
	CompletedAt time.Time
}

// EventKind classifies a notification sent to the transport.
type EventKind string

const (
	EventProgress   EventKind = "progress"
	EventTranscript EventKind = "transcript"
	EventResult     EventKind = "result"
	EventNoSpeech   EventKind = "no_speech"
	EventFailure    EventKind = "failure"
	EventReply      EventKind = "reply"
)

// Event is one discrete textual notification. Step/TotalSteps are set on
// progress events; Index/Total on chunked transcript, result and reply events.
type Event struct {
	RunID      string    `json:"run_id,omitempty"`
	Kind       EventKind `json:"kind"`
	Stage      Stage     `json:"stage,omitempty"`
	Step       int       `json:"step,omitempty"`
	TotalSteps int       `json:"total_steps,omitempty"`
	Index      int       `json:"index,omitempty"`
	Total      int       `json:"total,omitempty"`
	Text       string    `json:"text"`
}

// Message is one inbound chat text routed through the bot.
type Message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	MaxLength int    `json:"max_length,omitempty"`
}
