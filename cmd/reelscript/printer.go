package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"reelscript/internal/core/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))             // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))           // light grey
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")) // purple
)

func printWarning(msg string) {
	fmt.Println(warningStyle.Render(msg))
}

func printError(msg string) {
	fmt.Println(errorStyle.Render(msg))
}

// terminalSink prints each event as it arrives.
type terminalSink struct{}

func (terminalSink) Emit(_ context.Context, ev domain.Event) error {
	fmt.Println(renderEvent(ev))
	return nil
}

func renderEvent(ev domain.Event) string {
	switch ev.Kind {
	case domain.EventProgress:
		if ev.Stage == domain.StageDone {
			return successStyle.Render(ev.Text)
		}
		return pendingStyle.Render(ev.Text)
	case domain.EventTranscript:
		return detailStyle.Render(ev.Text)
	case domain.EventResult:
		head := headerStyle.Render(fmt.Sprintf("=== Result %d/%d ===", ev.Index, ev.Total))
		return head + "\n" + ev.Text
	case domain.EventNoSpeech:
		return warningStyle.Render(ev.Text)
	case domain.EventFailure:
		return errorStyle.Render(ev.Text)
	}
	return ev.Text
}
