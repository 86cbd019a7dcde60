package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reelscript/internal/core/domain"
)

func TestRenderEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   domain.Event
		want string
	}{
		{"progress", domain.Event{Kind: domain.EventProgress, Stage: domain.StageDownloading, Text: "Step 1/4: Downloading audio..."}, "Step 1/4"},
		{"done", domain.Event{Kind: domain.EventProgress, Stage: domain.StageDone, Text: "Step 4/4: Done!"}, "Done!"},
		{"result", domain.Event{Kind: domain.EventResult, Index: 2, Total: 3, Text: "BODY"}, "Result 2/3"},
		{"failure", domain.Event{Kind: domain.EventFailure, Text: "Sorry"}, "Sorry"},
		{"reply", domain.Event{Kind: domain.EventReply, Text: "hi"}, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, renderEvent(tt.ev), tt.want)
		})
	}
}
