package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelscript/internal/core/domain"
)

var analyzeFlags struct {
	maxLength int
	chatID    string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Handle one message locally: a video link, a search request or chat.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		router, err := buildRouter(cfg, logger)
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()
		if cfg.RunTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
			defer cancel()
		}

		msg := domain.Message{
			ChatID:    analyzeFlags.chatID,
			Text:      strings.Join(args, " "),
			MaxLength: analyzeFlags.maxLength,
		}
		if err := router.Handle(ctx, msg, terminalSink{}); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeFlags.maxLength, "max-length", "m", 0, "Chunk size for printed results (default MAX_MESSAGE_LENGTH)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.chatID, "chat-id", "cli", "Chat id attached to the message")
	rootCmd.AddCommand(analyzeCmd)
}
