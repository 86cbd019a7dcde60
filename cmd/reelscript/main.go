// Reelscript turns short-form video links into brand-voiced scripts.
//
// Usage:
//
//	# Analyse one link and print the result
//	reelscript analyze https://www.tiktok.com/@user/video/1234567890
//
//	# Consume requests from Redis
//	reelscript worker
//
//	# Serve the HTTP API
//	reelscript serve --addr :8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "reelscript",
	Short:   "Turn TikTok, YouTube and Instagram videos into brand-voiced scripts.",
	Version: Version,
}

func main() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			printWarning("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
