package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"reelscript/internal/adapters/redisqueue"
	"reelscript/internal/core/ports"
	"reelscript/internal/service"
)

var workerFlags struct {
	concurrency int
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume messages from the Redis queue and push events back per chat.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		if workerFlags.concurrency > 0 {
			cfg.WorkerConcurrency = workerFlags.concurrency
		}
		router, err := buildRouter(cfg, logger)
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		rdb, err := newRedisClient(cfg)
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		defer rdb.Close()

		ctx, cancel := signalContext()
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", slog.String("url", cfg.RedisURL), slog.Any("error", err))
			os.Exit(1)
		}

		queue := redisqueue.NewQueue(rdb, cfg.RedisQueue, logger)
		replies := redisqueue.NewReplies(rdb, cfg.ReplyTTL)
		sinkFor := func(chatID string) ports.ProgressSink { return replies.SinkFor(chatID) }

		w := service.NewWorker(queue, router, sinkFor, cfg.WorkerConcurrency, cfg.RunTimeout, logger)
		if err := w.Run(ctx); err != nil {
			logger.Error("worker stopped", slog.Any("error", err))
			os.Exit(1)
		}
	},
}

func init() {
	workerCmd.Flags().IntVarP(&workerFlags.concurrency, "concurrency", "c", 0, "Messages handled at once (default WORKER_CONCURRENCY)")
	rootCmd.AddCommand(workerCmd)
}
