package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelscript/internal/adapters/redisqueue"
	"reelscript/internal/core/domain"
)

var enqueueFlags struct {
	maxLength int
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <chat-id> <text...>",
	Short: "Push a message onto the Redis queue for a worker.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
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
		q := redisqueue.NewQueue(rdb, cfg.RedisQueue, logger)
		msg, err := q.Enqueue(ctx, domain.Message{
			ChatID:    args[0],
			Text:      strings.Join(args[1:], " "),
			MaxLength: enqueueFlags.maxLength,
		})
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Queued %s for chat %s", msg.ID, msg.ChatID)))
		fmt.Println(detailStyle.Render("Replies: " + redisqueue.Key(msg.ChatID)))
	},
}

func init() {
	enqueueCmd.Flags().IntVarP(&enqueueFlags.maxLength, "max-length", "m", 0, "Chunk size for replies (default MAX_MESSAGE_LENGTH)")
	rootCmd.AddCommand(enqueueCmd)
}
