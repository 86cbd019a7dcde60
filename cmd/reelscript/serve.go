package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"reelscript/internal/adapters/redisqueue"
	"reelscript/internal/httpapi"
)

var serveFlags struct {
	addr      string
	withRedis bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		if serveFlags.addr != "" {
			cfg.HTTPAddr = serveFlags.addr
		}
		router, err := buildRouter(cfg, logger)
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}

		gin.SetMode(gin.ReleaseMode)
		var opts []httpapi.Option
		if serveFlags.withRedis {
			rdb, err := newRedisClient(cfg)
			if err != nil {
				printError(err.Error())
				os.Exit(1)
			}
			defer rdb.Close()
			opts = append(opts,
				httpapi.WithQueue(redisqueue.NewQueue(rdb, cfg.RedisQueue, logger)),
				httpapi.WithEventStore(redisqueue.NewReplies(rdb, cfg.ReplyTTL)),
			)
		}
		api := httpapi.NewServer(router, logger, opts...)

		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router}
		ctx, cancel := signalContext()
		defer cancel()
		go func() {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr), slog.Bool("redis", serveFlags.withRedis))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "a", "", "Listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveFlags.withRedis, "redis", false, "Enable /v1/queue and /v1/chats/:chat_id/events backed by Redis")
	rootCmd.AddCommand(serveCmd)
}
