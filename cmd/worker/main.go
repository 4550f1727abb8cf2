package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"registration/internal/config"
	"registration/internal/logging"
	"registration/internal/queue"
	"registration/internal/store"
)

// Worker consumes student change events from redis and writes them to the
// operator log.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logging.New(cfg.Env)

	if cfg.QueueBackend != "redis" {
		log.Error("worker requires QUEUE_BACKEND=redis", slog.String("queue_backend", cfg.QueueBackend))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := store.NewRedis(store.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Warn("redis not reachable yet, consumer will keep retrying", slog.String("addr", cfg.RedisAddr))
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", slog.Any("error", err))
		}
	}()

	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	log.Info("worker started, waiting for messages", slog.String("queue", cfg.QueueKey))
	if err := queue.Run(ctx, q, log); err != nil {
		log.Error("queue consume init failed", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("worker stopped")
}
