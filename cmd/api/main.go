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

	"github.com/gin-gonic/gin"

	"registration/internal/auth"
	"registration/internal/config"
	"registration/internal/handler"
	"registration/internal/httpmiddleware"
	"registration/internal/logging"
	"registration/internal/queue"
	"registration/internal/store"
	"registration/internal/student"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logging.New(cfg.Env)
	slog.SetDefault(log)

	if err := runHTTP(cfg, log); err != nil {
		log.Error("http server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runHTTP(cfg config.App, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		return err
	}
	db, err := store.NewDB(ctx, cfg.DBDriver, cfg.DatabaseURL, store.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("store ready", slog.String("driver", cfg.DBDriver))

	var redisClient *store.Redis
	if cfg.QueueBackend == "redis" || cfg.RateLimitBackend == "redis" {
		redisClient = store.NewRedis(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
	}

	var q queue.Queue
	switch cfg.QueueBackend {
	case "redis":
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	case "memory":
		mem := queue.NewInMemory(256)
		go func() {
			if err := queue.Run(ctx, mem, log); err != nil {
				log.Warn("event consumer stopped", slog.Any("error", err))
			}
		}()
		q = mem
	default:
		q = queue.Discard{}
	}

	var limiter httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, "", cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	health := map[string]handler.HealthCheck{
		"db": func(c *gin.Context) bool { return db.Healthy(c.Request.Context()) },
	}
	if redisClient != nil {
		health["redis"] = func(c *gin.Context) bool { return redisClient.Healthy(c.Request.Context()) }
	}

	svc := student.NewService(student.NewRepository(db), q, log)
	h := handler.New(svc, log, health, handler.TokenIssuer{
		APIKey:     cfg.AdminAPIKey,
		Issuer:     cfg.JWTIssuer,
		SigningKey: cfg.JWTSigningKey,
		TTL:        cfg.AccessTTL,
	})

	routerCfg := handler.RouterConfig{
		CORSOrigin: cfg.CORSOrigin,
		Limiter:    limiter,
		WebDir:     cfg.WebDir,
		Log:        log,
	}
	if cfg.AuthEnabled {
		routerCfg.Auth = auth.BearerAuth(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleAdmin)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.NewRouter(h, routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced shutdown", slog.Any("error", err))
	}
	log.Info("server exited")
	return nil
}
