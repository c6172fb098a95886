// cmd/docgen/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docgen-service/internal/common/config"
	"docgen-service/internal/common/database"
	"docgen-service/internal/common/logger"
	"docgen-service/internal/common/observability"
	"docgen-service/internal/document"
	"docgen-service/internal/render"
	"docgen-service/internal/server"
	"docgen-service/internal/session"
	"docgen-service/internal/template"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting document generation service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Template catalog ---
	catalog := template.NewCatalog(cfg.Templates.Dir, log)
	if _, err := catalog.List(); err != nil {
		zapLog.Fatal("templates directory not accessible", zap.Error(err), zap.String("dir", cfg.Templates.Dir))
	}

	// --- Document store ---
	var store document.Store
	switch cfg.Store.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()

		store = document.NewRedisStore(redisClient.GetClient(), time.Duration(cfg.Store.TTL)*time.Second)
		zapLog.Info("Document store: redis", zap.String("address", cfg.Database.Redis.Address))
	default:
		store = document.NewFSStore(cfg.Store.Dir)
		zapLog.Info("Document store: filesystem", zap.String("dir", cfg.Store.Dir))
	}

	// --- Template sessions (optional) ---
	var sessions server.SessionService
	if cfg.Sessions.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		svc := session.NewService(pg.GetDB(), log)
		if err := svc.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("session schema migration failed", zap.Error(err))
		}
		sessions = svc
		zapLog.Info("Template sessions enabled")
	}

	// --- Render pipeline ---
	renderer := render.NewChromeRenderer(cfg.Renderer, log)
	pipeline := render.NewPipeline(catalog, renderer, store, cfg.Server.BaseURL, log)

	// --- HTTP server ---
	srv := server.New(cfg, catalog, pipeline, store, sessions, obs, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
