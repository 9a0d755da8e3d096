package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memelab/memelab/internal/api"
	"github.com/memelab/memelab/internal/api/handler"
	"github.com/memelab/memelab/internal/api/middleware"
	"github.com/memelab/memelab/internal/classify"
	"github.com/memelab/memelab/internal/config"
	"github.com/memelab/memelab/internal/feed"
	"github.com/memelab/memelab/internal/logger"
	"github.com/memelab/memelab/internal/remix"
	"github.com/memelab/memelab/internal/repository"
	"github.com/memelab/memelab/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewFromEnv(nil)
	logger.SetDefault(appLogger)

	ctx := context.Background()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	memeRepo := repository.NewStoredMemeRepository(db)

	resolver, err := storage.NewResolver(&cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}
	// Bucket-backed assets: make sure the bucket exists and mirrors the
	// offline asset directory before serving any URLs that point at it.
	if s3Store, ok := resolver.(*storage.S3Storage); ok {
		if err := s3Store.EnsureBucket(ctx); err != nil {
			appLogger.Fatalf("Failed to ensure storage bucket: %v", err)
		}
		if err := storage.SyncDir(ctx, s3Store, cfg.Offline.Dir, cfg.Offline.PathPrefix); err != nil {
			appLogger.Fatalf("Failed to sync offline assets: %v", err)
		}
	}

	reddit := feed.NewRedditClient(&feed.RedditConfig{
		BaseURL:   cfg.Reddit.BaseURL,
		Subreddit: cfg.Reddit.Subreddit,
		UserAgent: cfg.Reddit.UserAgent,
	})
	cursor := feed.NewCursor(reddit, feed.NewOfflineCache(nil, cfg.Offline.PathPrefix))

	classifyPipeline := classify.NewPipeline(&classify.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	if !classifyPipeline.Configured() {
		appLogger.Warn("No OpenAI API key configured, analysis will use the heuristic fallback")
	}

	remixPipeline, err := remix.NewPipeline(ctx, &remix.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		appLogger.Fatalf("Failed to initialize remix pipeline: %v", err)
	}
	if !remixPipeline.Configured() {
		appLogger.Warn("No Gemini API key configured, remix endpoint will answer 503")
	}

	memeHandler := handler.NewMemeHandler(cursor, classifyPipeline, remixPipeline, memeRepo, resolver)

	// Serve offline assets locally unless a bucket backend owns them.
	offlineDir := cfg.Offline.Dir
	if cfg.Storage.Backend == "s3" {
		offlineDir = ""
	}

	router := api.SetupRouter(api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		OfflineDir:  offlineDir,
		OfflinePath: cfg.Offline.PathPrefix,
	}, memeHandler, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting API server on port %d (mode=%s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
