package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/crestline/meetflow/internal/api"
	"github.com/crestline/meetflow/internal/cache"
	"github.com/crestline/meetflow/internal/config"
	"github.com/crestline/meetflow/internal/database"
	"github.com/crestline/meetflow/internal/embedding"
	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/pipeline"
	"github.com/crestline/meetflow/internal/queue"
	"github.com/crestline/meetflow/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Redis backs the embedding cache; the pipeline runs without it.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var embedCache *cache.Cache
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without embedding cache", "error", err)
	} else {
		embedCache = cache.NewCache(rdb)
	}
	defer rdb.Close()

	gateway := llm.NewGateway(cfg.LLM)
	embedder := embedding.NewService(gateway, cfg.LLM.EmbeddingModel, embedCache,
		time.Duration(cfg.Pipeline.EmbedCacheTTLMin)*time.Minute)

	svc := pipeline.NewService(pipeline.Stores{
		Meetings: store.NewMeetingStore(db),
		Jobs:     store.NewJobStore(db),
		Segments: store.NewSegmentStore(db),
		Chunks:   store.NewChunkStore(db),
		Facts:    store.NewFactStore(db),
	}, gateway, embedder, cfg.Pipeline, cfg.LLM.CompletionModel)

	qclient := queue.NewClient(cfg.Redis)
	defer qclient.Close()

	router := api.NewRouter(db, rdb, svc, qclient)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // pending sweeps hold the request while jobs run
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting ingest API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
