package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/crestline/meetflow/internal/cache"
	"github.com/crestline/meetflow/internal/config"
	"github.com/crestline/meetflow/internal/database"
	"github.com/crestline/meetflow/internal/embedding"
	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/pipeline"
	"github.com/crestline/meetflow/internal/queue"
	"github.com/crestline/meetflow/internal/queue/workers"
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

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var embedCache *cache.Cache
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis ping failed", "error", err)
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

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One meeting at a time: every step within a stage is sequential
			// and the external APIs are the bottleneck.
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	stageWorker := workers.NewStageWorker(svc)
	registry.Register(queue.TypeMeetingSegment, asynq.HandlerFunc(stageWorker.ProcessSegment))
	registry.Register(queue.TypeMeetingEmbed, asynq.HandlerFunc(stageWorker.ProcessEmbed))
	registry.Register(queue.TypeMeetingExtract, asynq.HandlerFunc(stageWorker.ProcessExtract))

	slog.Info("starting ingest worker", "concurrency", 2)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
