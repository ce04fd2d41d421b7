package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"conduit/internal/config"
	"conduit/internal/infra/database"
	infraES "conduit/internal/infra/elasticsearch"
	infraKafka "conduit/internal/infra/kafka"
	"conduit/internal/repository"
	"conduit/internal/service"
	"conduit/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", envOr("CONDUIT_CONFIG", "configs/config.yaml"), "path to config file")
	reindex := flag.Bool("reindex", false, "rebuild the search index from the database and exit")
	batchSize := flag.Int("batch", 200, "reindex batch size")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()
	db := database.Get()

	es, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	index := infraES.NewArticleIndex(es, cfg.Elasticsearch.ArticlesIndex())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := index.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure article index", zap.Error(err))
	}

	indexer := service.NewIndexService(
		repository.NewArticleRepository(db),
		repository.NewTagRepository(db),
		repository.NewFavoriteRepository(db),
		index,
	)

	if *reindex {
		success, failed, err := indexer.Reindex(ctx, *batchSize)
		if err != nil {
			logger.Fatal("Reindex failed", zap.Int("success", success), zap.Int("failed", failed), zap.Error(err))
		}
		logger.Info("Reindex completed", zap.Int("success", success), zap.Int("failed", failed))
		return
	}

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("Search indexer started",
		zap.String("topic", cfg.Kafka.ArticleEventsTopic()),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartArticleEventConsumer(ctx, cfg.Kafka.Brokers, cfg.Kafka.ArticleEventsTopic(), cfg.Kafka.GroupID, indexer.HandleEvent)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
