package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conduit/internal/api/handler"
	"conduit/internal/api/router"
	"conduit/internal/config"
	"conduit/internal/events"
	"conduit/internal/infra/database"
	infraES "conduit/internal/infra/elasticsearch"
	infraKafka "conduit/internal/infra/kafka"
	infraMinio "conduit/internal/infra/minio"
	infraRedis "conduit/internal/infra/redis"
	"conduit/internal/repository"
	"conduit/internal/service"
	"conduit/pkg/logger"
	"conduit/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", envOr("CONDUIT_CONFIG", "configs/config.yaml"), "path to config file")
	flag.Parse()

	// 加载配置文件
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := utils.SetSlugNode(cfg.App.NodeID); err != nil {
		logger.Fatal("Failed to init slug generator", zap.Error(err))
	}

	// 初始化数据库并迁移
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	db := database.Get()
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 可选基础设施，未启用或连接失败时降级
	var tagCache service.TagCache
	if cfg.Redis.Enabled {
		if cache, closeRedis, err := infraRedis.NewTagCache(&cfg.Redis); err != nil {
			logger.Warn("Redis init failed, popular tags will not be cached", zap.Error(err))
		} else {
			defer closeRedis()
			tagCache = cache
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := infraKafka.NewProducer(&cfg.Kafka)
		defer producer.Close()
		publisher = producer
	}

	var searcher service.ArticleSearcher
	if cfg.Elasticsearch.Enabled {
		if es, err := infraES.NewClient(&cfg.Elasticsearch); err != nil {
			logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		} else {
			index := infraES.NewArticleIndex(es, cfg.Elasticsearch.ArticlesIndex())
			if err := index.EnsureIndex(context.Background()); err != nil {
				logger.Warn("Elasticsearch index init failed", zap.Error(err))
			}
			searcher = index
		}
	}

	var images service.ImageStore
	if cfg.MinIO.Enabled {
		if store, err := infraMinio.NewAvatarStore(&cfg.MinIO); err != nil {
			logger.Warn("MinIO init failed, avatar upload disabled", zap.Error(err))
		} else {
			images = store
		}
	}

	// 初始化依赖（Repository -> Service -> Handler）
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	emotionRepo := repository.NewEmotionRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	credentials := service.NewCredentialService(&cfg.JWT)
	userService := service.NewUserService(userRepo, credentials, images)
	profileService := service.NewProfileService(userRepo, followRepo)
	articleService := service.NewArticleService(articleRepo, tagRepo, favoriteRepo, followRepo, publisher, tagCache)
	interactionService := service.NewInteractionService(articleService, favoriteRepo, emotionRepo)
	commentService := service.NewCommentService(articleService, commentRepo, followRepo)
	searchService := service.NewSearchService(articleService, articleRepo, searcher)

	gin.SetMode(cfg.App.Mode)
	r := router.New(&router.Handlers{
		User:        handler.NewUserHandler(userService),
		Profile:     handler.NewProfileHandler(profileService),
		Article:     handler.NewArticleHandler(articleService, searchService),
		Interaction: handler.NewInteractionHandler(interactionService),
		Comment:     handler.NewCommentHandler(commentService),
		Health:      handler.NewHealthHandler(db),
	}, credentials)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("redis", tagCache != nil),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("elasticsearch", searcher != nil),
		zap.Bool("minio", images != nil),
	)

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
