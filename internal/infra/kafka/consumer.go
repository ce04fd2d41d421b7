package kafka

import (
	"context"
	"time"

	"conduit/internal/events"
	"conduit/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理文章事件的回调函数
type EventHandler func(ctx context.Context, evt *events.ArticleEvent) error

// StartArticleEventConsumer 启动文章事件消费者（阻塞，ctx 取消后返回）
func StartArticleEventConsumer(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka article event consumer stopped")
	}()

	logger.Info("Kafka article event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		evt, err := events.Decode(msg.Value)
		if err != nil {
			logger.Error("Skipping undecodable article event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, evt); err != nil {
			logger.Error("Failed to handle article event",
				zap.String("type", string(evt.Type)),
				zap.Int64("article_id", evt.ArticleID),
				zap.Error(err),
			)
		}
	}
}
