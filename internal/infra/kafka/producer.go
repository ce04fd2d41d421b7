package kafka

import (
	"context"
	"fmt"
	"time"

	"conduit/internal/config"
	"conduit/internal/events"
	"conduit/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer 文章事件生产者
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 初始化 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	p := &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           2 * time.Second,
			MaxAttempts:            3,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: cfg.ArticleEventsTopic(),
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", p.topic),
	)
	return p
}

// Publish 发送文章事件
func (p *Producer) Publish(ctx context.Context, evt events.ArticleEvent) error {
	payload, err := evt.Encode()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   evt.Key(),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send article event: %w", err)
	}

	logger.Debug("Article event sent",
		zap.String("type", string(evt.Type)),
		zap.Int64("article_id", evt.ArticleID),
	)
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
