// Package events 定义 API 进程与索引 worker 之间传递的文章领域事件
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Type 事件类型
type Type string

const (
	ArticleCreated     Type = "article.created"
	ArticleUpdated     Type = "article.updated"
	ArticleDeleted     Type = "article.deleted"
	ArticleFavorited   Type = "article.favorited"
	ArticleUnfavorited Type = "article.unfavorited"
)

// ArticleEvent 文章事件消息体
type ArticleEvent struct {
	Type       Type      `json:"type"`
	ArticleID  int64     `json:"article_id"`
	Slug       string    `json:"slug"`
	UserID     int64     `json:"user_id,omitempty"` // 触发事件的用户
	OccurredAt time.Time `json:"occurred_at"`
}

// New 创建一个当前时间的事件
func New(t Type, articleID int64, slug string, userID int64) ArticleEvent {
	return ArticleEvent{
		Type:       t,
		ArticleID:  articleID,
		Slug:       slug,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// Key 消息分区键，同一篇文章的事件落在同一分区以保持顺序
func (e ArticleEvent) Key() []byte {
	return []byte("article-" + strconv.FormatInt(e.ArticleID, 10))
}

// Encode 序列化事件
func (e ArticleEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode 反序列化事件
func Decode(data []byte) (*ArticleEvent, error) {
	var evt ArticleEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("failed to decode article event: %w", err)
	}
	if evt.Type == "" || evt.ArticleID <= 0 {
		return nil, fmt.Errorf("malformed article event: type=%q article_id=%d", evt.Type, evt.ArticleID)
	}
	return &evt, nil
}

// Publisher 事件发布者
type Publisher interface {
	Publish(ctx context.Context, evt ArticleEvent) error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ArticleEvent) error { return nil }
