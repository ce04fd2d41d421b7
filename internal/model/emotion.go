package model

import "time"

// 表情反应类型
const (
	EmotionLike  = "LIKE"
	EmotionLove  = "LOVE"
	EmotionHaha  = "HAHA"
	EmotionWow   = "WOW"
	EmotionSad   = "SAD"
	EmotionAngry = "ANGRY"
)

// EmotionTypes 全部合法的表情类型，按展示顺序
var EmotionTypes = []string{EmotionLike, EmotionLove, EmotionHaha, EmotionWow, EmotionSad, EmotionAngry}

// ValidEmotion 判断表情类型是否合法
func ValidEmotion(t string) bool {
	for _, e := range EmotionTypes {
		if e == t {
			return true
		}
	}
	return false
}

// Emotion 文章表情反应，每个 (用户, 文章) 至多一条，重复反应会覆盖类型
type Emotion struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:反应记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_article_emotion;comment:用户ID" json:"user_id"`
	ArticleID int64     `gorm:"not null;uniqueIndex:uq_user_article_emotion;index:idx_emotions_article_id;comment:文章ID" json:"article_id"`
	Type      string    `gorm:"size:20;not null;comment:表情类型" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Emotion) TableName() string {
	return "emotions"
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{}, &Follow{}, &Article{}, &Tag{}, &ArticleTag{}, &Favorite{}, &Emotion{}, &Comment{},
	}
}
