package model

import "time"

// Favorite 文章收藏记录，每个 (用户, 文章) 至多一条
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_article_favorite;index:idx_favorites_user_id;comment:收藏用户ID" json:"user_id"`
	ArticleID int64     `gorm:"not null;uniqueIndex:uq_user_article_favorite;index:idx_favorites_article_id;comment:被收藏文章ID" json:"article_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:收藏时间" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
