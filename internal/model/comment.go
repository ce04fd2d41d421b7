package model

import "time"

// Comment 评论模型
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	Body      string    `gorm:"type:text;not null;comment:评论内容" json:"body"`
	ArticleID int64     `gorm:"not null;index:idx_comments_article_id;index:idx_composite_article_created,priority:1;comment:所属文章ID" json:"article_id"`
	AuthorID  int64     `gorm:"not null;index:idx_comments_author_id;comment:评论作者ID" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_composite_article_created,priority:2;comment:评论时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
