package model

import "time"

// Article 文章模型
type Article struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:文章ID" json:"id"`
	Slug        string    `gorm:"size:300;not null;uniqueIndex;comment:文章唯一短链" json:"slug"`
	Title       string    `gorm:"size:255;not null;comment:标题" json:"title"`
	Description string    `gorm:"type:text;not null;default:'';comment:摘要" json:"description"`
	Body        string    `gorm:"type:text;not null;comment:正文" json:"body"`
	AuthorID    int64     `gorm:"not null;index:idx_articles_author_id;comment:作者ID" json:"author_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_articles_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}

// Tag 标签模型，首次使用时创建
type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:标签ID" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex;comment:标签名" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// ArticleTag 文章与标签的关联表
type ArticleTag struct {
	ArticleID int64 `gorm:"primaryKey;autoIncrement:false;comment:文章ID" json:"article_id"`
	TagID     int64 `gorm:"primaryKey;autoIncrement:false;index:idx_article_tags_tag_id;comment:标签ID" json:"tag_id"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
