package dto

import "time"

// CreateArticleRequest 发布文章请求
type CreateArticleRequest struct {
	Article CreateArticle `json:"article" binding:"required"`
}

// CreateArticle 文章内容
type CreateArticle struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	Body        string   `json:"body" binding:"required"`
	TagList     []string `json:"tagList" binding:"omitempty,max=20,dive,min=1,max=100"`
}

// UpdateArticleRequest 更新文章请求，只允许修改标题、摘要、正文
type UpdateArticleRequest struct {
	Article UpdateArticle `json:"article" binding:"required"`
}

// UpdateArticle 可更新的文章字段
type UpdateArticle struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Body        *string `json:"body" binding:"omitempty,min=1"`
}

// Empty 是否没有任何待更新字段
func (a *UpdateArticle) Empty() bool {
	return a.Title == nil && a.Description == nil && a.Body == nil
}

// ArticleInfo 文章信息
type ArticleInfo struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int64     `json:"favoritesCount"`
	Author         Profile   `json:"author"`
}

// ArticleResponse {"article": {...}}
type ArticleResponse struct {
	Article ArticleInfo `json:"article"`
}

// ArticleListResponse {"articles": [...], "articlesCount": n}
type ArticleListResponse struct {
	Articles      []ArticleInfo `json:"articles"`
	ArticlesCount int64         `json:"articlesCount"`
}

// TagInfo 热门标签
type TagInfo struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TagListResponse {"tags": [...]}
type TagListResponse struct {
	Tags []TagInfo `json:"tags"`
}
