package repository

import (
	"conduit/internal/model"

	"gorm.io/gorm"
)

// TagCount 标签及其关联的文章数
type TagCount struct {
	Name         string `gorm:"column:name" json:"name"`
	ArticleCount int64  `gorm:"column:article_count" json:"count"`
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetNamesByArticleIDs 批量获取文章的标签名，每篇文章的标签按名称排序
func (r *TagRepository) GetNamesByArticleIDs(articleIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ArticleID int64
		Name      string
	}
	err := r.db.Table("article_tags").
		Select("article_tags.article_id AS article_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", articleIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], row.Name)
	}
	return result, nil
}

// Popular 按关联文章数倒序返回热门标签
func (r *TagRepository) Popular(limit int) ([]TagCount, error) {
	var tags []TagCount
	err := r.db.Model(&model.Tag{}).
		Select("tags.name AS name, COUNT(article_tags.article_id) AS article_count").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("article_count DESC").Order("tags.name ASC").
		Limit(limit).
		Scan(&tags).Error
	return tags, err
}
