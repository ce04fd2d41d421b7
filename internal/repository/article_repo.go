package repository

import (
	"strings"

	"conduit/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleFilter 文章列表筛选条件，空字段不参与过滤
type ArticleFilter struct {
	Tag       string
	Author    string // 作者用户名
	Favorited string // 收藏者用户名
}

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create 在一个事务内创建文章、补齐标签并建立关联
func (r *ArticleRepository) Create(article *model.Article, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		return linkTags(tx, article.ID, tagNames)
	})
}

// linkTags 按名称 upsert 标签，再写入 article_tags
func linkTags(tx *gorm.DB, articleID int64, tagNames []string) error {
	names := normalizeTagNames(tagNames)
	if len(names) == 0 {
		return nil
	}

	pending := make([]model.Tag, 0, len(names))
	for _, name := range names {
		pending = append(pending, model.Tag{Name: name})
	}
	// 冲突的行不会返回 ID，下面重新查一次
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&pending).Error; err != nil {
		return err
	}

	var tags []model.Tag
	if err := tx.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return err
	}

	links := make([]model.ArticleTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, model.ArticleTag{ArticleID: articleID, TagID: t.ID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// normalizeTagNames 去除空白与重复标签，保持原有顺序
func normalizeTagNames(tagNames []string) []string {
	seen := make(map[string]bool, len(tagNames))
	names := make([]string, 0, len(tagNames))
	for _, n := range tagNames {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

// GetByID 根据 ID 获取文章（含作者信息）
func (r *ArticleRepository) GetByID(id int64) (*model.Article, error) {
	var article model.Article
	if err := r.db.Preload("Author").Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetBySlug 根据 slug 获取文章（含作者信息）
func (r *ArticleRepository) GetBySlug(slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.Preload("Author").Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetByIDs 批量获取文章，按传入 ID 的顺序返回，不存在的 ID 被跳过
func (r *ArticleRepository) GetByIDs(ids []int64) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []model.Article
	if err := r.db.Preload("Author").Where("id IN ?", ids).Find(&articles).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	ordered := make([]model.Article, 0, len(articles))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

// Update 更新文章字段
func (r *ArticleRepository) Update(id int64, updates map[string]interface{}) (*model.Article, error) {
	result := r.db.Model(&model.Article{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 物理删除文章及其评论、收藏、表情与标签关联
func (r *ArticleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, dep := range []interface{}{&model.Comment{}, &model.Favorite{}, &model.Emotion{}, &model.ArticleTag{}} {
			if err := tx.Where("article_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&model.Article{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List 文章列表查询，条件之间为 AND，按创建时间倒序
func (r *ArticleRepository) List(filter ArticleFilter, skip, limit int) ([]model.Article, int64, error) {
	query := r.db.Model(&model.Article{})

	if filter.Tag != "" {
		query = query.Where("articles.id IN (?)",
			r.db.Table("article_tags").
				Select("article_tags.article_id").
				Joins("JOIN tags ON tags.id = article_tags.tag_id").
				Where("tags.name = ?", filter.Tag))
	}
	if filter.Author != "" {
		query = query.Where("articles.author_id IN (?)",
			r.db.Model(&model.User{}).Select("id").Where("username = ?", filter.Author))
	}
	if filter.Favorited != "" {
		query = query.Where("articles.id IN (?)",
			r.db.Table("favorites").
				Select("favorites.article_id").
				Joins("JOIN users ON users.id = favorites.user_id").
				Where("users.username = ?", filter.Favorited))
	}

	return r.page(query, skip, limit)
}

// ListByAuthors 查询指定作者集合发布的文章
func (r *ArticleRepository) ListByAuthors(authorIDs []int64, skip, limit int) ([]model.Article, int64, error) {
	if len(authorIDs) == 0 {
		return []model.Article{}, 0, nil
	}
	query := r.db.Model(&model.Article{}).Where("articles.author_id IN ?", authorIDs)
	return r.page(query, skip, limit)
}

// Search 按标题、摘要、正文做不区分大小写的模糊匹配
func (r *ArticleRepository) Search(keyword string, skip, limit int) ([]model.Article, int64, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"
	query := r.db.Model(&model.Article{}).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(body) LIKE ?", pattern, pattern, pattern)
	return r.page(query, skip, limit)
}

func (r *ArticleRepository) page(query *gorm.DB, skip, limit int) ([]model.Article, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	err := query.Preload("Author").
		Order("articles.created_at DESC").Order("articles.id DESC").
		Offset(skip).Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListAfterID 按 ID 递增分批读取文章，用于全量重建索引
func (r *ArticleRepository) ListAfterID(afterID int64, size int) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.Preload("Author").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(size).
		Find(&articles).Error
	return articles, err
}
