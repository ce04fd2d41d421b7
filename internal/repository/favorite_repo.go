package repository

import (
	"conduit/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create 收藏文章，已收藏时不做任何事
func (r *FavoriteRepository) Create(userID, articleID int64) error {
	fav := &model.Favorite{UserID: userID, ArticleID: articleID}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoNothing: true,
	}).Create(fav).Error
}

// Delete 取消收藏，返回是否确实删除了记录
func (r *FavoriteRepository) Delete(userID, articleID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&model.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BatchCheckFavorited 批量检查用户对文章的收藏状态
func (r *FavoriteRepository) BatchCheckFavorited(userID int64, articleIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var favoritedIDs []int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &favoritedIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range favoritedIDs {
		result[id] = true
	}
	return result, nil
}

// CountByArticleIDs 批量统计文章的收藏数
func (r *FavoriteRepository) CountByArticleIDs(articleIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ArticleID int64
		Total     int64
	}
	err := r.db.Model(&model.Favorite{}).
		Select("article_id, COUNT(*) AS total").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ArticleID] = row.Total
	}
	return result, nil
}
