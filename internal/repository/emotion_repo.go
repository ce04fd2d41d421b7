package repository

import (
	"time"

	"conduit/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmotionRepository struct {
	db *gorm.DB
}

func NewEmotionRepository(db *gorm.DB) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// Upsert 写入表情反应，已有反应时覆盖类型
func (r *EmotionRepository) Upsert(userID, articleID int64, emotionType string) error {
	emotion := &model.Emotion{UserID: userID, ArticleID: articleID, Type: emotionType}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"type":       emotionType,
			"updated_at": time.Now(),
		}),
	}).Create(emotion).Error
}

// Delete 删除表情反应，返回是否确实删除了记录
func (r *EmotionRepository) Delete(userID, articleID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&model.Emotion{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetType 查询用户对文章的表情类型，不存在时返回 gorm.ErrRecordNotFound
func (r *EmotionRepository) GetType(userID, articleID int64) (string, error) {
	var emotion model.Emotion
	err := r.db.Where("user_id = ? AND article_id = ?", userID, articleID).First(&emotion).Error
	if err != nil {
		return "", err
	}
	return emotion.Type, nil
}

// CountByType 统计文章各类表情的数量
func (r *EmotionRepository) CountByType(articleID int64) (map[string]int64, error) {
	var rows []struct {
		Type  string
		Total int64
	}
	err := r.db.Model(&model.Emotion{}).
		Select("type, COUNT(*) AS total").
		Where("article_id = ?", articleID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Total
	}
	return counts, nil
}
