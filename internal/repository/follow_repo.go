package repository

import (
	"conduit/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create 创建关注关系，已存在时不做任何事
func (r *FollowRepository) Create(followerID, followingID int64) error {
	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(follow).Error
}

// Delete 删除关注关系，返回是否确实删除了记录
func (r *FollowRepository) Delete(followerID, followingID int64) (bool, error) {
	result := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查关注关系是否存在
func (r *FollowRepository) Exists(followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs 获取用户关注的全部用户 ID
func (r *FollowRepository) GetFollowingIDs(followerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// BatchCheckFollowing 批量检查关注状态
func (r *FollowRepository) BatchCheckFollowing(followerID int64, followingIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(followingIDs))
	if len(followingIDs) == 0 {
		return result, nil
	}

	var followedIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, followingIDs).
		Pluck("following_id", &followedIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range followedIDs {
		result[id] = true
	}
	return result, nil
}
