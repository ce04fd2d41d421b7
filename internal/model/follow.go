package model

import "time"

// Follow 用户关注关系（有向边 follower -> following）
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:关注关系id" json:"id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:idx_unique_follow;index:idx_follows_follower_id;comment:粉丝用户id" json:"follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:idx_unique_follow;index:idx_follows_following_id;comment:被关注用户id" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
