package model

import "time"

// User 用户模型
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex;comment:邮箱" json:"email"`
	Username  string    `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"username"`
	Password  string    `gorm:"size:255;not null;comment:密码摘要" json:"-"` // 序列化时忽略密码
	Bio       *string   `gorm:"type:text;comment:个人简介" json:"bio"`
	Image     *string   `gorm:"size:500;comment:头像" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Articles []Article `gorm:"foreignKey:AuthorID" json:"articles,omitempty"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}

func (User) TableName() string {
	return "users"
}
