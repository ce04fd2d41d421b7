package dto

import "time"

// CommentRequest 发表/更新评论请求
type CommentRequest struct {
	Comment CommentBody `json:"comment" binding:"required"`
}

// CommentBody 评论内容
type CommentBody struct {
	Body string `json:"body" binding:"required,min=1,max=5000"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Body      string    `json:"body"`
	Author    Profile   `json:"author"`
}

// CommentResponse {"comment": {...}}
type CommentResponse struct {
	Comment CommentInfo `json:"comment"`
}

// CommentListResponse {"comments": [...], "commentsCount": n}
type CommentListResponse struct {
	Comments      []CommentInfo `json:"comments"`
	CommentsCount int64         `json:"commentsCount"`
}
