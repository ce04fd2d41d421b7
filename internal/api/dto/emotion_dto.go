package dto

// EmotionRequest 表情反应请求 {"emotion": {"type": "LIKE"}}
type EmotionRequest struct {
	Emotion EmotionBody `json:"emotion" binding:"required"`
}

// EmotionBody 表情类型
type EmotionBody struct {
	Type string `json:"type" binding:"required,oneof=LIKE LOVE HAHA WOW SAD ANGRY"`
}

// Reactions 文章表情统计及当前用户的反应
type Reactions struct {
	Counts map[string]int64 `json:"counts"`
	Mine   *string          `json:"mine"`
}

// ReactionsResponse {"reactions": {...}}
type ReactionsResponse struct {
	Reactions Reactions `json:"reactions"`
}
