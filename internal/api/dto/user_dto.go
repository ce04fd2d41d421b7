package dto

// RegisterRequest 注册请求 {"user": {...}}
type RegisterRequest struct {
	User RegisterUser `json:"user" binding:"required"`
}

// RegisterUser 注册信息
type RegisterUser struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,min=1,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	User LoginUser `json:"user" binding:"required"`
}

// LoginUser 登录凭据
type LoginUser struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest 更新当前用户请求，缺省字段保持不变
type UpdateUserRequest struct {
	User UpdateUser `json:"user" binding:"required"`
}

// UpdateUser 可更新的用户字段
type UpdateUser struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Username *string `json:"username" binding:"omitempty,min=1,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
	Image    *string `json:"image" binding:"omitempty,max=500"`
}

// Empty 是否没有任何待更新字段
func (u *UpdateUser) Empty() bool {
	return u.Email == nil && u.Username == nil && u.Password == nil && u.Bio == nil && u.Image == nil
}

// UserInfo 当前用户信息（含 token）
type UserInfo struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// UserResponse {"user": {...}}
type UserResponse struct {
	User UserInfo `json:"user"`
}

// Profile 用户公开资料，following 相对于当前访问者
type Profile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// ProfileResponse {"profile": {...}}
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}
