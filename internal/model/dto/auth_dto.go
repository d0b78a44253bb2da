package dto

import "MindBalance/internal/model"

// LoginRequest 邮箱密码登录
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse 登录成功返回用户信息和 access token
type LoginResponse struct {
	Token     string           `json:"token"`
	User      model.PublicUser `json:"user"`
	ExpiresIn int              `json:"expiresIn"`
	Success   bool             `json:"success"`
}
