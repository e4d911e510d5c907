// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// AdminLoginRequest represents the request payload for admin login
type AdminLoginRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=100" example:"backoffice"`
	Password     string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	CaptchaID    string `json:"captcha_id" validate:"required" example:"c0a80121-7ac0-4e1c-9c5e-2f0a1b2c3d4e"`
	CaptchaAngle int64  `json:"captcha_angle" validate:"required" example:"137"`
}

// AdminInfo represents admin information returned in login responses
type AdminInfo struct {
	ID          uint       `json:"id" example:"1"`
	UUID        string     `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username    string     `json:"username" example:"backoffice"`
	IsActive    *bool      `json:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AdminLoginResponse represents the successful admin login response
type AdminLoginResponse struct {
	Message      string    `json:"message" example:"Login successful"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresAt    time.Time `json:"expires_at"`
	Admin        AdminInfo `json:"admin"`
}

// RefreshTokenRequest represents the request to refresh an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CaptchaResponse carries a generated rotation captcha challenge
type CaptchaResponse struct {
	CaptchaID   string `json:"captcha_id"`
	MasterImage string `json:"master_image"`
	ThumbImage  string `json:"thumb_image"`
	ThumbSize   int    `json:"thumb_size"`
}
