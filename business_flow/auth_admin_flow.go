// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.CaptchaResponse, error)
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
}

// AdminAuthFlowImpl provides captcha-init and admin credential verification
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	captchaSvc   services.CaptchaService
}

func NewAdminAuthFlow(
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaSvc services.CaptchaService,
) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		captchaSvc:   captchaSvc,
	}
}

func (af *AdminAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.CaptchaResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrCaptchaFailed)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.CaptchaResponse{
		CaptchaID:   ch.ID,
		MasterImage: ch.MasterImageBase64,
		ThumbImage:  ch.ThumbImageBase64,
	}, nil
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	// Validate request
	if req == nil {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrAdminNotFound)
	}
	if len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrIncorrectPassword)
	}
	if len(req.CaptchaID) == 0 {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha challenge missing", ErrCaptchaFailed)
	}

	// Verify captcha first
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, req.CaptchaID, float64(req.CaptchaAngle)) {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrCaptchaFailed)
	}

	// Lookup admin
	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		_ = recordAuditFailure(ctx, af.auditRepo, &admin.ID, models.AuditActionAdminLoginFailed,
			fmt.Sprintf("Failed login for %q", admin.Username), metadata)
		return nil, NewBusinessError("ADMIN_INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	// Generate admin tokens
	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := af.adminRepo.TouchLastLogin(ctx, admin.ID); err != nil {
		// Login still succeeds when the timestamp write fails
		_ = err
	}

	_ = recordAudit(ctx, af.auditRepo, &admin.ID, models.AuditActionAdminLoginSuccess,
		fmt.Sprintf("Admin %q logged in", admin.Username), metadata, nil)

	return &dto.AdminLoginResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
		Admin: dto.AdminInfo{
			ID:          admin.ID,
			UUID:        admin.UUID.String(),
			Username:    admin.Username,
			IsActive:    admin.IsActive,
			LastLoginAt: admin.LastLoginAt,
		},
	}, nil
}

func (af *AdminAuthFlowImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || req.RefreshToken == "" {
		return nil, NewBusinessError("ADMIN_REFRESH_VALIDATION_FAILED", "Refresh token is required", ErrAdminNotFound)
	}

	accessToken, refreshToken, err := af.tokenService.RefreshAdminToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	claims, err := af.tokenService.ValidateAdminToken(accessToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to validate refreshed token", err)
	}
	admin, err := af.adminRepo.ByID(ctx, claims.AdminID)
	if err != nil || admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	return &dto.AdminLoginResponse{
		Message:      "Token refreshed",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
		Admin: dto.AdminInfo{
			ID:          admin.ID,
			UUID:        admin.UUID.String(),
			Username:    admin.Username,
			IsActive:    admin.IsActive,
			LastLoginAt: admin.LastLoginAt,
		},
	}, nil
}
