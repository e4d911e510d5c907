// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// AdminAuthenticate validates admin JWT tokens and sets admin-specific context values
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return errResp
		}

		adminClaims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Locals("admin_id", adminClaims.AdminID)
		c.Locals("token_id", adminClaims.TokenID)
		c.Locals("token_claims", adminClaims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// MyPageAuthenticate validates applicant mypage tokens. The token is scoped to
// one application UUID; handlers read the UUID from context and never accept
// an identifier from the request itself.
func (m *AuthMiddleware) MyPageAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateMyPageToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Locals("application_uuid", claims.ApplicationUUID)
		c.Locals("token_id", claims.TokenID)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// bearerToken extracts the bearer token or returns the error response to send
func bearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
		})
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
		})
	}
	return token, nil
}

func tokenErrorResponse(c fiber.Ctx, err error) error {
	var code, msg string
	if errors.Is(err, services.ErrTokenExpired) {
		code = "TOKEN_EXPIRED"
		msg = "Access token has expired"
	} else if errors.Is(err, services.ErrTokenInvalid) {
		code = "TOKEN_INVALID"
		msg = "Invalid access token"
	} else {
		code = "TOKEN_VALIDATION_FAILED"
		msg = "Token validation failed"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{Success: false, Message: msg, Error: dto.ErrorDetail{Code: code}})
}

// GetAdminIDFromContext extracts admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals("admin_id").(uint)
	return adminID, ok
}

// GetApplicationUUIDFromContext extracts the mypage token's application UUID
func GetApplicationUUIDFromContext(c fiber.Ctx) (string, bool) {
	applicationUUID, ok := c.Locals("application_uuid").(string)
	return applicationUUID, ok
}

// RequireAdminAuth ensures admin authentication is present
func RequireAdminAuth(c fiber.Ctx) error {
	adminID, exists := GetAdminIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Admin authentication required",
			Error:   dto.ErrorDetail{Code: "ADMIN_AUTHENTICATION_REQUIRED"},
		})
	}
	if adminID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid admin ID",
			Error:   dto.ErrorDetail{Code: "INVALID_ADMIN_ID"},
		})
	}
	return nil
}
