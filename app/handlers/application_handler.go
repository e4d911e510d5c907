// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/middleware"
	businessflow "github.com/oroshi-mobile/simdesk/business_flow"
	"github.com/oroshi-mobile/simdesk/utils"
)

// ApplicationHandlerInterface defines the contract for the public wizard handlers
type ApplicationHandlerInterface interface {
	Submit(c fiber.Ctx) error
	MyPage(c fiber.Ctx) error
}

// ApplicationHandler implements ApplicationHandlerInterface
type ApplicationHandler struct {
	flow      businessflow.ApplicationFlow
	validator *validator.Validate
}

func NewApplicationHandler(flow businessflow.ApplicationFlow) ApplicationHandlerInterface {
	return &ApplicationHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *ApplicationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *ApplicationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Submit accepts the wizard's final payload
// @Summary Submit application
// @Description Submit a new SIM application; returns the created application and a long-lived mypage token
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Application data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitApplicationResponse} "Application submitted"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /api/v1/applications [post]
func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Submit(h.createRequestContext(c, "/api/v1/applications"), &req, metadata)
	if err != nil {
		if businessflow.IsLineCountOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Requested line count is out of range", "LINE_COUNT_OUT_OF_RANGE", nil)
		}
		log.Println("Application submit failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit application", "APPLICATION_SUBMIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// MyPage returns the applicant's own application and lines
// @Summary Applicant mypage
// @Description View the application identified by the mypage token
// @Tags Applications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MyPageResponse} "Application retrieved"
// @Failure 401 {object} dto.APIResponse "Invalid or expired mypage token"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Security BearerAuth
// @Router /api/v1/mypage [get]
func (h *ApplicationHandler) MyPage(c fiber.Ctx) error {
	applicationUUID, ok := middleware.GetApplicationUUIDFromContext(c)
	if !ok || applicationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "MyPage authentication required", "MYPAGE_AUTHENTICATION_REQUIRED", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.MyPage(h.createRequestContext(c, "/api/v1/mypage"), applicationUUID, metadata)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", "APPLICATION_NOT_FOUND", nil)
		}
		log.Println("MyPage lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load application", "APPLICATION_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *ApplicationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, 30*time.Second)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
