// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/middleware"
	businessflow "github.com/oroshi-mobile/simdesk/business_flow"
	"github.com/oroshi-mobile/simdesk/utils"
)

// AdminApplicationHandlerInterface defines the contract for admin application handlers
type AdminApplicationHandlerInterface interface {
	List(c fiber.Ctx) error
	Accept(c fiber.Ctx) error
	Reject(c fiber.Ctx) error
	UpdateBatch(c fiber.Ctx) error
}

// AdminApplicationHandler implements AdminApplicationHandlerInterface
type AdminApplicationHandler struct {
	flow      businessflow.AdminApplicationFlow
	validator *validator.Validate
}

func NewAdminApplicationHandler(flow businessflow.AdminApplicationFlow) AdminApplicationHandlerInterface {
	return &AdminApplicationHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *AdminApplicationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *AdminApplicationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the filtered application queue
// @Summary List applications
// @Tags Admin Applications
// @Produce json
// @Param status query string false "Application status"
// @Param contractor_id query int false "Filter by contractor"
// @Param email query string false "Applicant email"
// @Success 200 {object} dto.APIResponse{data=dto.ListApplicationsResponse} "Applications retrieved"
// @Security BearerAuth
// @Router /api/v1/admin/applications [get]
func (h *AdminApplicationHandler) List(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.ListApplicationsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.List(h.createRequestContext(c, "/api/v1/admin/applications"), &req, metadata)
	if err != nil {
		log.Println("List applications failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list applications", "APPLICATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Accept approves an application and creates its line slots
// @Summary Accept application
// @Description Move a submitted application to accepted and create its requested lines in one transaction
// @Tags Admin Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.AcceptApplicationResponse} "Application accepted"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Failure 409 {object} dto.APIResponse "Application already decided"
// @Security BearerAuth
// @Router /api/v1/admin/applications/{id}/accept [post]
func (h *AdminApplicationHandler) Accept(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	applicationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || applicationID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid application ID", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Accept(h.createRequestContext(c, "/api/v1/admin/applications/accept"), uint(applicationID), adminID, metadata)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", "APPLICATION_NOT_FOUND", nil)
		}
		if businessflow.IsApplicationNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Application is already decided", "APPLICATION_NOT_EDITABLE", nil)
		}
		log.Println("Accept application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to accept application", "APPLICATION_ACCEPT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Reject declines an application
// @Summary Reject application
// @Tags Admin Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body dto.RejectApplicationRequest false "Optional reason"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application rejected"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Failure 409 {object} dto.APIResponse "Application already decided"
// @Security BearerAuth
// @Router /api/v1/admin/applications/{id}/reject [post]
func (h *AdminApplicationHandler) Reject(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	applicationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || applicationID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid application ID", "INVALID_REQUEST", nil)
	}

	var req dto.RejectApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Reject(h.createRequestContext(c, "/api/v1/admin/applications/reject"), uint(applicationID), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", "APPLICATION_NOT_FOUND", nil)
		}
		if businessflow.IsApplicationNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Application is already decided", "APPLICATION_NOT_EDITABLE", nil)
		}
		log.Println("Reject application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reject application", "APPLICATION_REJECT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Application rejected successfully", result)
}

// UpdateBatch saves the queue screen's pending edits in one request
// @Summary Batch update applications
// @Description Apply pending per-application field edits; reported all-or-nothing like line updates
// @Tags Admin Applications
// @Accept json
// @Produce json
// @Param request body dto.BatchUpdateApplicationsRequest true "Pending edits"
// @Success 200 {object} dto.APIResponse{data=dto.BatchUpdateApplicationsResponse} "Applications updated"
// @Failure 400 {object} dto.APIResponse "Invalid fields"
// @Failure 502 {object} dto.APIResponse "One or more updates failed"
// @Security BearerAuth
// @Router /api/v1/admin/applications/batch [put]
func (h *AdminApplicationHandler) UpdateBatch(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	var req dto.BatchUpdateApplicationsRequest
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
	result, err := h.flow.UpdateBatch(h.createRequestContext(c, "/api/v1/admin/applications/batch"), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsBatchCommitFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "One or more updates failed; pending edits were kept", "BATCH_COMMIT_FAILED", nil)
		}
		if businessflow.IsApplicationNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "APPLICATION_UPDATE_VALIDATION_FAILED", nil)
		}
		log.Println("Batch application update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update applications", "APPLICATION_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *AdminApplicationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, 30*time.Second)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
