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

// ContractorHandlerInterface defines the contract for admin contractor handlers
type ContractorHandlerInterface interface {
	List(c fiber.Ctx) error
	Duplicates(c fiber.Ctx) error
	Merge(c fiber.Ctx) error
}

// ContractorHandler implements ContractorHandlerInterface
type ContractorHandler struct {
	flow      businessflow.ContractorFlow
	validator *validator.Validate
}

func NewContractorHandler(flow businessflow.ContractorFlow) ContractorHandlerInterface {
	return &ContractorHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *ContractorHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *ContractorHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the filtered contractor ledger
// @Summary List contractors
// @Tags Admin Contractors
// @Produce json
// @Param name query string false "Name filter"
// @Param mobile query string false "Mobile filter"
// @Param merged query bool false "Include merged records"
// @Success 200 {object} dto.APIResponse{data=dto.ListContractorsResponse} "Contractors retrieved"
// @Security BearerAuth
// @Router /api/v1/admin/contractors [get]
func (h *ContractorHandler) List(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.ListContractorsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.List(h.createRequestContext(c, "/api/v1/admin/contractors"), &req, metadata)
	if err != nil {
		log.Println("List contractors failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contractors", "CONTRACTOR_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Duplicates returns clusters of likely duplicate contractors
// @Summary List duplicate contractor clusters
// @Description Cluster unmerged contractors by normalized name and mobile
// @Tags Admin Contractors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListDuplicatesResponse} "Clusters retrieved"
// @Security BearerAuth
// @Router /api/v1/admin/contractors/duplicates [get]
func (h *ContractorHandler) Duplicates(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Duplicates(h.createRequestContext(c, "/api/v1/admin/contractors/duplicates"), metadata)
	if err != nil {
		log.Println("Contractor duplicates failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load duplicate clusters", "CONTRACTOR_DUPLICATES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Merge folds duplicate contractors into a surviving record
// @Summary Merge contractors
// @Description Reassign applications from the sources to the target and mark sources merged. Not reversible.
// @Tags Admin Contractors
// @Accept json
// @Produce json
// @Param request body dto.MergeContractorsRequest true "Merge request"
// @Success 200 {object} dto.APIResponse{data=dto.MergeContractorsResponse} "Contractors merged"
// @Failure 404 {object} dto.APIResponse "Contractor not found"
// @Failure 409 {object} dto.APIResponse "Invalid merge"
// @Security BearerAuth
// @Router /api/v1/admin/contractors/merge [post]
func (h *ContractorHandler) Merge(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	var req dto.MergeContractorsRequest
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
	result, err := h.flow.Merge(h.createRequestContext(c, "/api/v1/admin/contractors/merge"), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsContractorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contractor not found", "CONTRACTOR_NOT_FOUND", nil)
		}
		if businessflow.IsContractorAlreadyMerged(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contractor is already merged", "CONTRACTOR_ALREADY_MERGED", nil)
		}
		if businessflow.IsContractorSelfMerge(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Cannot merge a contractor into itself", "CONTRACTOR_SELF_MERGE", nil)
		}
		log.Println("Merge contractors failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to merge contractors", "CONTRACTOR_MERGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *ContractorHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, 30*time.Second)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
