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

// TagHandlerInterface defines the contract for admin tag handlers
type TagHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// TagHandler implements TagHandlerInterface
type TagHandler struct {
	flow      businessflow.TagFlow
	validator *validator.Validate
}

func NewTagHandler(flow businessflow.TagFlow) TagHandlerInterface {
	return &TagHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *TagHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *TagHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create adds a new tag
// @Summary Create tag
// @Description Create a sim-location or spare tag; names are unique per type
// @Tags Admin Tags
// @Accept json
// @Produce json
// @Param request body dto.CreateTagRequest true "Tag data"
// @Success 201 {object} dto.APIResponse{data=dto.TagDTO} "Tag created"
// @Failure 409 {object} dto.APIResponse "Tag already exists"
// @Security BearerAuth
// @Router /api/v1/admin/tags [post]
func (h *TagHandler) Create(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	var req dto.CreateTagRequest
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
	result, err := h.flow.Create(h.createRequestContext(c, "/api/v1/admin/tags"), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsTagAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Tag already exists for this type", "TAG_EXISTS", nil)
		}
		if businessflow.IsTagTypeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag type", "TAG_TYPE_INVALID", nil)
		}
		log.Println("Create tag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create tag", "TAG_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Tag created successfully", result)
}

// Update renames a tag
// @Summary Rename tag
// @Tags Admin Tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param request body dto.UpdateTagRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.TagDTO} "Tag updated"
// @Failure 404 {object} dto.APIResponse "Tag not found"
// @Failure 409 {object} dto.APIResponse "Tag already exists"
// @Security BearerAuth
// @Router /api/v1/admin/tags/{id} [put]
func (h *TagHandler) Update(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	tagID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || tagID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateTagRequest
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
	result, err := h.flow.Update(h.createRequestContext(c, "/api/v1/admin/tags"), uint(tagID), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}
		if businessflow.IsTagAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Tag already exists for this type", "TAG_EXISTS", nil)
		}
		log.Println("Update tag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tag", "TAG_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tag updated successfully", result)
}

// List returns tags, optionally filtered by type
// @Summary List tags
// @Tags Admin Tags
// @Produce json
// @Param type query string false "Tag type (sim_location or spare)"
// @Success 200 {object} dto.APIResponse{data=dto.ListTagsResponse} "Tags retrieved"
// @Security BearerAuth
// @Router /api/v1/admin/tags [get]
func (h *TagHandler) List(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.ListTagsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.List(h.createRequestContext(c, "/api/v1/admin/tags"), &req, metadata)
	if err != nil {
		if businessflow.IsTagTypeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag type", "TAG_TYPE_INVALID", nil)
		}
		log.Println("List tags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", "TAG_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *TagHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, 30*time.Second)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
