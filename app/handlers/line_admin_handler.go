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

// AdminLineHandlerInterface defines the contract for admin line handlers
type AdminLineHandlerInterface interface {
	ListLines(c fiber.Ctx) error
	UpdateBatch(c fiber.Ctx) error
	ExportXLSX(c fiber.Ctx) error
	StartIntake(c fiber.Ctx) error
	Scan(c fiber.Ctx) error
	UndoScan(c fiber.Ctx) error
	ResetIntake(c fiber.Ctx) error
	CommitIntake(c fiber.Ctx) error
}

// AdminLineHandler implements AdminLineHandlerInterface
type AdminLineHandler struct {
	flow      businessflow.AdminLineFlow
	validator *validator.Validate
}

func NewAdminLineHandler(flow businessflow.AdminLineFlow) AdminLineHandlerInterface {
	return &AdminLineHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *AdminLineHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *AdminLineHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListLines returns the filtered line inventory
// @Summary List lines
// @Description List SIM lines with multi-field filtering and pagination
// @Tags Admin Lines
// @Produce json
// @Param application_id query int false "Filter by application"
// @Param phone_number_prefix query string false "Phone number prefix"
// @Param iccid query string false "Exact ICCID"
// @Param has_iccid query bool false "Only lines with/without an ICCID"
// @Param status query string false "Line status"
// @Success 200 {object} dto.APIResponse{data=dto.ListLinesResponse} "Lines retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filters"
// @Security BearerAuth
// @Router /api/v1/admin/lines [get]
func (h *AdminLineHandler) ListLines(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.ListLinesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListLines(h.createRequestContext(c, "/api/v1/admin/lines"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidLineStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid line status", "LINE_STATUS_INVALID", nil)
		}
		log.Println("List lines failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list lines", "LINE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// UpdateBatch saves the screen's pending edits in one request
// @Summary Batch update lines
// @Description Apply pending per-line field edits; each item carries only the changed fields. The batch is reported all-or-nothing: on failure nothing is acknowledged and the client retries with the same payload.
// @Tags Admin Lines
// @Accept json
// @Produce json
// @Param request body dto.BatchUpdateLinesRequest true "Pending edits"
// @Success 200 {object} dto.APIResponse{data=dto.BatchUpdateLinesResponse} "Lines updated"
// @Failure 400 {object} dto.APIResponse "Invalid fields"
// @Failure 502 {object} dto.APIResponse "One or more updates failed"
// @Security BearerAuth
// @Router /api/v1/admin/lines/batch [put]
func (h *AdminLineHandler) UpdateBatch(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)

	var req dto.BatchUpdateLinesRequest
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
	result, err := h.flow.UpdateBatch(h.createRequestContext(c, "/api/v1/admin/lines/batch"), &req, adminID, metadata)
	if err != nil {
		if businessflow.IsUnknownLineField(err) || businessflow.IsInvalidLineStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "LINE_UPDATE_VALIDATION_FAILED", nil)
		}
		if businessflow.IsBatchCommitFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "One or more updates failed; pending edits were kept", "BATCH_COMMIT_FAILED", nil)
		}
		log.Println("Batch line update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lines", "LINE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportXLSX streams the filtered inventory as a spreadsheet
// @Summary Export lines
// @Description Export the filtered line inventory as an XLSX file
// @Tags Admin Lines
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "XLSX export"
// @Security BearerAuth
// @Router /api/v1/admin/lines/export [get]
func (h *AdminLineHandler) ExportXLSX(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.ListLinesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	data, filename, err := h.flow.ExportXLSX(h.createRequestContext(c, "/api/v1/admin/lines/export"), &req, metadata)
	if err != nil {
		log.Println("Line export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export lines", "LINE_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// StartIntake opens an ICCID intake session
// @Summary Start ICCID intake
// @Description Open a scan session over the current candidate slots (lines without an ICCID)
// @Tags Admin Intake
// @Accept json
// @Produce json
// @Param request body dto.StartIntakeRequest true "Scanner mode and optional application filter"
// @Success 201 {object} dto.APIResponse{data=dto.StartIntakeResponse} "Session started"
// @Security BearerAuth
// @Router /api/v1/admin/lines/intake [post]
func (h *AdminLineHandler) StartIntake(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}

	var req dto.StartIntakeRequest
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
	result, err := h.flow.StartIntake(h.createRequestContext(c, "/api/v1/admin/lines/intake"), &req, metadata)
	if err != nil {
		log.Println("Start intake failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start intake session", "INTAKE_START_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// Scan submits scanner input to an intake session
// @Summary Submit scan input
// @Description Feed a scanned token (auto-enter mode) or raw characters (length-triggered mode) into the session. Rejections keep the session state untouched.
// @Tags Admin Intake
// @Accept json
// @Produce json
// @Param session_id path string true "Intake session ID"
// @Param request body dto.ScanRequest true "Scanner input"
// @Success 200 {object} dto.APIResponse{data=dto.IntakeStateResponse} "Session state"
// @Failure 404 {object} dto.APIResponse "Session not found or expired"
// @Failure 409 {object} dto.APIResponse "Scan rejected"
// @Security BearerAuth
// @Router /api/v1/admin/lines/intake/{session_id}/scan [post]
func (h *AdminLineHandler) Scan(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	sessionID := c.Params("session_id")

	var req dto.ScanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Scan(h.createRequestContext(c, "/api/v1/admin/lines/intake/scan"), sessionID, &req, metadata)
	if err != nil {
		return h.intakeError(c, err, result)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// UndoScan removes the most recent assignment of the session
// @Summary Undo last scan
// @Tags Admin Intake
// @Produce json
// @Param session_id path string true "Intake session ID"
// @Success 200 {object} dto.APIResponse{data=dto.IntakeStateResponse} "Session state"
// @Failure 404 {object} dto.APIResponse "Session not found or expired"
// @Security BearerAuth
// @Router /api/v1/admin/lines/intake/{session_id}/undo [post]
func (h *AdminLineHandler) UndoScan(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	sessionID := c.Params("session_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UndoScan(h.createRequestContext(c, "/api/v1/admin/lines/intake/undo"), sessionID, metadata)
	if err != nil {
		return h.intakeError(c, err, result)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ResetIntake clears every assignment of the session
// @Summary Reset intake session
// @Tags Admin Intake
// @Produce json
// @Param session_id path string true "Intake session ID"
// @Success 200 {object} dto.APIResponse{data=dto.IntakeStateResponse} "Session state"
// @Failure 404 {object} dto.APIResponse "Session not found or expired"
// @Security BearerAuth
// @Router /api/v1/admin/lines/intake/{session_id}/reset [post]
func (h *AdminLineHandler) ResetIntake(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	sessionID := c.Params("session_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ResetIntake(h.createRequestContext(c, "/api/v1/admin/lines/intake/reset"), sessionID, metadata)
	if err != nil {
		return h.intakeError(c, err, result)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// CommitIntake persists the session's assignments
// @Summary Commit intake session
// @Description Write every (line, ICCID) assignment as a partial update. On failure the session is kept so the commit can be retried without re-scanning.
// @Tags Admin Intake
// @Produce json
// @Param session_id path string true "Intake session ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommitIntakeResponse} "Assignments committed"
// @Failure 404 {object} dto.APIResponse "Session not found or expired"
// @Failure 409 {object} dto.APIResponse "Nothing to commit"
// @Failure 502 {object} dto.APIResponse "One or more updates failed"
// @Security BearerAuth
// @Router /api/v1/admin/lines/intake/{session_id}/commit [post]
func (h *AdminLineHandler) CommitIntake(c fiber.Ctx) error {
	if err := middleware.RequireAdminAuth(c); err != nil {
		return err
	}
	adminID, _ := middleware.GetAdminIDFromContext(c)
	sessionID := c.Params("session_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CommitIntake(h.createRequestContext(c, "/api/v1/admin/lines/intake/commit"), sessionID, adminID, metadata)
	if err != nil {
		if businessflow.IsIntakeSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Intake session not found or expired", "INTAKE_SESSION_NOT_FOUND", nil)
		}
		if businessflow.IsIntakeNoAssignments(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "No assignments to commit", "INTAKE_NO_ASSIGNMENTS", nil)
		}
		if businessflow.IsBatchCommitFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "One or more updates failed; the session was kept for retry", "BATCH_COMMIT_FAILED", nil)
		}
		log.Println("Intake commit failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to commit intake session", "INTAKE_COMMIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// intakeError maps intake rejections to responses. Scan rejections still carry
// the unchanged session state so the screen stays in sync.
func (h *AdminLineHandler) intakeError(c fiber.Ctx, err error, state *dto.IntakeStateResponse) error {
	switch {
	case businessflow.IsIntakeSessionNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Intake session not found or expired", "INTAKE_SESSION_NOT_FOUND", nil)
	case businessflow.IsIntakeExhausted(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "All slots are filled", "INTAKE_EXHAUSTED", state)
	case businessflow.IsDuplicateScan(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Token already scanned in this session", "DUPLICATE_SCAN", state)
	case businessflow.IsICCIDTaken(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "ICCID already exists on another line", "ICCID_TAKEN", state)
	default:
		log.Println("Intake operation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Intake operation failed", "INTAKE_FAILED", nil)
	}
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *AdminLineHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdminLineHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
