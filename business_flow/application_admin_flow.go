// Package businessflow contains the core business logic and use cases for back-office application review
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
	"gorm.io/gorm"
)

// AdminApplicationFlow handles admin review of applications: listing,
// accept/reject decisions, and the bulk save of pending field edits.
type AdminApplicationFlow interface {
	List(ctx context.Context, req *dto.ListApplicationsRequest, metadata *ClientMetadata) (*dto.ListApplicationsResponse, error)
	Accept(ctx context.Context, applicationID uint, adminID uint, metadata *ClientMetadata) (*dto.AcceptApplicationResponse, error)
	Reject(ctx context.Context, applicationID uint, req *dto.RejectApplicationRequest, adminID uint, metadata *ClientMetadata) (*dto.ApplicationDTO, error)
	UpdateBatch(ctx context.Context, req *dto.BatchUpdateApplicationsRequest, adminID uint, metadata *ClientMetadata) (*dto.BatchUpdateApplicationsResponse, error)
}

type AdminApplicationFlowImpl struct {
	appRepo         repository.ApplicationRepository
	lineRepo        repository.LineRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	dispatcher      *BatchCommitDispatcher
	db              *gorm.DB
}

func NewAdminApplicationFlow(
	appRepo repository.ApplicationRepository,
	lineRepo repository.LineRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	dispatcher *BatchCommitDispatcher,
	db *gorm.DB,
) AdminApplicationFlow {
	return &AdminApplicationFlowImpl{
		appRepo:         appRepo,
		lineRepo:        lineRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		dispatcher:      dispatcher,
		db:              db,
	}
}

func (f *AdminApplicationFlowImpl) List(ctx context.Context, req *dto.ListApplicationsRequest, metadata *ClientMetadata) (*dto.ListApplicationsResponse, error) {
	filter := models.ApplicationFilter{}
	page, limit := 1, 50
	if req != nil {
		if req.Status != nil {
			status, err := models.ParseApplicationStatus(*req.Status)
			if err != nil {
				return nil, NewBusinessError("APPLICATION_STATUS_INVALID", fmt.Sprintf("Unknown status %q", *req.Status), err)
			}
			filter.Status = &status
		}
		filter.ContractorID = req.ContractorID
		if req.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*req.Email))
			filter.ApplicantEmail = &email
		}
		if req.Page > 0 {
			page = req.Page
		}
		if req.Limit > 0 {
			limit = req.Limit
		}
	}

	total, err := f.appRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to count applications", err)
	}
	apps, err := f.appRepo.ByFilter(ctx, filter, "id DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to list applications", err)
	}

	items := make([]dto.ApplicationDTO, 0, len(apps))
	for _, app := range apps {
		items = append(items, ToApplicationDTO(*app))
	}
	return &dto.ListApplicationsResponse{
		Message: "Applications retrieved successfully",
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// Accept moves a submitted application to accepted and creates its requested
// line slots. Status change and line creation happen in one transaction so a
// failure leaves neither behind.
func (f *AdminApplicationFlowImpl) Accept(ctx context.Context, applicationID uint, adminID uint, metadata *ClientMetadata) (*dto.AcceptApplicationResponse, error) {
	app, err := f.appRepo.ByID(ctx, applicationID)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to load application", err)
	}
	if app == nil {
		return nil, NewBusinessError("APPLICATION_NOT_FOUND", "Application not found", ErrApplicationNotFound)
	}
	if app.IsTerminal() {
		return nil, NewBusinessError("APPLICATION_NOT_EDITABLE", "Application is already decided", ErrApplicationNotEditable)
	}

	var created []*models.Line
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		now := utils.UTCNow()
		app.Status = models.ApplicationStatusAccepted
		app.AcceptedAt = &now
		app.UpdatedAt = now
		if err := f.appRepo.Save(txCtx, app); err != nil {
			return err
		}

		created = make([]*models.Line, 0, app.RequestedLineCount)
		for i := 0; i < app.RequestedLineCount; i++ {
			created = append(created, &models.Line{
				UUID:          uuid.New(),
				ApplicationID: app.ID,
				Status:        models.LineStatusNotOpened,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
		return f.lineRepo.SaveBatch(txCtx, created)
	})
	if err != nil {
		return nil, NewBusinessError("APPLICATION_ACCEPT_FAILED", "Failed to accept application", err)
	}

	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionApplicationAccepted,
		fmt.Sprintf("Application %d accepted, %d lines created", app.ID, len(created)), metadata,
		map[string]any{"application_id": app.ID, "created_lines": len(created)})

	if err := f.notificationSvc.SendEmail(app.ApplicantEmail, "Application accepted",
		fmt.Sprintf("Your application %s was accepted.", app.UUID)); err != nil {
		_ = err
	}

	lineDTOs := make([]dto.LineDTO, 0, len(created))
	for _, line := range created {
		lineDTOs = append(lineDTOs, ToLineDTO(*line))
	}
	return &dto.AcceptApplicationResponse{
		Message:      "Application accepted successfully",
		Application:  ToApplicationDTO(*app),
		CreatedLines: lineDTOs,
	}, nil
}

// Reject moves an application to rejected with an optional reason
func (f *AdminApplicationFlowImpl) Reject(ctx context.Context, applicationID uint, req *dto.RejectApplicationRequest, adminID uint, metadata *ClientMetadata) (*dto.ApplicationDTO, error) {
	app, err := f.appRepo.ByID(ctx, applicationID)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to load application", err)
	}
	if app == nil {
		return nil, NewBusinessError("APPLICATION_NOT_FOUND", "Application not found", ErrApplicationNotFound)
	}
	if app.IsTerminal() {
		return nil, NewBusinessError("APPLICATION_NOT_EDITABLE", "Application is already decided", ErrApplicationNotEditable)
	}

	now := utils.UTCNow()
	app.Status = models.ApplicationStatusRejected
	app.RejectedAt = &now
	app.UpdatedAt = now
	if req != nil && req.Reason != nil {
		app.Notes = req.Reason
	}
	if err := f.appRepo.Save(ctx, app); err != nil {
		return nil, NewBusinessError("APPLICATION_REJECT_FAILED", "Failed to reject application", err)
	}

	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionApplicationRejected,
		fmt.Sprintf("Application %d rejected", app.ID), metadata, map[string]any{"application_id": app.ID})

	if err := f.notificationSvc.SendEmail(app.ApplicantEmail, "Application update",
		fmt.Sprintf("Your application %s could not be accepted.", app.UUID)); err != nil {
		_ = err
	}

	result := ToApplicationDTO(*app)
	return &result, nil
}

// UpdateBatch flushes pending application edits the same way line edits are
// flushed: one partial update per application, all dispatched concurrently,
// reported all-or-nothing.
func (f *AdminApplicationFlowImpl) UpdateBatch(ctx context.Context, req *dto.BatchUpdateApplicationsRequest, adminID uint, metadata *ClientMetadata) (*dto.BatchUpdateApplicationsResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return &dto.BatchUpdateApplicationsResponse{Message: "Nothing to update", UpdatedCount: 0}, nil
	}

	overlay := NewEditOverlay()
	for _, item := range req.Items {
		if item.ID == 0 {
			return nil, NewBusinessError("APPLICATION_UPDATE_VALIDATION_FAILED", "Application ID is required", ErrApplicationNotFound)
		}
		for field, value := range item.Fields {
			column, normalized, err := normalizeApplicationField(field, value)
			if err != nil {
				return nil, err
			}
			overlay.SetField(item.ID, column, normalized)
		}
	}

	count, err := overlay.CommitAll(ctx, f.dispatcher, f.appRepo.UpdateFields)
	if err != nil {
		_ = recordAuditFailure(ctx, f.auditRepo, &adminID, models.AuditActionApplicationsBatchEdit,
			fmt.Sprintf("Batch update of %d applications failed", len(req.Items)), metadata)
		return nil, err
	}

	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionApplicationsBatchEdit,
		fmt.Sprintf("Batch updated %d applications", count), metadata, map[string]any{"updated_count": count})

	return &dto.BatchUpdateApplicationsResponse{
		Message:      "Applications updated successfully",
		UpdatedCount: count,
	}, nil
}

// applicationUpdatableColumns whitelists the JSON field names the batch save
// accepts for applications.
var applicationUpdatableColumns = map[string]string{
	"applicant_name":   "applicant_name",
	"applicant_kana":   "applicant_kana",
	"applicant_email":  "applicant_email",
	"applicant_mobile": "applicant_mobile",
	"plan_code":        "plan_code",
	"contractor_id":    "contractor_id",
	"notes":            "notes",
	"status":           "status",
}

func normalizeApplicationField(field string, value any) (string, any, error) {
	column, ok := applicationUpdatableColumns[field]
	if !ok {
		return "", nil, NewBusinessError("APPLICATION_FIELD_UNKNOWN", fmt.Sprintf("Field %q cannot be updated", field), ErrApplicationNotEditable)
	}

	if value == nil {
		switch column {
		case "applicant_kana", "contractor_id", "notes":
			return column, nil, nil
		default:
			return "", nil, NewBusinessError("APPLICATION_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q cannot be cleared", field), ErrApplicationNotEditable)
		}
	}

	switch column {
	case "applicant_name", "applicant_kana", "applicant_email", "applicant_mobile", "plan_code", "notes":
		s, ok := value.(string)
		if !ok {
			return "", nil, NewBusinessError("APPLICATION_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q must be a string", field), ErrApplicationNotEditable)
		}
		s = strings.TrimSpace(s)
		if s == "" && (column == "applicant_name" || column == "applicant_email" || column == "applicant_mobile" || column == "plan_code") {
			return "", nil, NewBusinessError("APPLICATION_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q cannot be empty", field), ErrApplicationNotEditable)
		}
		return column, s, nil

	case "contractor_id":
		n, ok := value.(float64)
		if !ok || n < 1 || n != float64(uint(n)) {
			return "", nil, NewBusinessError("APPLICATION_FIELD_TYPE_INVALID", "Field \"contractor_id\" must be a positive integer", ErrApplicationNotEditable)
		}
		return column, uint(n), nil

	case "status":
		s, ok := value.(string)
		if !ok {
			return "", nil, NewBusinessError("APPLICATION_STATUS_INVALID", "Status must be a string", ErrApplicationNotEditable)
		}
		status, err := models.ParseApplicationStatus(s)
		if err != nil {
			return "", nil, NewBusinessError("APPLICATION_STATUS_INVALID", fmt.Sprintf("Unknown status %q", s), err)
		}
		return column, string(status), nil
	}

	return column, value, nil
}
