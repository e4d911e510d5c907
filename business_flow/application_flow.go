// Package businessflow contains the core business logic and use cases for the public application wizard
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
)

// MaxRequestedLines bounds how many lines one application can request
const MaxRequestedLines = 50

// ApplicationFlow handles the applicant-facing surface: the wizard's final
// submission and the mypage view reachable through a long-lived token.
type ApplicationFlow interface {
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest, metadata *ClientMetadata) (*dto.SubmitApplicationResponse, error)
	MyPage(ctx context.Context, applicationUUID string, metadata *ClientMetadata) (*dto.MyPageResponse, error)
}

type ApplicationFlowImpl struct {
	appRepo         repository.ApplicationRepository
	lineRepo        repository.LineRepository
	auditRepo       repository.AuditLogRepository
	tokenService    services.TokenService
	notificationSvc services.NotificationService
}

func NewApplicationFlow(
	appRepo repository.ApplicationRepository,
	lineRepo repository.LineRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
) ApplicationFlow {
	return &ApplicationFlowImpl{
		appRepo:         appRepo,
		lineRepo:        lineRepo,
		auditRepo:       auditRepo,
		tokenService:    tokenService,
		notificationSvc: notificationSvc,
	}
}

// Submit persists the wizard's final payload as a submitted application and
// returns the mypage token the applicant uses to check progress.
func (f *ApplicationFlowImpl) Submit(ctx context.Context, req *dto.SubmitApplicationRequest, metadata *ClientMetadata) (*dto.SubmitApplicationResponse, error) {
	if req == nil {
		return nil, NewBusinessError("APPLICATION_VALIDATION_FAILED", "Submission payload is required", ErrApplicantNameRequired)
	}

	name := utils.NormalizeSpaces(req.ApplicantName)
	if name == "" {
		return nil, NewBusinessError("APPLICANT_NAME_REQUIRED", "Applicant name is required", ErrApplicantNameRequired)
	}
	email := strings.TrimSpace(strings.ToLower(req.ApplicantEmail))
	mobile := utils.NormalizeMobile(req.ApplicantMobile)
	if email == "" || mobile == "" {
		return nil, NewBusinessError("APPLICANT_CONTACT_REQUIRED", "Applicant email and mobile are required", ErrApplicantContactRequired)
	}
	planCode := strings.TrimSpace(req.PlanCode)
	if planCode == "" {
		return nil, NewBusinessError("PLAN_CODE_REQUIRED", "Plan code is required", ErrPlanCodeRequired)
	}
	if req.RequestedLineCount < 1 || req.RequestedLineCount > MaxRequestedLines {
		return nil, NewBusinessError("LINE_COUNT_OUT_OF_RANGE",
			fmt.Sprintf("Requested line count must be between 1 and %d", MaxRequestedLines), ErrLineCountOutOfRange)
	}

	app := models.Application{
		UUID:               uuid.New(),
		ApplicantName:      name,
		ApplicantKana:      req.ApplicantKana,
		ApplicantEmail:     email,
		ApplicantMobile:    mobile,
		PlanCode:           planCode,
		RequestedLineCount: req.RequestedLineCount,
		Notes:              req.Notes,
		Status:             models.ApplicationStatusSubmitted,
		CreatedAt:          utils.UTCNow(),
		UpdatedAt:          utils.UTCNow(),
	}
	if err := f.appRepo.Save(ctx, &app); err != nil {
		return nil, NewBusinessError("APPLICATION_SUBMIT_FAILED", "Failed to save application", err)
	}

	token, err := f.tokenService.GenerateMyPageToken(app.UUID.String())
	if err != nil {
		return nil, NewBusinessError("APPLICATION_SUBMIT_FAILED", "Failed to issue mypage token", err)
	}

	_ = recordAudit(ctx, f.auditRepo, nil, models.AuditActionApplicationSubmitted,
		fmt.Sprintf("Application %s submitted for %d lines", app.UUID, app.RequestedLineCount), metadata,
		map[string]any{"application_id": app.ID, "plan_code": app.PlanCode})

	if err := f.notificationSvc.SendEmail(app.ApplicantEmail, "Application received",
		fmt.Sprintf("Your application for %d lines was received. Reference: %s", app.RequestedLineCount, app.UUID)); err != nil {
		// Notification failures never fail the submission
		_ = err
	}

	appDTO := ToApplicationDTO(app)
	return &dto.SubmitApplicationResponse{
		Message:     "Application submitted successfully",
		Application: appDTO,
		MyPageToken: token,
	}, nil
}

// MyPage returns the applicant's own application and its lines. The caller is
// authenticated by a mypage token scoped to exactly one application UUID.
func (f *ApplicationFlowImpl) MyPage(ctx context.Context, applicationUUID string, metadata *ClientMetadata) (*dto.MyPageResponse, error) {
	app, err := f.appRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to load application", err)
	}
	if app == nil {
		return nil, NewBusinessError("APPLICATION_NOT_FOUND", "Application not found", ErrApplicationNotFound)
	}

	lines, err := f.lineRepo.ByFilter(ctx, models.LineFilter{ApplicationID: &app.ID}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to load lines", err)
	}

	lineDTOs := make([]dto.LineDTO, 0, len(lines))
	for _, line := range lines {
		lineDTOs = append(lineDTOs, ToLineDTO(*line))
	}

	return &dto.MyPageResponse{
		Message:     "Application retrieved successfully",
		Application: ToApplicationDTO(*app),
		Lines:       lineDTOs,
	}, nil
}
