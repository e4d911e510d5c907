// Package businessflow contains the core business logic and use cases for back-office line management
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/xuri/excelize/v2"
)

// AdminLineFlow handles admin operations on SIM lines: listing, the bulk save
// of pending edits, ICCID intake sessions, and inventory export.
type AdminLineFlow interface {
	ListLines(ctx context.Context, req *dto.ListLinesRequest, metadata *ClientMetadata) (*dto.ListLinesResponse, error)
	UpdateBatch(ctx context.Context, req *dto.BatchUpdateLinesRequest, adminID uint, metadata *ClientMetadata) (*dto.BatchUpdateLinesResponse, error)
	ExportXLSX(ctx context.Context, req *dto.ListLinesRequest, metadata *ClientMetadata) ([]byte, string, error)

	StartIntake(ctx context.Context, req *dto.StartIntakeRequest, metadata *ClientMetadata) (*dto.StartIntakeResponse, error)
	Scan(ctx context.Context, sessionID string, req *dto.ScanRequest, metadata *ClientMetadata) (*dto.IntakeStateResponse, error)
	UndoScan(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.IntakeStateResponse, error)
	ResetIntake(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.IntakeStateResponse, error)
	CommitIntake(ctx context.Context, sessionID string, adminID uint, metadata *ClientMetadata) (*dto.CommitIntakeResponse, error)
}

type AdminLineFlowImpl struct {
	lineRepo    repository.LineRepository
	auditRepo   repository.AuditLogRepository
	dispatcher  *BatchCommitDispatcher
	intake      *IntakeRegistry
	settleDelay time.Duration
}

func NewAdminLineFlow(
	lineRepo repository.LineRepository,
	auditRepo repository.AuditLogRepository,
	dispatcher *BatchCommitDispatcher,
	intake *IntakeRegistry,
	settleDelay time.Duration,
) AdminLineFlow {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &AdminLineFlowImpl{
		lineRepo:    lineRepo,
		auditRepo:   auditRepo,
		dispatcher:  dispatcher,
		intake:      intake,
		settleDelay: settleDelay,
	}
}

func (f *AdminLineFlowImpl) ListLines(ctx context.Context, req *dto.ListLinesRequest, metadata *ClientMetadata) (*dto.ListLinesResponse, error) {
	filter, err := lineFilterFromRequest(req)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}

	total, err := f.lineRepo.Count(ctx, *filter)
	if err != nil {
		return nil, NewBusinessError("LINE_LIST_FAILED", "Failed to count lines", err)
	}
	lines, err := f.lineRepo.ByFilter(ctx, *filter, "id ASC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("LINE_LIST_FAILED", "Failed to list lines", err)
	}

	items := make([]dto.LineDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, ToLineDTO(*line))
	}
	return &dto.ListLinesResponse{
		Message: "Lines retrieved successfully",
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// UpdateBatch flushes the operator's pending edits. Each item carries only the
// fields that were actually changed on screen; untouched columns are never
// written. All items are dispatched concurrently and the response reports
// success only when every one of them landed. On failure nothing is cleared
// client-side and the operator retries the same batch.
func (f *AdminLineFlowImpl) UpdateBatch(ctx context.Context, req *dto.BatchUpdateLinesRequest, adminID uint, metadata *ClientMetadata) (*dto.BatchUpdateLinesResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return &dto.BatchUpdateLinesResponse{Message: "Nothing to update", UpdatedCount: 0}, nil
	}

	overlay := NewEditOverlay()
	for _, item := range req.Items {
		if item.ID == 0 {
			return nil, NewBusinessError("LINE_UPDATE_VALIDATION_FAILED", "Line ID is required", ErrLineNotFound)
		}
		for field, value := range item.Fields {
			column, normalized, err := normalizeLineField(field, value)
			if err != nil {
				return nil, err
			}
			overlay.SetField(item.ID, column, normalized)
		}
	}

	count, err := overlay.CommitAll(ctx, f.dispatcher, f.lineRepo.UpdateFields)
	if err != nil {
		_ = recordAuditFailure(ctx, f.auditRepo, &adminID, models.AuditActionLinesBatchUpdated,
			fmt.Sprintf("Batch update of %d lines failed", len(req.Items)), metadata)
		return nil, err
	}

	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionLinesBatchUpdated,
		fmt.Sprintf("Batch updated %d lines", count), metadata, map[string]any{"updated_count": count})

	return &dto.BatchUpdateLinesResponse{
		Message:      "Lines updated successfully",
		UpdatedCount: count,
	}, nil
}

// ExportXLSX renders the filtered line inventory as a spreadsheet
func (f *AdminLineFlowImpl) ExportXLSX(ctx context.Context, req *dto.ListLinesRequest, metadata *ClientMetadata) ([]byte, string, error) {
	filter, err := lineFilterFromRequest(req)
	if err != nil {
		return nil, "", err
	}
	lines, err := f.lineRepo.ByFilter(ctx, *filter, "id ASC", 0, 0)
	if err != nil {
		return nil, "", NewBusinessError("LINE_EXPORT_FAILED", "Failed to load lines for export", err)
	}

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	const sheet = "Lines"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, "", NewBusinessError("LINE_EXPORT_FAILED", "Failed to create export sheet", err)
	}
	file.SetActiveSheet(index)
	_ = file.DeleteSheet("Sheet1")

	headers := []string{"ID", "Application ID", "Phone Number", "ICCID", "SIM Location Tag", "Spare Tag", "Shipment Date", "Return Date", "Status", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, h)
	}

	for row, line := range lines {
		values := []any{
			line.ID,
			line.ApplicationID,
			derefString(line.PhoneNumber),
			derefString(line.ICCID),
			derefUint(line.SimLocationTagID),
			derefUint(line.SpareTagID),
			formatDate(line.ShipmentDate),
			formatDate(line.ReturnDate),
			string(line.Status),
			line.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = file.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", NewBusinessError("LINE_EXPORT_FAILED", "Failed to serialize export", err)
	}
	filename := fmt.Sprintf("lines_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// StartIntake opens a new scan session. The candidate slot list (lines without
// an ICCID, in id order) and the global ICCID set are both snapshotted here;
// the session never refreshes them.
func (f *AdminLineFlowImpl) StartIntake(ctx context.Context, req *dto.StartIntakeRequest, metadata *ClientMetadata) (*dto.StartIntakeResponse, error) {
	mode := ScanMode(req.Mode)
	if !mode.Valid() {
		return nil, NewBusinessError("INTAKE_MODE_INVALID", "Unknown scanner mode", ErrIntakeSessionNotFound)
	}

	candidates, err := f.lineRepo.ListCandidateSlots(ctx, req.ApplicationID)
	if err != nil {
		return nil, NewBusinessError("INTAKE_START_FAILED", "Failed to load candidate lines", err)
	}
	existing, err := f.lineRepo.ListAssignedICCIDs(ctx)
	if err != nil {
		return nil, NewBusinessError("INTAKE_START_FAILED", "Failed to load assigned ICCIDs", err)
	}

	candidateIDs := make([]uint, 0, len(candidates))
	for _, line := range candidates {
		candidateIDs = append(candidateIDs, line.ID)
	}

	session := NewIntakeSession(mode, candidateIDs, existing)
	sessionID := f.intake.Create(session, f.settleDelay)

	return &dto.StartIntakeResponse{
		Message:        "Intake session started",
		SessionID:      sessionID,
		Mode:           string(mode),
		CandidateCount: session.CandidateCount(),
		Remaining:      session.Remaining(),
	}, nil
}

// Scan feeds scanner input into a session. Auto-enter mode submits the token
// directly; length-triggered mode pushes raw characters into the settle buffer
// (Enter forces a flush). A rejection from a timer-driven auto-submit that
// happened between requests is surfaced on the next call.
func (f *AdminLineFlowImpl) Scan(ctx context.Context, sessionID string, req *dto.ScanRequest, metadata *ClientMetadata) (*dto.IntakeStateResponse, error) {
	session, buffer, err := f.intake.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if pending := f.intake.TakeBufferError(sessionID); pending != nil {
		return f.intakeState(sessionID, session, buffer), pending
	}

	switch session.Mode() {
	case ScanModeAutoEnter:
		if err := session.SubmitToken(req.Token); err != nil {
			return f.intakeState(sessionID, session, buffer), err
		}
	case ScanModeLengthTriggered:
		if req.Chunk != "" {
			buffer.Push(req.Chunk)
		}
		if req.Enter {
			buffer.Flush()
			if pending := f.intake.TakeBufferError(sessionID); pending != nil {
				return f.intakeState(sessionID, session, buffer), pending
			}
		}
	}

	return f.intakeState(sessionID, session, buffer), nil
}

func (f *AdminLineFlowImpl) UndoScan(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.IntakeStateResponse, error) {
	session, buffer, err := f.intake.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.RemoveLast()
	return f.intakeState(sessionID, session, buffer), nil
}

func (f *AdminLineFlowImpl) ResetIntake(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.IntakeStateResponse, error) {
	session, buffer, err := f.intake.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Reset()
	return f.intakeState(sessionID, session, buffer), nil
}

// CommitIntake persists every assignment of the session as a partial ICCID
// update, one write per line. The session is dropped only when every write
// succeeded; on failure it stays alive with its assignments intact so the
// operator can retry the commit without re-scanning.
func (f *AdminLineFlowImpl) CommitIntake(ctx context.Context, sessionID string, adminID uint, metadata *ClientMetadata) (*dto.CommitIntakeResponse, error) {
	session, _, err := f.intake.Get(sessionID)
	if err != nil {
		return nil, err
	}

	assignments := session.Finalize()
	if len(assignments) == 0 {
		return nil, NewBusinessError("INTAKE_NO_ASSIGNMENTS", "No assignments to commit", ErrIntakeNoAssignments)
	}

	items := make([]CommitItem, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, CommitItem{
			EntityID: a.LineID,
			Fields:   map[string]any{"iccid": a.ICCID},
		})
	}

	count, err := f.dispatcher.Dispatch(ctx, items, f.lineRepo.UpdateFields)
	if err != nil {
		_ = recordAuditFailure(ctx, f.auditRepo, &adminID, models.AuditActionIccidIntakeCommitted,
			fmt.Sprintf("Intake commit of %d assignments failed", len(assignments)), metadata)
		return nil, err
	}

	f.intake.Drop(sessionID)
	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionIccidIntakeCommitted,
		fmt.Sprintf("Committed %d ICCID assignments", count), metadata, map[string]any{"updated_count": count})

	return &dto.CommitIntakeResponse{
		Message:      "ICCID assignments committed successfully",
		UpdatedCount: count,
	}, nil
}

func (f *AdminLineFlowImpl) intakeState(sessionID string, session *IntakeSession, buffer *ScanBuffer) *dto.IntakeStateResponse {
	assignments := session.Assignments()
	items := make([]dto.AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, dto.AssignmentDTO{LineID: a.LineID, ICCID: a.ICCID})
	}
	resp := &dto.IntakeStateResponse{
		Message:     "Intake session state",
		SessionID:   sessionID,
		Assignments: items,
		Remaining:   session.Remaining(),
		Exhausted:   session.Exhausted(),
	}
	if buffer != nil {
		resp.Buffered = buffer.Len()
	}
	return resp
}

// lineUpdatableColumns whitelists the JSON field names the batch save accepts
// and maps them to their database columns.
var lineUpdatableColumns = map[string]string{
	"phone_number":        "phone_number",
	"iccid":               "iccid",
	"sim_location_tag_id": "sim_location_tag_id",
	"spare_tag_id":        "spare_tag_id",
	"shipment_date":       "shipment_date",
	"return_date":         "return_date",
	"status":              "status",
}

// normalizeLineField validates one pending edit and coerces its JSON value to
// the column's storage type. A nil value is an explicit clear and passes
// through for every nullable column; status is not nullable.
func normalizeLineField(field string, value any) (string, any, error) {
	column, ok := lineUpdatableColumns[field]
	if !ok {
		return "", nil, NewBusinessError("LINE_FIELD_UNKNOWN", fmt.Sprintf("Field %q cannot be updated", field), ErrUnknownLineField)
	}

	if value == nil {
		if column == "status" {
			return "", nil, NewBusinessError("LINE_STATUS_INVALID", "Status cannot be cleared", ErrInvalidLineStatus)
		}
		return column, nil, nil
	}

	switch column {
	case "phone_number", "iccid":
		s, ok := value.(string)
		if !ok {
			return "", nil, NewBusinessError("LINE_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q must be a string", field), ErrUnknownLineField)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			// Empty string clears like an explicit null
			return column, nil, nil
		}
		return column, s, nil

	case "sim_location_tag_id", "spare_tag_id":
		// JSON numbers arrive as float64
		n, ok := value.(float64)
		if !ok || n < 1 || n != float64(uint(n)) {
			return "", nil, NewBusinessError("LINE_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q must be a positive integer", field), ErrUnknownLineField)
		}
		return column, uint(n), nil

	case "shipment_date", "return_date":
		s, ok := value.(string)
		if !ok {
			return "", nil, NewBusinessError("LINE_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q must be a YYYY-MM-DD string", field), ErrUnknownLineField)
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		if err != nil {
			return "", nil, NewBusinessError("LINE_FIELD_TYPE_INVALID", fmt.Sprintf("Field %q must be a YYYY-MM-DD string", field), ErrUnknownLineField)
		}
		return column, t.UTC(), nil

	case "status":
		s, ok := value.(string)
		if !ok {
			return "", nil, NewBusinessError("LINE_STATUS_INVALID", "Status must be a string", ErrInvalidLineStatus)
		}
		status, err := models.ParseLineStatus(s)
		if err != nil {
			return "", nil, NewBusinessError("LINE_STATUS_INVALID", fmt.Sprintf("Unknown status %q", s), ErrInvalidLineStatus)
		}
		return column, string(status), nil
	}

	return column, value, nil
}

func lineFilterFromRequest(req *dto.ListLinesRequest) (*models.LineFilter, error) {
	filter := &models.LineFilter{}
	if req == nil {
		return filter, nil
	}
	filter.ApplicationID = req.ApplicationID
	filter.PhoneNumberPrefix = req.PhoneNumberPrefix
	filter.ICCID = req.ICCID
	filter.HasICCID = req.HasICCID
	filter.SimLocationTagID = req.SimLocationTagID
	filter.SpareTagID = req.SpareTagID
	if req.Status != nil {
		status, err := models.ParseLineStatus(*req.Status)
		if err != nil {
			return nil, NewBusinessError("LINE_STATUS_INVALID", fmt.Sprintf("Unknown status %q", *req.Status), ErrInvalidLineStatus)
		}
		filter.Status = &status
	}
	return filter, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefUint(p *uint) any {
	if p == nil {
		return ""
	}
	return *p
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
