// Package businessflow contains the business logic for the back office.
package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToLineDTO converts a line model to LineDTO for API responses
func ToLineDTO(line models.Line) dto.LineDTO {
	d := dto.LineDTO{
		ID:            line.ID,
		UUID:          line.UUID.String(),
		ApplicationID: line.ApplicationID,
		PhoneNumber:   line.PhoneNumber,
		ICCID:         line.ICCID,
		Status:        string(line.Status),
		CreatedAt:     line.CreatedAt,
		UpdatedAt:     line.UpdatedAt,
	}
	d.SimLocationTagID = line.SimLocationTagID
	d.SpareTagID = line.SpareTagID
	if line.ShipmentDate != nil {
		d.ShipmentDate = formatDatePtr(line.ShipmentDate)
	}
	if line.ReturnDate != nil {
		d.ReturnDate = formatDatePtr(line.ReturnDate)
	}
	return d
}

// ToApplicationDTO converts an application model to ApplicationDTO for API responses
func ToApplicationDTO(app models.Application) dto.ApplicationDTO {
	return dto.ApplicationDTO{
		ID:                 app.ID,
		UUID:               app.UUID.String(),
		ApplicantName:      app.ApplicantName,
		ApplicantKana:      app.ApplicantKana,
		ApplicantEmail:     app.ApplicantEmail,
		ApplicantMobile:    app.ApplicantMobile,
		PlanCode:           app.PlanCode,
		RequestedLineCount: app.RequestedLineCount,
		ContractorID:       app.ContractorID,
		Notes:              app.Notes,
		Status:             string(app.Status),
		AcceptedAt:         app.AcceptedAt,
		RejectedAt:         app.RejectedAt,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
}

// ToTagDTO converts a tag model to TagDTO for API responses
func ToTagDTO(tag models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:        tag.ID,
		UUID:      tag.UUID.String(),
		Name:      tag.Name,
		Type:      string(tag.Type),
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

// ToContractorDTO converts a contractor model to ContractorDTO for API responses
func ToContractorDTO(c models.Contractor) dto.ContractorDTO {
	return dto.ContractorDTO{
		ID:           c.ID,
		UUID:         c.UUID.String(),
		Name:         c.Name,
		Kana:         c.Kana,
		Email:        c.Email,
		Mobile:       c.Mobile,
		Address:      c.Address,
		Notes:        c.Notes,
		MergedIntoID: c.MergedIntoID,
		IsActive:     c.IsActive == nil || *c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

// recordAudit persists an audit log entry; audit failures never fail the
// surrounding flow, the caller logs and moves on.
func recordAudit(ctx context.Context, repo repository.AuditLogRepository, adminID *uint, action string, description string, metadata *ClientMetadata, details any) error {
	var detailsJSON json.RawMessage
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			detailsJSON = raw
		}
	}

	success := true
	audit := &models.AuditLog{
		AdminID:     adminID,
		Action:      action,
		Description: &description,
		Success:     &success,
		Metadata:    detailsJSON,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}
	return repo.Save(ctx, audit)
}

// recordAuditFailure persists a failed-outcome audit entry
func recordAuditFailure(ctx context.Context, repo repository.AuditLogRepository, adminID *uint, action string, description string, metadata *ClientMetadata) error {
	success := false
	audit := &models.AuditLog{
		AdminID:     adminID,
		Action:      action,
		Description: &description,
		Success:     &success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}
	return repo.Save(ctx, audit)
}
