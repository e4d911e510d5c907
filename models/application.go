package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the review state of a customer application
type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "draft"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCanceled  ApplicationStatus = "canceled"
)

// String returns the string representation of the status
func (s ApplicationStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusReviewing,
		ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCanceled:
		return true
	default:
		return false
	}
}

// ParseApplicationStatus converts a raw string into an ApplicationStatus
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid application status: %q", raw)
	}
	return s, nil
}

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = ApplicationStatus(v)
	case []byte:
		*s = ApplicationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ApplicationStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ApplicationStatus: %s", s)
	}
	return string(s), nil
}

// Application represents a customer's multi-step wizard submission.
// Table: applications
// Accepting an application creates RequestedLineCount lines in one transaction.
type Application struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_applications_uuid;index:idx_applications_uuid" json:"uuid"`

	ApplicantName   string  `gorm:"size:255;not null" json:"applicant_name"`
	ApplicantKana   *string `gorm:"size:255" json:"applicant_kana,omitempty"`
	ApplicantEmail  string  `gorm:"size:255;not null;index:idx_applications_email" json:"applicant_email"`
	ApplicantMobile string  `gorm:"size:20;not null;index:idx_applications_mobile" json:"applicant_mobile"`

	PlanCode           string `gorm:"size:50;not null" json:"plan_code"`
	RequestedLineCount int    `gorm:"not null" json:"requested_line_count"`

	ContractorID *uint   `gorm:"index:idx_applications_contractor_id" json:"contractor_id,omitempty"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`

	Status ApplicationStatus `gorm:"size:20;not null;default:'submitted';index:idx_applications_status" json:"status"`

	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_applications_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// IsTerminal reports whether the application can no longer change state
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusAccepted ||
		a.Status == ApplicationStatusRejected ||
		a.Status == ApplicationStatusCanceled
}

// ApplicationFilter represents filter criteria for application queries
type ApplicationFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	ApplicantEmail  *string
	ApplicantMobile *string
	PlanCode        *string
	ContractorID    *uint
	Status          *ApplicationStatus
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
