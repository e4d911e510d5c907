// Package models contains domain entities and business models for the SIM reseller back office
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LineStatus represents the lifecycle state of a SIM line
type LineStatus string

const (
	LineStatusNotOpened     LineStatus = "not_opened"
	LineStatusOpened        LineStatus = "opened"
	LineStatusShipped       LineStatus = "shipped"
	LineStatusWaitingReturn LineStatus = "waiting_return"
	LineStatusReturned      LineStatus = "returned"
	LineStatusCanceled      LineStatus = "canceled"
)

// String returns the string representation of the status
func (s LineStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s LineStatus) Valid() bool {
	switch s {
	case LineStatusNotOpened, LineStatusOpened, LineStatusShipped,
		LineStatusWaitingReturn, LineStatusReturned, LineStatusCanceled:
		return true
	default:
		return false
	}
}

// ParseLineStatus converts a raw string into a LineStatus, rejecting unknown values
func ParseLineStatus(raw string) (LineStatus, error) {
	s := LineStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid line status: %q", raw)
	}
	return s, nil
}

// Scan implements the sql.Scanner interface for LineStatus
func (s *LineStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = LineStatus(v)
	case []byte:
		*s = LineStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LineStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for LineStatus
func (s LineStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid LineStatus: %s", s)
	}
	return string(s), nil
}

// Line represents one physical SIM/phone-number slot tied to an application.
// Table: lines
// ICCID is globally unique among lines when present (partial unique index).
// Lines are created in bulk when an application is accepted and are mutated
// through partial field updates only; deletion is an administrative action
// outside the application core.
type Line struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_lines_uuid;index:idx_lines_uuid" json:"uuid"`

	ApplicationID uint `gorm:"not null;index:idx_lines_application_id" json:"application_id"`

	PhoneNumber      *string    `gorm:"size:20;index:idx_lines_phone_number" json:"phone_number,omitempty"`
	ICCID            *string    `gorm:"column:iccid;size:22;uniqueIndex:uk_lines_iccid,where:iccid IS NOT NULL" json:"iccid,omitempty"`
	SimLocationTagID *uint      `gorm:"index:idx_lines_sim_location_tag_id" json:"sim_location_tag_id,omitempty"`
	SpareTagID       *uint      `gorm:"index:idx_lines_spare_tag_id" json:"spare_tag_id,omitempty"`
	ShipmentDate     *time.Time `json:"shipment_date,omitempty"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`

	Status LineStatus `gorm:"size:20;not null;default:'not_opened';index:idx_lines_status" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_lines_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Line) TableName() string {
	return "lines"
}

// HasICCID reports whether the line already carries a SIM serial
func (l *Line) HasICCID() bool {
	return l.ICCID != nil && *l.ICCID != ""
}

// LineFilter represents filter criteria for line queries.
// Supports the admin screen's multi-field filtering.
type LineFilter struct {
	ID                *uint
	UUID              *uuid.UUID
	ApplicationID     *uint
	PhoneNumber       *string
	PhoneNumberPrefix *string
	ICCID             *string
	HasICCID          *bool
	SimLocationTagID  *uint
	SpareTagID        *uint
	Status            *LineStatus
	ShippedAfter      *time.Time
	ShippedBefore     *time.Time
	CreatedAfter      *time.Time
	CreatedBefore     *time.Time
}
