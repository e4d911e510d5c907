package models

import (
	"time"

	"github.com/google/uuid"
)

// Contractor represents a carrier-contract record owned by the reseller.
// Table: contractors
// Multiple intake channels produce near-duplicate rows; the admin back office
// detects duplicates by normalized name + mobile and merges them, reassigning
// applications to the canonical record and deactivating the duplicate.
type Contractor struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_contractors_uuid;index:idx_contractors_uuid" json:"uuid"`

	Name   string  `gorm:"size:255;not null;index:idx_contractors_name" json:"name"`
	Kana   *string `gorm:"size:255" json:"kana,omitempty"`
	Email  *string `gorm:"size:255;index:idx_contractors_email" json:"email,omitempty"`
	Mobile string  `gorm:"size:20;not null;index:idx_contractors_mobile" json:"mobile"`

	Address *string `gorm:"size:500" json:"address,omitempty"`
	Notes   *string `gorm:"type:text" json:"notes,omitempty"`

	// MergedIntoID points at the canonical contractor after a merge
	MergedIntoID *uint `gorm:"index:idx_contractors_merged_into_id" json:"merged_into_id,omitempty"`

	IsActive  *bool     `gorm:"default:true;index:idx_contractors_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_contractors_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Contractor) TableName() string {
	return "contractors"
}

// ContractorFilter represents filter criteria for contractor queries
type ContractorFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	Email         *string
	Mobile        *string
	IsActive      *bool
	Merged        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
