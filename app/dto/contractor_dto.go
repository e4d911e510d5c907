// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// ContractorDTO represents a contractor for API responses
type ContractorDTO struct {
	ID           uint      `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	Kana         *string   `json:"kana,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Mobile       string    `json:"mobile"`
	Address      *string   `json:"address,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	MergedIntoID *uint     `json:"merged_into_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListContractorsRequest carries the contractor listing filters
type ListContractorsRequest struct {
	Name   *string `query:"name" validate:"omitempty,max=255"`
	Mobile *string `query:"mobile" validate:"omitempty,max=20"`
	Merged *bool   `query:"merged" validate:"omitempty"`
	Page   int     `query:"page" validate:"omitempty,min=1"`
	Limit  int     `query:"limit" validate:"omitempty,min=1,max=200"`
}

// ListContractorsResponse wraps the contractor listing
type ListContractorsResponse struct {
	Message string          `json:"message"`
	Items   []ContractorDTO `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// DuplicateGroupDTO is one cluster of contractors sharing a normalized
// name and mobile key
type DuplicateGroupDTO struct {
	Key     string          `json:"key"`
	Members []ContractorDTO `json:"members"`
}

// ListDuplicatesResponse wraps the duplicate contractor clusters
type ListDuplicatesResponse struct {
	Message string              `json:"message"`
	Groups  []DuplicateGroupDTO `json:"groups"`
}

// MergeContractorsRequest folds source contractors into a surviving target.
// Applications referencing a source are reassigned to the target.
type MergeContractorsRequest struct {
	TargetID  uint   `json:"target_id" validate:"required"`
	SourceIDs []uint `json:"source_ids" validate:"required,min=1,dive,required"`
}

// MergeContractorsResponse reports the merge outcome
type MergeContractorsResponse struct {
	Message        string `json:"message"`
	MergedCount    int    `json:"merged_count"`
	ReassignedApps int64  `json:"reassigned_applications"`
}
