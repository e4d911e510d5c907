// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// LineDTO represents a SIM line for API responses
type LineDTO struct {
	ID               uint      `json:"id"`
	UUID             string    `json:"uuid"`
	ApplicationID    uint      `json:"application_id"`
	PhoneNumber      *string   `json:"phone_number,omitempty"`
	ICCID            *string   `json:"iccid,omitempty"`
	SimLocationTagID *uint     `json:"sim_location_tag_id,omitempty"`
	SpareTagID       *uint     `json:"spare_tag_id,omitempty"`
	ShipmentDate     *string   `json:"shipment_date,omitempty"`
	ReturnDate       *string   `json:"return_date,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListLinesRequest carries the admin line listing filters
type ListLinesRequest struct {
	ApplicationID     *uint   `query:"application_id" validate:"omitempty"`
	PhoneNumberPrefix *string `query:"phone_number_prefix" validate:"omitempty,max=20"`
	ICCID             *string `query:"iccid" validate:"omitempty,max=22"`
	HasICCID          *bool   `query:"has_iccid" validate:"omitempty"`
	SimLocationTagID  *uint   `query:"sim_location_tag_id" validate:"omitempty"`
	SpareTagID        *uint   `query:"spare_tag_id" validate:"omitempty"`
	Status            *string `query:"status" validate:"omitempty,max=20"`
	Page              int     `query:"page" validate:"omitempty,min=1"`
	Limit             int     `query:"limit" validate:"omitempty,min=1,max=200"`
}

// ListLinesResponse wraps the admin line listing
type ListLinesResponse struct {
	Message string    `json:"message"`
	Items   []LineDTO `json:"items"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
}

// UpdateLineItem is one entity's pending field set within a batch save.
// Fields carries only the columns the operator actually edited; a field
// present with a JSON null is an explicit clear, an absent field is untouched.
type UpdateLineItem struct {
	ID     uint           `json:"id" validate:"required"`
	Fields map[string]any `json:"fields" validate:"required,min=1"`
}

// BatchUpdateLinesRequest represents the bulk save of pending line edits
type BatchUpdateLinesRequest struct {
	Items []UpdateLineItem `json:"items" validate:"required,min=1,dive"`
}

// BatchUpdateLinesResponse reports how many lines were updated
type BatchUpdateLinesResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}
