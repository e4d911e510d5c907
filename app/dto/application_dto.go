// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// ApplicationDTO represents an application for API responses
type ApplicationDTO struct {
	ID                 uint       `json:"id"`
	UUID               string     `json:"uuid"`
	ApplicantName      string     `json:"applicant_name"`
	ApplicantKana      *string    `json:"applicant_kana,omitempty"`
	ApplicantEmail     string     `json:"applicant_email"`
	ApplicantMobile    string     `json:"applicant_mobile"`
	PlanCode           string     `json:"plan_code"`
	RequestedLineCount int        `json:"requested_line_count"`
	ContractorID       *uint      `json:"contractor_id,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Status             string     `json:"status"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SubmitApplicationRequest represents the public wizard's final submission
type SubmitApplicationRequest struct {
	ApplicantName      string  `json:"applicant_name" validate:"required,min=1,max=255"`
	ApplicantKana      *string `json:"applicant_kana,omitempty" validate:"omitempty,max=255"`
	ApplicantEmail     string  `json:"applicant_email" validate:"required,email,max=255"`
	ApplicantMobile    string  `json:"applicant_mobile" validate:"required,min=10,max=20"`
	PlanCode           string  `json:"plan_code" validate:"required,max=50"`
	RequestedLineCount int     `json:"requested_line_count" validate:"required,min=1,max=50"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// SubmitApplicationResponse returns the created application and its mypage token
type SubmitApplicationResponse struct {
	Message     string         `json:"message"`
	Application ApplicationDTO `json:"application"`
	MyPageToken string         `json:"mypage_token"`
}

// MyPageResponse is the applicant-facing view of one application and its lines
type MyPageResponse struct {
	Message     string         `json:"message"`
	Application ApplicationDTO `json:"application"`
	Lines       []LineDTO      `json:"lines"`
}

// ListApplicationsRequest carries the admin application listing filters
type ListApplicationsRequest struct {
	Status       *string `query:"status" validate:"omitempty,max=20"`
	ContractorID *uint   `query:"contractor_id" validate:"omitempty"`
	Email        *string `query:"email" validate:"omitempty,max=255"`
	Page         int     `query:"page" validate:"omitempty,min=1"`
	Limit        int     `query:"limit" validate:"omitempty,min=1,max=200"`
}

// ListApplicationsResponse wraps the admin application listing
type ListApplicationsResponse struct {
	Message string           `json:"message"`
	Items   []ApplicationDTO `json:"items"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// AcceptApplicationResponse reports the acceptance outcome and created lines
type AcceptApplicationResponse struct {
	Message      string         `json:"message"`
	Application  ApplicationDTO `json:"application"`
	CreatedLines []LineDTO      `json:"created_lines"`
}

// RejectApplicationRequest carries the optional rejection note
type RejectApplicationRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

// UpdateApplicationItem is one application's pending field set within a batch save
type UpdateApplicationItem struct {
	ID     uint           `json:"id" validate:"required"`
	Fields map[string]any `json:"fields" validate:"required,min=1"`
}

// BatchUpdateApplicationsRequest represents the bulk save of pending application edits
type BatchUpdateApplicationsRequest struct {
	Items []UpdateApplicationItem `json:"items" validate:"required,min=1,dive"`
}

// BatchUpdateApplicationsResponse reports how many applications were updated
type BatchUpdateApplicationsResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}
