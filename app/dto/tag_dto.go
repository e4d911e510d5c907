// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// TagDTO represents a tag for API responses
type TagDTO struct {
	ID        uint      `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTagRequest represents the payload to create a new tag
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Type string `json:"type" validate:"required,oneof=sim_location spare"`
}

// UpdateTagRequest renames an existing tag
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ListTagsRequest filters the tag listing by type
type ListTagsRequest struct {
	Type *string `query:"type" validate:"omitempty,oneof=sim_location spare"`
}

// ListTagsResponse wraps the tag listing
type ListTagsResponse struct {
	Message string   `json:"message"`
	Items   []TagDTO `json:"items"`
}
