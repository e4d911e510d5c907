// Package dto contains Data Transfer Objects for API request and response structures
package dto

// StartIntakeRequest opens a new ICCID intake session over the current
// candidate slot list. Mode selects the barcode scanner's termination style.
type StartIntakeRequest struct {
	Mode          string `json:"mode" validate:"required,oneof=auto_enter length_triggered"`
	ApplicationID *uint  `json:"application_id,omitempty" validate:"omitempty"`
}

// StartIntakeResponse returns the session handle and its slot budget
type StartIntakeResponse struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id"`
	Mode           string `json:"mode"`
	CandidateCount int    `json:"candidate_count"`
	Remaining      int    `json:"remaining"`
}

// ScanRequest submits scanner input to an intake session. For auto_enter mode
// Token carries one complete read; for length_triggered mode Chunk carries raw
// characters as typed and Enter forces a flush of whatever is buffered.
type ScanRequest struct {
	Token string `json:"token,omitempty" validate:"omitempty,max=64"`
	Chunk string `json:"chunk,omitempty" validate:"omitempty,max=64"`
	Enter bool   `json:"enter,omitempty"`
}

// AssignmentDTO pairs one candidate line with its scanned ICCID
type AssignmentDTO struct {
	LineID uint   `json:"line_id"`
	ICCID  string `json:"iccid"`
}

// IntakeStateResponse is the session snapshot returned after every intake
// mutation so the screen can re-render assignments and the exhaustion guard.
type IntakeStateResponse struct {
	Message     string          `json:"message"`
	SessionID   string          `json:"session_id"`
	Assignments []AssignmentDTO `json:"assignments"`
	Remaining   int             `json:"remaining"`
	Exhausted   bool            `json:"exhausted"`
	Buffered    int             `json:"buffered,omitempty"`
}

// CommitIntakeResponse reports the outcome of flushing a session's assignments
type CommitIntakeResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}
