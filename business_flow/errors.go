// Package businessflow contains the core business logic and use cases for the back-office workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Application-related errors
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationNotEditable   = errors.New("application is in a terminal state")
	ErrApplicantNameRequired    = errors.New("applicant name is required")
	ErrApplicantContactRequired = errors.New("applicant email and mobile are required")
	ErrLineCountOutOfRange      = errors.New("requested line count must be between 1 and 50")
	ErrPlanCodeRequired         = errors.New("plan code is required")

	// Line-related errors
	ErrLineNotFound      = errors.New("line not found")
	ErrInvalidLineStatus = errors.New("invalid line status")
	ErrUnknownLineField  = errors.New("unknown line field")

	// ICCID intake errors (local validation rejections, always recoverable)
	ErrIntakeSessionNotFound = errors.New("intake session not found")
	ErrIntakeExhausted       = errors.New("all candidate slots are filled")
	ErrDuplicateScan         = errors.New("token already scanned in this session")
	ErrICCIDTaken            = errors.New("iccid already assigned to an existing line")
	ErrIntakeNoAssignments   = errors.New("intake session has no assignments to commit")

	// Overlay / batch commit errors
	ErrOverlaySessionNotFound = errors.New("edit session not found")
	ErrBatchCommitFailed      = errors.New("one or more entity updates failed")

	// Tag-related errors
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagNameRequired  = errors.New("tag name is required")
	ErrTagTypeInvalid   = errors.New("tag type is invalid")
	ErrTagAlreadyExists = errors.New("tag already exists for this type")

	// Contractor-related errors
	ErrContractorNotFound      = errors.New("contractor not found")
	ErrContractorAlreadyMerged = errors.New("contractor is already merged")
	ErrContractorSelfMerge     = errors.New("cannot merge a contractor into itself")

	// Admin auth errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminInactive     = errors.New("admin account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrCaptchaFailed     = errors.New("captcha verification failed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsApplicationNotFound(err error) bool {
	return errors.Is(err, ErrApplicationNotFound)
}

func IsApplicationNotEditable(err error) bool {
	return errors.Is(err, ErrApplicationNotEditable)
}

func IsLineCountOutOfRange(err error) bool {
	return errors.Is(err, ErrLineCountOutOfRange)
}

func IsLineNotFound(err error) bool {
	return errors.Is(err, ErrLineNotFound)
}

func IsInvalidLineStatus(err error) bool {
	return errors.Is(err, ErrInvalidLineStatus)
}

func IsUnknownLineField(err error) bool {
	return errors.Is(err, ErrUnknownLineField)
}

func IsIntakeSessionNotFound(err error) bool {
	return errors.Is(err, ErrIntakeSessionNotFound)
}

func IsIntakeExhausted(err error) bool {
	return errors.Is(err, ErrIntakeExhausted)
}

func IsDuplicateScan(err error) bool {
	return errors.Is(err, ErrDuplicateScan)
}

func IsICCIDTaken(err error) bool {
	return errors.Is(err, ErrICCIDTaken)
}

func IsIntakeNoAssignments(err error) bool {
	return errors.Is(err, ErrIntakeNoAssignments)
}

func IsOverlaySessionNotFound(err error) bool {
	return errors.Is(err, ErrOverlaySessionNotFound)
}

func IsBatchCommitFailed(err error) bool {
	return errors.Is(err, ErrBatchCommitFailed)
}

func IsTagNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}

func IsTagAlreadyExists(err error) bool {
	return errors.Is(err, ErrTagAlreadyExists)
}

func IsTagTypeInvalid(err error) bool {
	return errors.Is(err, ErrTagTypeInvalid)
}

func IsContractorNotFound(err error) bool {
	return errors.Is(err, ErrContractorNotFound)
}

func IsContractorAlreadyMerged(err error) bool {
	return errors.Is(err, ErrContractorAlreadyMerged)
}

func IsContractorSelfMerge(err error) bool {
	return errors.Is(err, ErrContractorSelfMerge)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsCaptchaFailed(err error) bool {
	return errors.Is(err, ErrCaptchaFailed)
}
