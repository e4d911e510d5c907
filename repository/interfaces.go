// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/oroshi-mobile/simdesk/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
	// UpdateFields applies a partial update: only the supplied columns are
	// written, everything else is left untouched server-side.
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
}

// LineRepository defines operations for SIM lines
type LineRepository interface {
	Repository[models.Line, models.LineFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Line, error)
	ByICCID(ctx context.Context, iccid string) (*models.Line, error)
	// ListAssignedICCIDs returns every non-null ICCID currently on record.
	// This list is the sole uniqueness surface for intake duplicate checks.
	ListAssignedICCIDs(ctx context.Context) ([]string, error)
	// ListCandidateSlots returns lines lacking an ICCID in stable id order,
	// optionally restricted to one application.
	ListCandidateSlots(ctx context.Context, applicationID *uint) ([]*models.Line, error)
}

// ApplicationRepository defines operations for customer applications
type ApplicationRepository interface {
	Repository[models.Application, models.ApplicationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Application, error)
	ReassignContractor(ctx context.Context, fromContractorID, toContractorID uint) error
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByTypeAndName(ctx context.Context, tagType models.TagType, name string) (*models.Tag, error)
	ListByType(ctx context.Context, tagType models.TagType) ([]*models.Tag, error)
}

// ContractorRepository defines operations for contractor records
type ContractorRepository interface {
	Repository[models.Contractor, models.ContractorFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Contractor, error)
	ListUnmerged(ctx context.Context) ([]*models.Contractor, error)
}

// AdminRepository defines operations for back-office admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, adminID uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAdmin(ctx context.Context, adminID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
