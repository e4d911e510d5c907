// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/utils"
	"gorm.io/gorm"
)

// ApplicationRepositoryImpl implements ApplicationRepository interface
type ApplicationRepositoryImpl struct {
	*BaseRepository[models.Application, models.ApplicationFilter]
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Application, models.ApplicationFilter](db),
	}
}

// ByUUID retrieves an application by UUID (string)
func (r *ApplicationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Application, error) {
	parsed, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ApplicationFilter{UUID: &parsed}
	items, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// ReassignContractor moves every application from one contractor to another.
// Used by the contractor merge flow inside an enclosing transaction.
func (r *ApplicationRepositoryImpl) ReassignContractor(ctx context.Context, fromContractorID, toContractorID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Application{}).
		Where("contractor_id = ?", fromContractorID).
		Updates(map[string]any{
			"contractor_id": toContractorID,
			"updated_at":    utils.UTCNow(),
		}).Error
	return err
}

// applyFilter applies filter criteria to a GORM query
func (r *ApplicationRepositoryImpl) applyFilter(query *gorm.DB, filter models.ApplicationFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ApplicantEmail != nil {
		query = query.Where("applicant_email = ?", *filter.ApplicantEmail)
	}
	if filter.ApplicantMobile != nil {
		query = query.Where("applicant_mobile = ?", *filter.ApplicantMobile)
	}
	if filter.PlanCode != nil {
		query = query.Where("plan_code = ?", *filter.PlanCode)
	}
	if filter.ContractorID != nil {
		query = query.Where("contractor_id = ?", *filter.ContractorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves applications based on filter criteria
func (r *ApplicationRepositoryImpl) ByFilter(ctx context.Context, filter models.ApplicationFilter, orderBy string, limit, offset int) ([]*models.Application, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Application{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var apps []*models.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Count returns the number of applications matching the filter
func (r *ApplicationRepositoryImpl) Count(ctx context.Context, filter models.ApplicationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Application{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any application matching the filter exists
func (r *ApplicationRepositoryImpl) Exists(ctx context.Context, filter models.ApplicationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
