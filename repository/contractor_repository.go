package repository

import (
	"context"

	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/utils"
	"gorm.io/gorm"
)

// ContractorRepositoryImpl implements ContractorRepository interface
type ContractorRepositoryImpl struct {
	*BaseRepository[models.Contractor, models.ContractorFilter]
}

// NewContractorRepository creates a new contractor repository
func NewContractorRepository(db *gorm.DB) ContractorRepository {
	return &ContractorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contractor, models.ContractorFilter](db),
	}
}

// ByUUID retrieves a contractor by UUID (string)
func (r *ContractorRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Contractor, error) {
	parsed, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ContractorFilter{UUID: &parsed}
	items, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// ListUnmerged retrieves active contractors that have not been merged away
func (r *ContractorRepositoryImpl) ListUnmerged(ctx context.Context) ([]*models.Contractor, error) {
	db := r.getDB(ctx)
	var rows []*models.Contractor
	err := db.Model(&models.Contractor{}).
		Where("merged_into_id IS NULL AND is_active = ?", true).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ContractorRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContractorFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Mobile != nil {
		query = query.Where("mobile = ?", *filter.Mobile)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Merged != nil {
		if *filter.Merged {
			query = query.Where("merged_into_id IS NOT NULL")
		} else {
			query = query.Where("merged_into_id IS NULL")
		}
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves contractors based on filter criteria
func (r *ContractorRepositoryImpl) ByFilter(ctx context.Context, filter models.ContractorFilter, orderBy string, limit, offset int) ([]*models.Contractor, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contractor{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Contractor
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of contractors matching the filter
func (r *ContractorRepositoryImpl) Count(ctx context.Context, filter models.ContractorFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contractor{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contractor matching the filter exists
func (r *ContractorRepositoryImpl) Exists(ctx context.Context, filter models.ContractorFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
