// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/utils"
	"gorm.io/gorm"
)

// LineRepositoryImpl implements LineRepository interface
type LineRepositoryImpl struct {
	*BaseRepository[models.Line, models.LineFilter]
}

// NewLineRepository creates a new line repository
func NewLineRepository(db *gorm.DB) LineRepository {
	return &LineRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Line, models.LineFilter](db),
	}
}

// ByUUID retrieves a line by UUID (string)
func (r *LineRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Line, error) {
	parsed, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.LineFilter{UUID: &parsed}
	items, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// ByICCID retrieves the line carrying the given ICCID, if any
func (r *LineRepositoryImpl) ByICCID(ctx context.Context, iccid string) (*models.Line, error) {
	filter := models.LineFilter{ICCID: &iccid}
	items, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// ListAssignedICCIDs returns all non-null ICCIDs on record
func (r *LineRepositoryImpl) ListAssignedICCIDs(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var iccids []string
	err := db.Model(&models.Line{}).
		Where("iccid IS NOT NULL AND iccid <> ''").
		Pluck("iccid", &iccids).Error
	if err != nil {
		return nil, err
	}
	return iccids, nil
}

// ListCandidateSlots returns lines lacking an ICCID in stable id order
func (r *LineRepositoryImpl) ListCandidateSlots(ctx context.Context, applicationID *uint) ([]*models.Line, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Line{}).
		Where("iccid IS NULL OR iccid = ''")
	if applicationID != nil {
		query = query.Where("application_id = ?", *applicationID)
	}

	var lines []*models.Line
	if err := query.Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *LineRepositoryImpl) applyFilter(query *gorm.DB, filter models.LineFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ApplicationID != nil {
		query = query.Where("application_id = ?", *filter.ApplicationID)
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.PhoneNumberPrefix != nil {
		query = query.Where("phone_number LIKE ?", *filter.PhoneNumberPrefix+"%")
	}
	if filter.ICCID != nil {
		query = query.Where("iccid = ?", *filter.ICCID)
	}
	if filter.HasICCID != nil {
		if *filter.HasICCID {
			query = query.Where("iccid IS NOT NULL AND iccid <> ''")
		} else {
			query = query.Where("iccid IS NULL OR iccid = ''")
		}
	}
	if filter.SimLocationTagID != nil {
		query = query.Where("sim_location_tag_id = ?", *filter.SimLocationTagID)
	}
	if filter.SpareTagID != nil {
		query = query.Where("spare_tag_id = ?", *filter.SpareTagID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ShippedAfter != nil {
		query = query.Where("shipment_date > ?", *filter.ShippedAfter)
	}
	if filter.ShippedBefore != nil {
		query = query.Where("shipment_date < ?", *filter.ShippedBefore)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves lines based on filter criteria
func (r *LineRepositoryImpl) ByFilter(ctx context.Context, filter models.LineFilter, orderBy string, limit, offset int) ([]*models.Line, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Line{})

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

	var lines []*models.Line
	if err := query.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Count returns the number of lines matching the filter
func (r *LineRepositoryImpl) Count(ctx context.Context, filter models.LineFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Line{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any line matching the filter exists
func (r *LineRepositoryImpl) Exists(ctx context.Context, filter models.LineFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new line after validating its status
func (r *LineRepositoryImpl) Save(ctx context.Context, line *models.Line) error {
	if line == nil {
		return errors.New("line payload is nil")
	}
	if line.Status == "" {
		line.Status = models.LineStatusNotOpened
	}
	if !line.Status.Valid() {
		return errors.New("invalid line status: " + line.Status.String())
	}
	return r.BaseRepository.Save(ctx, line)
}
