package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TagType classifies what a tag is attached to on a line
type TagType string

const (
	TagTypeSimLocation TagType = "sim_location"
	TagTypeSpare       TagType = "spare"
)

// String returns the string representation of the tag type
func (t TagType) String() string {
	return string(t)
}

// Valid checks if the tag type is valid
func (t TagType) Valid() bool {
	switch t {
	case TagTypeSimLocation, TagTypeSpare:
		return true
	default:
		return false
	}
}

// ParseTagType converts a raw string into a TagType
func ParseTagType(raw string) (TagType, error) {
	t := TagType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("invalid tag type: %q", raw)
	}
	return t, nil
}

// Scan implements the sql.Scanner interface for TagType
func (t *TagType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = TagType(v)
	case []byte:
		*t = TagType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TagType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for TagType
func (t TagType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid TagType: %s", t)
	}
	return string(t), nil
}

// Tag represents a named classification referenced by lines.
// Table: tags
// Name is unique per type; reference data with no further invariants.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_tags_uuid" json:"uuid"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uk_tags_type_name;index:idx_tags_name" json:"name"`
	Type      TagType   `gorm:"size:20;not null;uniqueIndex:uk_tags_type_name;index:idx_tags_type" json:"type"`
	IsActive  *bool     `gorm:"default:true;index:idx_tags_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_tags_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Name          *string
	Type          *TagType
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
