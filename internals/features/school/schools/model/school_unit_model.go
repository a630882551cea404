package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SchoolUnitModel struct {
	SchoolUnitID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:school_unit_id" json:"school_unit_id"`
	SchoolUnitName   string    `gorm:"type:text;not null;column:school_unit_name" json:"school_unit_name"`
	SchoolUnitCounty string    `gorm:"type:varchar(64);not null;default:'';column:school_unit_county" json:"school_unit_county"`

	// Periodic batches (risk classification) only run for registered units.
	SchoolUnitIsRegistered bool `gorm:"not null;default:false;column:school_unit_is_registered" json:"school_unit_is_registered"`

	SchoolUnitCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:school_unit_created_at" json:"school_unit_created_at"`
	SchoolUnitUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:school_unit_updated_at" json:"school_unit_updated_at"`
	SchoolUnitDeletedAt gorm.DeletedAt `gorm:"column:school_unit_deleted_at;index" json:"school_unit_deleted_at,omitempty"`
}

func (SchoolUnitModel) TableName() string { return "school_units" }

func (m *SchoolUnitModel) BeforeSave(tx *gorm.DB) error {
	m.SchoolUnitName = strings.TrimSpace(m.SchoolUnitName)
	m.SchoolUnitCounty = strings.TrimSpace(m.SchoolUnitCounty)
	return nil
}
