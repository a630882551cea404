package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SemesterEndOverrideModel moves a semester end for one grade/track pair
// (e.g. final-year classes close semester 2 earlier).
type SemesterEndOverrideModel struct {
	SemesterEndOverrideID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:semester_end_override_id" json:"semester_end_override_id"`
	SemesterEndOverrideAcademicYearID uuid.UUID `gorm:"type:uuid;not null;column:semester_end_override_academic_year_id" json:"semester_end_override_academic_year_id"`

	SemesterEndOverrideGrade    int       `gorm:"type:integer;not null;column:semester_end_override_grade" json:"semester_end_override_grade"`
	SemesterEndOverrideTrack    string    `gorm:"type:varchar(64);not null;default:'';column:semester_end_override_track" json:"semester_end_override_track"`
	SemesterEndOverrideSemester int       `gorm:"type:integer;not null;column:semester_end_override_semester" json:"semester_end_override_semester"`
	SemesterEndOverrideEndDate  time.Time `gorm:"type:date;not null;column:semester_end_override_end_date" json:"semester_end_override_end_date"`

	SemesterEndOverrideCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:semester_end_override_created_at" json:"semester_end_override_created_at"`
	SemesterEndOverrideUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:semester_end_override_updated_at" json:"semester_end_override_updated_at"`
	SemesterEndOverrideDeletedAt gorm.DeletedAt `gorm:"column:semester_end_override_deleted_at;index" json:"semester_end_override_deleted_at,omitempty"`
}

func (SemesterEndOverrideModel) TableName() string { return "semester_end_overrides" }

func (m *SemesterEndOverrideModel) BeforeSave(tx *gorm.DB) error {
	if m.SemesterEndOverrideSemester != 1 && m.SemesterEndOverrideSemester != 2 {
		return errors.New("semester_end_override_semester must be 1 or 2")
	}
	return nil
}
