package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicYearModel holds the semester boundaries for one school year.
// Example label: "2025-2026".
type AcademicYearModel struct {
	AcademicYearID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:academic_year_id" json:"academic_year_id"`
	AcademicYearLabel string    `gorm:"type:varchar(9);not null;column:academic_year_label" json:"academic_year_label"`

	AcademicYearSem1Start time.Time `gorm:"type:date;not null;column:academic_year_sem1_start" json:"academic_year_sem1_start"`
	AcademicYearSem1End   time.Time `gorm:"type:date;not null;column:academic_year_sem1_end" json:"academic_year_sem1_end"`
	AcademicYearSem2Start time.Time `gorm:"type:date;not null;column:academic_year_sem2_start" json:"academic_year_sem2_start"`
	AcademicYearSem2End   time.Time `gorm:"type:date;not null;column:academic_year_sem2_end" json:"academic_year_sem2_end"`

	// End of the second-examination ("corigențe") period; a placement run date.
	AcademicYearSecondExaminationEnd *time.Time `gorm:"type:date;column:academic_year_second_examination_end" json:"academic_year_second_examination_end,omitempty"`

	AcademicYearIsActive bool `gorm:"not null;default:false;column:academic_year_is_active" json:"academic_year_is_active"`

	AcademicYearCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:academic_year_created_at" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:academic_year_updated_at" json:"academic_year_updated_at"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"column:academic_year_deleted_at;index" json:"academic_year_deleted_at,omitempty"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeSave(tx *gorm.DB) error {
	m.AcademicYearLabel = strings.TrimSpace(m.AcademicYearLabel)
	if m.AcademicYearSem1End.Before(m.AcademicYearSem1Start) {
		return errors.New("academic_year_sem1_end must be >= academic_year_sem1_start")
	}
	if m.AcademicYearSem2End.Before(m.AcademicYearSem2Start) {
		return errors.New("academic_year_sem2_end must be >= academic_year_sem2_start")
	}
	if m.AcademicYearSem2Start.Before(m.AcademicYearSem1End) {
		return errors.New("academic_year_sem2_start must be >= academic_year_sem1_end")
	}
	return nil
}
