package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AcademicProgramModel groups study classes ("filieră/profil"); its averages
// are recomputed by the propagator from the member classes' year catalogs.
type AcademicProgramModel struct {
	AcademicProgramID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:academic_program_id" json:"academic_program_id"`
	AcademicProgramSchoolUnitID uuid.UUID `gorm:"type:uuid;not null;index;column:academic_program_school_unit_id" json:"academic_program_school_unit_id"`
	AcademicProgramName         string    `gorm:"type:text;not null;column:academic_program_name" json:"academic_program_name"`

	AcademicProgramAvgSem1   *decimal.Decimal `gorm:"type:numeric(5,2);column:academic_program_avg_sem1" json:"academic_program_avg_sem1,omitempty"`
	AcademicProgramAvgSem2   *decimal.Decimal `gorm:"type:numeric(5,2);column:academic_program_avg_sem2" json:"academic_program_avg_sem2,omitempty"`
	AcademicProgramAvgAnnual *decimal.Decimal `gorm:"type:numeric(5,2);column:academic_program_avg_annual" json:"academic_program_avg_annual,omitempty"`

	AcademicProgramUnfoundedAbsAvgSem1   int `gorm:"type:integer;not null;default:0;column:academic_program_unfounded_abs_avg_sem1" json:"academic_program_unfounded_abs_avg_sem1"`
	AcademicProgramUnfoundedAbsAvgSem2   int `gorm:"type:integer;not null;default:0;column:academic_program_unfounded_abs_avg_sem2" json:"academic_program_unfounded_abs_avg_sem2"`
	AcademicProgramUnfoundedAbsAvgAnnual int `gorm:"type:integer;not null;default:0;column:academic_program_unfounded_abs_avg_annual" json:"academic_program_unfounded_abs_avg_annual"`

	AcademicProgramStudentsAtRiskCount int `gorm:"type:integer;not null;default:0;column:academic_program_students_at_risk_count" json:"academic_program_students_at_risk_count"`

	AcademicProgramCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:academic_program_created_at" json:"academic_program_created_at"`
	AcademicProgramUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:academic_program_updated_at" json:"academic_program_updated_at"`
	AcademicProgramDeletedAt gorm.DeletedAt `gorm:"column:academic_program_deleted_at;index" json:"academic_program_deleted_at,omitempty"`
}

func (AcademicProgramModel) TableName() string { return "academic_programs" }

func (m *AcademicProgramModel) BeforeSave(tx *gorm.DB) error {
	m.AcademicProgramName = strings.TrimSpace(m.AcademicProgramName)
	return nil
}
