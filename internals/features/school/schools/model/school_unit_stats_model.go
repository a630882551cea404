package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchoolUnitStatsModel is pure derived state per (school, academic year),
// recomputed by the propagator. Never mutated independently.
type SchoolUnitStatsModel struct {
	SchoolUnitStatsID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:school_unit_stats_id" json:"school_unit_stats_id"`
	SchoolUnitStatsSchoolUnitID   uuid.UUID `gorm:"type:uuid;not null;index;column:school_unit_stats_school_unit_id" json:"school_unit_stats_school_unit_id"`
	SchoolUnitStatsAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:school_unit_stats_academic_year_id" json:"school_unit_stats_academic_year_id"`

	SchoolUnitStatsAvgSem1   *decimal.Decimal `gorm:"type:numeric(5,2);column:school_unit_stats_avg_sem1" json:"school_unit_stats_avg_sem1,omitempty"`
	SchoolUnitStatsAvgSem2   *decimal.Decimal `gorm:"type:numeric(5,2);column:school_unit_stats_avg_sem2" json:"school_unit_stats_avg_sem2,omitempty"`
	SchoolUnitStatsAvgAnnual *decimal.Decimal `gorm:"type:numeric(5,2);column:school_unit_stats_avg_annual" json:"school_unit_stats_avg_annual,omitempty"`

	SchoolUnitStatsUnfoundedAbsAvgSem1   int `gorm:"type:integer;not null;default:0;column:school_unit_stats_unfounded_abs_avg_sem1" json:"school_unit_stats_unfounded_abs_avg_sem1"`
	SchoolUnitStatsUnfoundedAbsAvgSem2   int `gorm:"type:integer;not null;default:0;column:school_unit_stats_unfounded_abs_avg_sem2" json:"school_unit_stats_unfounded_abs_avg_sem2"`
	SchoolUnitStatsUnfoundedAbsAvgAnnual int `gorm:"type:integer;not null;default:0;column:school_unit_stats_unfounded_abs_avg_annual" json:"school_unit_stats_unfounded_abs_avg_annual"`

	SchoolUnitStatsCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:school_unit_stats_created_at" json:"school_unit_stats_created_at"`
	SchoolUnitStatsUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:school_unit_stats_updated_at" json:"school_unit_stats_updated_at"`
}

func (SchoolUnitStatsModel) TableName() string { return "school_unit_stats" }
