package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountryStatsModel mirrors the school stats shape at country scope,
// one row per academic year. Derived state only.
type CountryStatsModel struct {
	CountryStatsID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:country_stats_id" json:"country_stats_id"`
	CountryStatsAcademicYearID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:country_stats_academic_year_id" json:"country_stats_academic_year_id"`

	CountryStatsAvgSem1   *decimal.Decimal `gorm:"type:numeric(5,2);column:country_stats_avg_sem1" json:"country_stats_avg_sem1,omitempty"`
	CountryStatsAvgSem2   *decimal.Decimal `gorm:"type:numeric(5,2);column:country_stats_avg_sem2" json:"country_stats_avg_sem2,omitempty"`
	CountryStatsAvgAnnual *decimal.Decimal `gorm:"type:numeric(5,2);column:country_stats_avg_annual" json:"country_stats_avg_annual,omitempty"`

	CountryStatsUnfoundedAbsAvgSem1   int `gorm:"type:integer;not null;default:0;column:country_stats_unfounded_abs_avg_sem1" json:"country_stats_unfounded_abs_avg_sem1"`
	CountryStatsUnfoundedAbsAvgSem2   int `gorm:"type:integer;not null;default:0;column:country_stats_unfounded_abs_avg_sem2" json:"country_stats_unfounded_abs_avg_sem2"`
	CountryStatsUnfoundedAbsAvgAnnual int `gorm:"type:integer;not null;default:0;column:country_stats_unfounded_abs_avg_annual" json:"country_stats_unfounded_abs_avg_annual"`

	CountryStatsCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:country_stats_created_at" json:"country_stats_created_at"`
	CountryStatsUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:country_stats_updated_at" json:"country_stats_updated_at"`
}

func (CountryStatsModel) TableName() string { return "country_stats" }
