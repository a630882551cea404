package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RiskScope string

const (
	RiskScopeClass   RiskScope = "CLASS"
	RiskScopeSchool  RiskScope = "SCHOOL"
	RiskScopeCountry RiskScope = "COUNTRY"
)

// StudentAtRiskCountsModel is one month of the at-risk head-count series for
// one scope. DailyCounts maps "DD" → count as a JSONB object; the classifier
// only overwrites day keys of an existing month row, it never inserts rows.
type StudentAtRiskCountsModel struct {
	StudentAtRiskCountsID      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_at_risk_counts_id" json:"student_at_risk_counts_id"`
	StudentAtRiskCountsScope   RiskScope      `gorm:"type:varchar(16);not null;index:idx_risk_counts_scope;column:student_at_risk_counts_scope" json:"student_at_risk_counts_scope"`
	StudentAtRiskCountsScopeID *uuid.UUID     `gorm:"type:uuid;index:idx_risk_counts_scope;column:student_at_risk_counts_scope_id" json:"student_at_risk_counts_scope_id,omitempty"`
	StudentAtRiskCountsMonth   time.Time      `gorm:"type:date;not null;index:idx_risk_counts_scope;column:student_at_risk_counts_month" json:"student_at_risk_counts_month"`
	StudentAtRiskCountsDaily   datatypes.JSON `gorm:"type:jsonb;not null;default:'{}';column:student_at_risk_counts_daily" json:"student_at_risk_counts_daily"`

	StudentAtRiskCountsCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:student_at_risk_counts_created_at" json:"student_at_risk_counts_created_at"`
	StudentAtRiskCountsUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:student_at_risk_counts_updated_at" json:"student_at_risk_counts_updated_at"`
}

func (StudentAtRiskCountsModel) TableName() string { return "student_at_risk_counts" }
