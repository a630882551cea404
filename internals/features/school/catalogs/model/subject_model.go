package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_id" json:"subject_id"`
	SubjectName             string    `gorm:"type:text;not null;column:subject_name" json:"subject_name"`
	SubjectWeeklyHoursCount int       `gorm:"type:integer;not null;default:1;column:subject_weekly_hours_count" json:"subject_weekly_hours_count"`

	SubjectCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:subject_created_at" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:subject_updated_at" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeSave(tx *gorm.DB) error {
	m.SubjectName = strings.TrimSpace(m.SubjectName)
	return nil
}

// RequiredGradeCount is the minimum number of grades a semester needs before
// an average may be computed.
func (m *SubjectModel) RequiredGradeCount() int {
	return m.SubjectWeeklyHoursCount + 1
}
