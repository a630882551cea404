package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id" json:"student_id"`
	StudentSchoolUnitID uuid.UUID `gorm:"type:uuid;not null;index;column:student_school_unit_id" json:"student_school_unit_id"`
	StudentName         string    `gorm:"type:text;not null;column:student_name" json:"student_name"`
	StudentIsActive     bool      `gorm:"not null;default:true;column:student_is_active" json:"student_is_active"`

	// Risk state, written only by the periodic classification batch.
	StudentIsAtRisk        bool    `gorm:"not null;default:false;column:student_is_at_risk" json:"student_is_at_risk"`
	StudentRiskDescription *string `gorm:"type:text;column:student_risk_description" json:"student_risk_description,omitempty"`

	// Failing-subject labels, maintained by the propagator: exactly one failing
	// subject sets the first label, exactly two the second, anything else clears
	// both.
	StudentHasOneFailingSubjectLabel  bool `gorm:"not null;default:false;column:student_has_one_failing_subject_label" json:"student_has_one_failing_subject_label"`
	StudentHasTwoFailingSubjectsLabel bool `gorm:"not null;default:false;column:student_has_two_failing_subjects_label" json:"student_has_two_failing_subjects_label"`

	StudentCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:student_updated_at" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeSave(tx *gorm.DB) error {
	m.StudentName = strings.TrimSpace(m.StudentName)
	return nil
}
