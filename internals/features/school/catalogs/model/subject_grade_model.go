package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectGradeModel is one mark given by a teacher. Immutable once the
// editable window closes.
type SubjectGradeModel struct {
	SubjectGradeID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_grade_id" json:"subject_grade_id"`
	SubjectGradeSubjectCatalogID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_grade_subject_catalog_id" json:"subject_grade_subject_catalog_id"`

	SubjectGradeGrade    int       `gorm:"type:integer;not null;column:subject_grade_grade" json:"subject_grade_grade"`
	SubjectGradeType     GradeType `gorm:"type:varchar(16);not null;default:'REGULAR';column:subject_grade_type" json:"subject_grade_type"`
	SubjectGradeSemester int       `gorm:"type:integer;not null;column:subject_grade_semester" json:"subject_grade_semester"`
	SubjectGradeTakenAt  time.Time `gorm:"type:date;not null;column:subject_grade_taken_at" json:"subject_grade_taken_at"`

	SubjectGradeCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:subject_grade_created_at" json:"subject_grade_created_at"`
	SubjectGradeUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:subject_grade_updated_at" json:"subject_grade_updated_at"`
	SubjectGradeDeletedAt gorm.DeletedAt `gorm:"column:subject_grade_deleted_at;index" json:"subject_grade_deleted_at,omitempty"`
}

func (SubjectGradeModel) TableName() string { return "subject_grades" }

func (m *SubjectGradeModel) BeforeSave(tx *gorm.DB) error {
	if m.SubjectGradeGrade < MinGrade || m.SubjectGradeGrade > MaxGrade {
		return errors.New("subject_grade_grade must be between 1 and 10")
	}
	if !m.SubjectGradeType.Valid() {
		return errors.New("subject_grade_type is invalid")
	}
	if m.SubjectGradeSemester != 1 && m.SubjectGradeSemester != 2 {
		return errors.New("subject_grade_semester must be 1 or 2")
	}
	return nil
}
