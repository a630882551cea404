package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExaminationGradeModel carries the marks of one examiner pair (two graders)
// for one leg (oral or written) of a second-examination or difference exam.
// NULL semester means whole-year scope.
type ExaminationGradeModel struct {
	ExaminationGradeID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:examination_grade_id" json:"examination_grade_id"`
	ExaminationGradeSubjectCatalogID uuid.UUID `gorm:"type:uuid;not null;index;column:examination_grade_subject_catalog_id" json:"examination_grade_subject_catalog_id"`

	ExaminationGradeGrade1          int                  `gorm:"type:integer;not null;column:examination_grade_grade_1" json:"examination_grade_grade_1"`
	ExaminationGradeGrade2          int                  `gorm:"type:integer;not null;column:examination_grade_grade_2" json:"examination_grade_grade_2"`
	ExaminationGradeExaminationType ExaminationType      `gorm:"type:varchar(16);not null;column:examination_grade_examination_type" json:"examination_grade_examination_type"`
	ExaminationGradeType            ExaminationGradeType `gorm:"type:varchar(24);not null;column:examination_grade_type" json:"examination_grade_type"`
	ExaminationGradeSemester        *int                 `gorm:"type:integer;column:examination_grade_semester" json:"examination_grade_semester,omitempty"`

	ExaminationGradeCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:examination_grade_created_at" json:"examination_grade_created_at"`
	ExaminationGradeUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:examination_grade_updated_at" json:"examination_grade_updated_at"`
	ExaminationGradeDeletedAt gorm.DeletedAt `gorm:"column:examination_grade_deleted_at;index" json:"examination_grade_deleted_at,omitempty"`
}

func (ExaminationGradeModel) TableName() string { return "examination_grades" }

func (m *ExaminationGradeModel) BeforeSave(tx *gorm.DB) error {
	if m.ExaminationGradeGrade1 < MinGrade || m.ExaminationGradeGrade1 > MaxGrade ||
		m.ExaminationGradeGrade2 < MinGrade || m.ExaminationGradeGrade2 > MaxGrade {
		return errors.New("examination grades must be between 1 and 10")
	}
	if !m.ExaminationGradeExaminationType.Valid() {
		return errors.New("examination_grade_examination_type is invalid")
	}
	if !m.ExaminationGradeType.Valid() {
		return errors.New("examination_grade_type is invalid")
	}
	if m.ExaminationGradeSemester != nil && *m.ExaminationGradeSemester != 1 && *m.ExaminationGradeSemester != 2 {
		return errors.New("examination_grade_semester must be 1, 2 or NULL")
	}
	// Second examinations are always whole-year scoped.
	if m.ExaminationGradeType == ExaminationGradeTypeSecondExamination && m.ExaminationGradeSemester != nil {
		return errors.New("second examination grades cannot carry a semester")
	}
	return nil
}
