package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StudyClassModel is one class of students in one academic year
// (e.g. "a IX-a B", grade 9, track "real").
type StudyClassModel struct {
	StudyClassID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:study_class_id" json:"study_class_id"`
	StudyClassSchoolUnitID      uuid.UUID `gorm:"type:uuid;not null;index;column:study_class_school_unit_id" json:"study_class_school_unit_id"`
	StudyClassAcademicProgramID uuid.UUID `gorm:"type:uuid;not null;index;column:study_class_academic_program_id" json:"study_class_academic_program_id"`
	StudyClassAcademicYearID    uuid.UUID `gorm:"type:uuid;not null;index;column:study_class_academic_year_id" json:"study_class_academic_year_id"`

	StudyClassName  string `gorm:"type:varchar(32);not null;column:study_class_name" json:"study_class_name"`
	StudyClassGrade int    `gorm:"type:integer;not null;column:study_class_grade" json:"study_class_grade"`
	StudyClassTrack string `gorm:"type:varchar(64);not null;default:'';column:study_class_track" json:"study_class_track"`

	// Designated subjects: core subject 1 carries the raised pass threshold (6
	// instead of 5); both core subjects feed grade-risk classification. The
	// coordination ("purtare") subject supplies the behavior grade.
	StudyClassCoreSubject1ID        *uuid.UUID `gorm:"type:uuid;column:study_class_core_subject_1_id" json:"study_class_core_subject_1_id,omitempty"`
	StudyClassCoreSubject2ID        *uuid.UUID `gorm:"type:uuid;column:study_class_core_subject_2_id" json:"study_class_core_subject_2_id,omitempty"`
	StudyClassCoordinationSubjectID *uuid.UUID `gorm:"type:uuid;column:study_class_coordination_subject_id" json:"study_class_coordination_subject_id,omitempty"`

	// Derived aggregates, recomputed by the propagator.
	StudyClassAvgSem1   *decimal.Decimal `gorm:"type:numeric(5,2);column:study_class_avg_sem1" json:"study_class_avg_sem1,omitempty"`
	StudyClassAvgSem2   *decimal.Decimal `gorm:"type:numeric(5,2);column:study_class_avg_sem2" json:"study_class_avg_sem2,omitempty"`
	StudyClassAvgAnnual *decimal.Decimal `gorm:"type:numeric(5,2);column:study_class_avg_annual" json:"study_class_avg_annual,omitempty"`

	StudyClassUnfoundedAbsAvgSem1   int `gorm:"type:integer;not null;default:0;column:study_class_unfounded_abs_avg_sem1" json:"study_class_unfounded_abs_avg_sem1"`
	StudyClassUnfoundedAbsAvgSem2   int `gorm:"type:integer;not null;default:0;column:study_class_unfounded_abs_avg_sem2" json:"study_class_unfounded_abs_avg_sem2"`
	StudyClassUnfoundedAbsAvgAnnual int `gorm:"type:integer;not null;default:0;column:study_class_unfounded_abs_avg_annual" json:"study_class_unfounded_abs_avg_annual"`

	StudyClassStudentsAtRiskCount int `gorm:"type:integer;not null;default:0;column:study_class_students_at_risk_count" json:"study_class_students_at_risk_count"`

	StudyClassCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:study_class_created_at" json:"study_class_created_at"`
	StudyClassUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:study_class_updated_at" json:"study_class_updated_at"`
	StudyClassDeletedAt gorm.DeletedAt `gorm:"column:study_class_deleted_at;index" json:"study_class_deleted_at,omitempty"`
}

func (StudyClassModel) TableName() string { return "study_classes" }

func (m *StudyClassModel) BeforeSave(tx *gorm.DB) error {
	m.StudyClassName = strings.TrimSpace(m.StudyClassName)
	m.StudyClassTrack = strings.TrimSpace(m.StudyClassTrack)
	return nil
}

// IsCoreSubject reports whether subjectID is one of the class's designated
// core subjects.
func (m *StudyClassModel) IsCoreSubject(subjectID uuid.UUID) bool {
	if m.StudyClassCoreSubject1ID != nil && *m.StudyClassCoreSubject1ID == subjectID {
		return true
	}
	if m.StudyClassCoreSubject2ID != nil && *m.StudyClassCoreSubject2ID == subjectID {
		return true
	}
	return false
}

// PassThreshold returns the minimum passing semester average for a subject in
// this class: 6 for the primary core subject, 5 otherwise.
func (m *StudyClassModel) PassThreshold(subjectID uuid.UUID) int {
	if m.StudyClassCoreSubject1ID != nil && *m.StudyClassCoreSubject1ID == subjectID {
		return 6
	}
	return 5
}
