package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubjectCatalogModel is one student's record for one subject in one
// class-year: the raw grade/absence/examination collections hang off it and
// the averages plus absence counters below are denormalized onto it.
//
// Counter invariant (outside a running transaction): annual = sem1 + sem2 for
// each family, founded + unfounded = total for each period, nothing negative.
type SubjectCatalogModel struct {
	SubjectCatalogID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_catalog_id" json:"subject_catalog_id"`
	SubjectCatalogStudentID      uuid.UUID `gorm:"type:uuid;not null;index;column:subject_catalog_student_id" json:"subject_catalog_student_id"`
	SubjectCatalogSubjectID      uuid.UUID `gorm:"type:uuid;not null;index;column:subject_catalog_subject_id" json:"subject_catalog_subject_id"`
	SubjectCatalogStudyClassID   uuid.UUID `gorm:"type:uuid;not null;index;column:subject_catalog_study_class_id" json:"subject_catalog_study_class_id"`
	SubjectCatalogAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_catalog_academic_year_id" json:"subject_catalog_academic_year_id"`

	// ============ Averages ============
	// Semester averages are stored as round-half-up integers; annual/final
	// carry two exact decimals.
	SubjectCatalogAvgSem1                *int             `gorm:"type:integer;column:subject_catalog_avg_sem1" json:"subject_catalog_avg_sem1,omitempty"`
	SubjectCatalogAvgSem2                *int             `gorm:"type:integer;column:subject_catalog_avg_sem2" json:"subject_catalog_avg_sem2,omitempty"`
	SubjectCatalogAvgAnnual              *decimal.Decimal `gorm:"type:numeric(5,2);column:subject_catalog_avg_annual" json:"subject_catalog_avg_annual,omitempty"`
	SubjectCatalogAvgFinal               *decimal.Decimal `gorm:"type:numeric(5,2);column:subject_catalog_avg_final" json:"subject_catalog_avg_final,omitempty"`
	SubjectCatalogAvgAfter2ndExamination *decimal.Decimal `gorm:"type:numeric(5,2);column:subject_catalog_avg_after_2nd_examination" json:"subject_catalog_avg_after_2nd_examination,omitempty"`

	// ============ Absence counters ============
	SubjectCatalogAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:subject_catalog_abs_count_sem1" json:"subject_catalog_abs_count_sem1"`
	SubjectCatalogAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:subject_catalog_abs_count_sem2" json:"subject_catalog_abs_count_sem2"`
	SubjectCatalogAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:subject_catalog_abs_count_annual" json:"subject_catalog_abs_count_annual"`

	SubjectCatalogFoundedAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:subject_catalog_founded_abs_count_sem1" json:"subject_catalog_founded_abs_count_sem1"`
	SubjectCatalogFoundedAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:subject_catalog_founded_abs_count_sem2" json:"subject_catalog_founded_abs_count_sem2"`
	SubjectCatalogFoundedAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:subject_catalog_founded_abs_count_annual" json:"subject_catalog_founded_abs_count_annual"`

	SubjectCatalogUnfoundedAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:subject_catalog_unfounded_abs_count_sem1" json:"subject_catalog_unfounded_abs_count_sem1"`
	SubjectCatalogUnfoundedAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:subject_catalog_unfounded_abs_count_sem2" json:"subject_catalog_unfounded_abs_count_sem2"`
	SubjectCatalogUnfoundedAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:subject_catalog_unfounded_abs_count_annual" json:"subject_catalog_unfounded_abs_count_annual"`

	// ============ Flags ============
	SubjectCatalogWantsThesis            bool `gorm:"not null;default:false;column:subject_catalog_wants_thesis" json:"subject_catalog_wants_thesis"`
	SubjectCatalogWantsLevelTestingGrade bool `gorm:"not null;default:false;column:subject_catalog_wants_level_testing_grade" json:"subject_catalog_wants_level_testing_grade"`
	SubjectCatalogWantsSimulation        bool `gorm:"not null;default:false;column:subject_catalog_wants_simulation" json:"subject_catalog_wants_simulation"`
	SubjectCatalogIsExempted             bool `gorm:"not null;default:false;column:subject_catalog_is_exempted" json:"subject_catalog_is_exempted"`
	SubjectCatalogIsEnrolled             bool `gorm:"not null;default:true;column:subject_catalog_is_enrolled" json:"subject_catalog_is_enrolled"`
	SubjectCatalogIsCoordinationSubject  bool `gorm:"not null;default:false;column:subject_catalog_is_coordination_subject" json:"subject_catalog_is_coordination_subject"`
	SubjectCatalogIsAtRisk               bool `gorm:"not null;default:false;column:subject_catalog_is_at_risk" json:"subject_catalog_is_at_risk"`

	// ============ Owned collections (cascade delete) ============
	SubjectCatalogGrades            []SubjectGradeModel     `gorm:"foreignKey:SubjectGradeSubjectCatalogID;constraint:OnDelete:CASCADE" json:"subject_catalog_grades,omitempty"`
	SubjectCatalogAbsences          []SubjectAbsenceModel   `gorm:"foreignKey:SubjectAbsenceSubjectCatalogID;constraint:OnDelete:CASCADE" json:"subject_catalog_absences,omitempty"`
	SubjectCatalogExaminationGrades []ExaminationGradeModel `gorm:"foreignKey:ExaminationGradeSubjectCatalogID;constraint:OnDelete:CASCADE" json:"subject_catalog_examination_grades,omitempty"`

	SubjectCatalogCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:subject_catalog_created_at" json:"subject_catalog_created_at"`
	SubjectCatalogUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:subject_catalog_updated_at" json:"subject_catalog_updated_at"`
	SubjectCatalogDeletedAt gorm.DeletedAt `gorm:"column:subject_catalog_deleted_at;index" json:"subject_catalog_deleted_at,omitempty"`
}

func (SubjectCatalogModel) TableName() string { return "subject_catalogs" }

// AbsCount returns the total-absence counter for a semester.
func (m *SubjectCatalogModel) AbsCount(semester int) int {
	if semester == 1 {
		return m.SubjectCatalogAbsCountSem1
	}
	return m.SubjectCatalogAbsCountSem2
}

// UnfoundedAbsCount returns the unfounded-absence counter for a semester.
func (m *SubjectCatalogModel) UnfoundedAbsCount(semester int) int {
	if semester == 1 {
		return m.SubjectCatalogUnfoundedAbsCountSem1
	}
	return m.SubjectCatalogUnfoundedAbsCountSem2
}

// AvgSemester returns the stored semester average, nil when not yet computed.
func (m *SubjectCatalogModel) AvgSemester(semester int) *int {
	if semester == 1 {
		return m.SubjectCatalogAvgSem1
	}
	return m.SubjectCatalogAvgSem2
}

// CountsForAverage reports whether the catalog participates in the student's
// yearly rollup: enrolled and not exempted.
func (m *SubjectCatalogModel) CountsForAverage() bool {
	return m.SubjectCatalogIsEnrolled && !m.SubjectCatalogIsExempted
}
