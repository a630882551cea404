package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StudentCatalogPerYearModel rolls one student's subject catalogs up to a
// class-year: averages of averages (floored at 2 decimals), absence sums,
// the behavior grade mirrored from the coordination subject, placement ranks
// and the second-examination count. Recomputed by the propagator, never
// edited by hand.
type StudentCatalogPerYearModel struct {
	StudentCatalogID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_catalog_id" json:"student_catalog_id"`
	StudentCatalogStudentID      uuid.UUID `gorm:"type:uuid;not null;index;column:student_catalog_student_id" json:"student_catalog_student_id"`
	StudentCatalogStudyClassID   uuid.UUID `gorm:"type:uuid;not null;index;column:student_catalog_study_class_id" json:"student_catalog_study_class_id"`
	StudentCatalogAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:student_catalog_academic_year_id" json:"student_catalog_academic_year_id"`

	// ============ Averages (floored to 2 decimals) ============
	StudentCatalogAvgSem1   *decimal.Decimal `gorm:"type:numeric(5,2);column:student_catalog_avg_sem1" json:"student_catalog_avg_sem1,omitempty"`
	StudentCatalogAvgSem2   *decimal.Decimal `gorm:"type:numeric(5,2);column:student_catalog_avg_sem2" json:"student_catalog_avg_sem2,omitempty"`
	StudentCatalogAvgAnnual *decimal.Decimal `gorm:"type:numeric(5,2);column:student_catalog_avg_annual" json:"student_catalog_avg_annual,omitempty"`
	StudentCatalogAvgFinal  *decimal.Decimal `gorm:"type:numeric(5,2);column:student_catalog_avg_final" json:"student_catalog_avg_final,omitempty"`

	// ============ Absence sums ============
	StudentCatalogAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:student_catalog_abs_count_sem1" json:"student_catalog_abs_count_sem1"`
	StudentCatalogAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:student_catalog_abs_count_sem2" json:"student_catalog_abs_count_sem2"`
	StudentCatalogAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:student_catalog_abs_count_annual" json:"student_catalog_abs_count_annual"`

	StudentCatalogFoundedAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:student_catalog_founded_abs_count_sem1" json:"student_catalog_founded_abs_count_sem1"`
	StudentCatalogFoundedAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:student_catalog_founded_abs_count_sem2" json:"student_catalog_founded_abs_count_sem2"`
	StudentCatalogFoundedAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:student_catalog_founded_abs_count_annual" json:"student_catalog_founded_abs_count_annual"`

	StudentCatalogUnfoundedAbsCountSem1   int `gorm:"type:integer;not null;default:0;column:student_catalog_unfounded_abs_count_sem1" json:"student_catalog_unfounded_abs_count_sem1"`
	StudentCatalogUnfoundedAbsCountSem2   int `gorm:"type:integer;not null;default:0;column:student_catalog_unfounded_abs_count_sem2" json:"student_catalog_unfounded_abs_count_sem2"`
	StudentCatalogUnfoundedAbsCountAnnual int `gorm:"type:integer;not null;default:0;column:student_catalog_unfounded_abs_count_annual" json:"student_catalog_unfounded_abs_count_annual"`

	// Behavior ("purtare") grade, mirror of the coordination subject's
	// semester averages.
	StudentCatalogBehaviorGradeSem1 *int `gorm:"type:integer;column:student_catalog_behavior_grade_sem1" json:"student_catalog_behavior_grade_sem1,omitempty"`
	StudentCatalogBehaviorGradeSem2 *int `gorm:"type:integer;column:student_catalog_behavior_grade_sem2" json:"student_catalog_behavior_grade_sem2,omitempty"`

	// Count of subject-semesters below the pass threshold; a subject failing
	// both semesters counts twice.
	StudentCatalogSecondExaminationsCount int `gorm:"type:integer;not null;default:0;column:student_catalog_second_examinations_count" json:"student_catalog_second_examinations_count"`

	// ============ Placement ranks (competition ranking) ============
	StudentCatalogClassPlaceByAvgSem1   *int `gorm:"type:integer;column:student_catalog_class_place_by_avg_sem1" json:"student_catalog_class_place_by_avg_sem1,omitempty"`
	StudentCatalogClassPlaceByAbsSem1   *int `gorm:"type:integer;column:student_catalog_class_place_by_abs_sem1" json:"student_catalog_class_place_by_abs_sem1,omitempty"`
	StudentCatalogClassPlaceByAvgSem2   *int `gorm:"type:integer;column:student_catalog_class_place_by_avg_sem2" json:"student_catalog_class_place_by_avg_sem2,omitempty"`
	StudentCatalogClassPlaceByAbsSem2   *int `gorm:"type:integer;column:student_catalog_class_place_by_abs_sem2" json:"student_catalog_class_place_by_abs_sem2,omitempty"`
	StudentCatalogClassPlaceByAvgAnnual *int `gorm:"type:integer;column:student_catalog_class_place_by_avg_annual" json:"student_catalog_class_place_by_avg_annual,omitempty"`
	StudentCatalogClassPlaceByAbsAnnual *int `gorm:"type:integer;column:student_catalog_class_place_by_abs_annual" json:"student_catalog_class_place_by_abs_annual,omitempty"`

	StudentCatalogSchoolPlaceByAvgSem1   *int `gorm:"type:integer;column:student_catalog_school_place_by_avg_sem1" json:"student_catalog_school_place_by_avg_sem1,omitempty"`
	StudentCatalogSchoolPlaceByAbsSem1   *int `gorm:"type:integer;column:student_catalog_school_place_by_abs_sem1" json:"student_catalog_school_place_by_abs_sem1,omitempty"`
	StudentCatalogSchoolPlaceByAvgSem2   *int `gorm:"type:integer;column:student_catalog_school_place_by_avg_sem2" json:"student_catalog_school_place_by_avg_sem2,omitempty"`
	StudentCatalogSchoolPlaceByAbsSem2   *int `gorm:"type:integer;column:student_catalog_school_place_by_abs_sem2" json:"student_catalog_school_place_by_abs_sem2,omitempty"`
	StudentCatalogSchoolPlaceByAvgAnnual *int `gorm:"type:integer;column:student_catalog_school_place_by_avg_annual" json:"student_catalog_school_place_by_avg_annual,omitempty"`
	StudentCatalogSchoolPlaceByAbsAnnual *int `gorm:"type:integer;column:student_catalog_school_place_by_abs_annual" json:"student_catalog_school_place_by_abs_annual,omitempty"`

	StudentCatalogCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:student_catalog_created_at" json:"student_catalog_created_at"`
	StudentCatalogUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:student_catalog_updated_at" json:"student_catalog_updated_at"`
	StudentCatalogDeletedAt gorm.DeletedAt `gorm:"column:student_catalog_deleted_at;index" json:"student_catalog_deleted_at,omitempty"`
}

func (StudentCatalogPerYearModel) TableName() string { return "student_catalogs_per_year" }

// BehaviorGrade returns the behavior grade for a semester.
func (m *StudentCatalogPerYearModel) BehaviorGrade(semester int) *int {
	if semester == 1 {
		return m.StudentCatalogBehaviorGradeSem1
	}
	return m.StudentCatalogBehaviorGradeSem2
}
