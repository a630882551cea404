// file: internals/features/school/catalogs/dto/catalog_response_dto.go
package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

// SubjectCatalogResponse is the catalog projection returned by every mutation:
// the derived averages and counters after the write, never the raw collections.
type SubjectCatalogResponse struct {
	SubjectCatalogID uuid.UUID `json:"subject_catalog_id"`
	StudentID        uuid.UUID `json:"student_id"`
	SubjectID        uuid.UUID `json:"subject_id"`
	StudyClassID     uuid.UUID `json:"study_class_id"`
	AcademicYearID   uuid.UUID `json:"academic_year_id"`

	AvgSem1                *int             `json:"avg_sem1,omitempty"`
	AvgSem2                *int             `json:"avg_sem2,omitempty"`
	AvgAnnual              *decimal.Decimal `json:"avg_annual,omitempty"`
	AvgFinal               *decimal.Decimal `json:"avg_final,omitempty"`
	AvgAfter2ndExamination *decimal.Decimal `json:"avg_after_2nd_examination,omitempty"`

	AbsCountSem1   int `json:"abs_count_sem1"`
	AbsCountSem2   int `json:"abs_count_sem2"`
	AbsCountAnnual int `json:"abs_count_annual"`

	FoundedAbsCountSem1   int `json:"founded_abs_count_sem1"`
	FoundedAbsCountSem2   int `json:"founded_abs_count_sem2"`
	FoundedAbsCountAnnual int `json:"founded_abs_count_annual"`

	UnfoundedAbsCountSem1   int `json:"unfounded_abs_count_sem1"`
	UnfoundedAbsCountSem2   int `json:"unfounded_abs_count_sem2"`
	UnfoundedAbsCountAnnual int `json:"unfounded_abs_count_annual"`

	WantsThesis           bool `json:"wants_thesis"`
	IsExempted            bool `json:"is_exempted"`
	IsEnrolled            bool `json:"is_enrolled"`
	IsCoordinationSubject bool `json:"is_coordination_subject"`
	IsAtRisk              bool `json:"is_at_risk"`
}

func NewSubjectCatalogResponse(m *model.SubjectCatalogModel) *SubjectCatalogResponse {
	return &SubjectCatalogResponse{
		SubjectCatalogID:       m.SubjectCatalogID,
		StudentID:              m.SubjectCatalogStudentID,
		SubjectID:              m.SubjectCatalogSubjectID,
		StudyClassID:           m.SubjectCatalogStudyClassID,
		AcademicYearID:         m.SubjectCatalogAcademicYearID,
		AvgSem1:                m.SubjectCatalogAvgSem1,
		AvgSem2:                m.SubjectCatalogAvgSem2,
		AvgAnnual:              m.SubjectCatalogAvgAnnual,
		AvgFinal:               m.SubjectCatalogAvgFinal,
		AvgAfter2ndExamination: m.SubjectCatalogAvgAfter2ndExamination,

		AbsCountSem1:   m.SubjectCatalogAbsCountSem1,
		AbsCountSem2:   m.SubjectCatalogAbsCountSem2,
		AbsCountAnnual: m.SubjectCatalogAbsCountAnnual,

		FoundedAbsCountSem1:   m.SubjectCatalogFoundedAbsCountSem1,
		FoundedAbsCountSem2:   m.SubjectCatalogFoundedAbsCountSem2,
		FoundedAbsCountAnnual: m.SubjectCatalogFoundedAbsCountAnnual,

		UnfoundedAbsCountSem1:   m.SubjectCatalogUnfoundedAbsCountSem1,
		UnfoundedAbsCountSem2:   m.SubjectCatalogUnfoundedAbsCountSem2,
		UnfoundedAbsCountAnnual: m.SubjectCatalogUnfoundedAbsCountAnnual,

		WantsThesis:           m.SubjectCatalogWantsThesis,
		IsExempted:            m.SubjectCatalogIsExempted,
		IsEnrolled:            m.SubjectCatalogIsEnrolled,
		IsCoordinationSubject: m.SubjectCatalogIsCoordinationSubject,
		IsAtRisk:              m.SubjectCatalogIsAtRisk,
	}
}

// ImportRowError is one rejected CSV row in the bulk-import report.
type ImportRowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportReport summarizes a partial-success CSV import.
type ImportReport struct {
	ImportedRows int              `json:"imported_rows"`
	RejectedRows []ImportRowError `json:"rejected_rows"`
}
