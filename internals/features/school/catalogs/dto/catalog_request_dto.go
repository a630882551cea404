// file: internals/features/school/catalogs/dto/catalog_request_dto.go
package dto

import "github.com/google/uuid"

// RecordGradeRequest creates one grade on a subject catalog. TakenAt uses the
// wire date layout "2006-01-02".
type RecordGradeRequest struct {
	SubjectCatalogID uuid.UUID `json:"subject_catalog_id" validate:"required"`
	Grade            int       `json:"grade" validate:"required,min=1,max=10"`
	GradeType        string    `json:"grade_type" validate:"omitempty,oneof=REGULAR THESIS"`
	TakenAt          string    `json:"taken_at" validate:"required,datetime=2006-01-02"`
}

type RecordAbsenceRequest struct {
	SubjectCatalogID uuid.UUID `json:"subject_catalog_id" validate:"required"`
	TakenAt          string    `json:"taken_at" validate:"required,datetime=2006-01-02"`
}

type RecordExaminationGradeRequest struct {
	SubjectCatalogID uuid.UUID `json:"subject_catalog_id" validate:"required"`
	Grade1           int       `json:"grade_1" validate:"required,min=1,max=10"`
	Grade2           int       `json:"grade_2" validate:"required,min=1,max=10"`
	ExaminationType  string    `json:"examination_type" validate:"required,oneof=ORAL WRITTEN"`
	GradeType        string    `json:"grade_type" validate:"required,oneof=SECOND_EXAMINATION DIFFERENCE"`
	Semester         *int      `json:"semester" validate:"omitempty,oneof=1 2"`
}

// BulkRecordGradesRequest records the same-dated grades of one teacher action
// across many catalogs (one class, one subject column).
type BulkRecordGradesRequest struct {
	Items []RecordGradeRequest `json:"items" validate:"required,min=1,dive"`
}

// BulkRecordAbsencesRequest marks one lesson's absentees: a single date, a
// single semester, many catalogs.
type BulkRecordAbsencesRequest struct {
	TakenAt           string      `json:"taken_at" validate:"required,datetime=2006-01-02"`
	SubjectCatalogIDs []uuid.UUID `json:"subject_catalog_ids" validate:"required,min=1"`
}
