package model

// GradeType distinguishes regular marks from semester thesis ("teză") marks.
type GradeType string

const (
	GradeTypeRegular GradeType = "REGULAR"
	GradeTypeThesis  GradeType = "THESIS"
)

func (t GradeType) Valid() bool {
	switch t {
	case GradeTypeRegular, GradeTypeThesis:
		return true
	default:
		return false
	}
}

// ExaminationType is the examiner-pair leg: oral or written.
type ExaminationType string

const (
	ExaminationTypeOral    ExaminationType = "ORAL"
	ExaminationTypeWritten ExaminationType = "WRITTEN"
)

func (t ExaminationType) Valid() bool {
	switch t {
	case ExaminationTypeOral, ExaminationTypeWritten:
		return true
	default:
		return false
	}
}

// ExaminationGradeType: second examination ("corigență") retries a failed
// subject; difference ("diferență") covers credit gaps, per semester or for
// the whole year.
type ExaminationGradeType string

const (
	ExaminationGradeTypeSecondExamination ExaminationGradeType = "SECOND_EXAMINATION"
	ExaminationGradeTypeDifference        ExaminationGradeType = "DIFFERENCE"
)

func (t ExaminationGradeType) Valid() bool {
	switch t {
	case ExaminationGradeTypeSecondExamination, ExaminationGradeTypeDifference:
		return true
	default:
		return false
	}
}

const (
	MinGrade = 1
	MaxGrade = 10
)
