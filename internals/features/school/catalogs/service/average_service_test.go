package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

func day(offset int) time.Time {
	return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func regularGrade(v, semester, dayOffset int) model.SubjectGradeModel {
	return model.SubjectGradeModel{
		SubjectGradeGrade:    v,
		SubjectGradeType:     model.GradeTypeRegular,
		SubjectGradeSemester: semester,
		SubjectGradeTakenAt:  day(dayOffset),
	}
}

func thesisGrade(v, semester, dayOffset int) model.SubjectGradeModel {
	g := regularGrade(v, semester, dayOffset)
	g.SubjectGradeType = model.GradeTypeThesis
	return g
}

func TestComputeSemesterAverage_Regular(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(6, 1, 0),
		regularGrade(7, 1, 1),
		regularGrade(8, 1, 2),
	}
	avg := ComputeSemesterAverage(grades, 1, false, 3)
	require.NotNil(t, avg)
	assert.Equal(t, 7, *avg)
}

func TestComputeSemesterAverage_HalfRoundsUp(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(5, 1, 0),
		regularGrade(6, 1, 1),
	}
	avg := ComputeSemesterAverage(grades, 1, false, 2)
	require.NotNil(t, avg)
	assert.Equal(t, 6, *avg)
}

func TestComputeSemesterAverage_ThesisWeighting(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(5, 1, 0),
		regularGrade(5, 1, 1),
		regularGrade(5, 1, 2),
		regularGrade(5, 1, 3),
		thesisGrade(9, 1, 4),
	}
	// (mean(5,5,5,5)*3 + 9) / 4 = 6.0
	avg := ComputeSemesterAverage(grades, 1, true, 4)
	require.NotNil(t, avg)
	assert.Equal(t, 6, *avg)
}

func TestComputeSemesterAverage_MostRecentThesisWins(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(5, 1, 0),
		thesisGrade(3, 1, 1),
		thesisGrade(9, 1, 5),
	}
	avg := ComputeSemesterAverage(grades, 1, true, 2)
	require.NotNil(t, avg)
	// (5*3 + 9) / 4 = 6
	assert.Equal(t, 6, *avg)
}

func TestComputeSemesterAverage_MissingThesis(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(8, 1, 0),
		regularGrade(9, 1, 1),
	}
	assert.Nil(t, ComputeSemesterAverage(grades, 1, true, 2))
}

func TestComputeSemesterAverage_InsufficientCount(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(10, 1, 0),
		regularGrade(10, 1, 1),
	}
	assert.Nil(t, ComputeSemesterAverage(grades, 1, false, 3))
}

func TestComputeSemesterAverage_FiltersSemester(t *testing.T) {
	grades := []model.SubjectGradeModel{
		regularGrade(10, 1, 0),
		regularGrade(2, 2, 1),
		regularGrade(2, 2, 2),
	}
	avg := ComputeSemesterAverage(grades, 2, false, 2)
	require.NotNil(t, avg)
	assert.Equal(t, 2, *avg)
}

func TestComputeAnnualAverage(t *testing.T) {
	seven, eight := 7, 8

	both := ComputeAnnualAverage(&seven, &eight)
	require.NotNil(t, both)
	assert.True(t, both.Equal(decimal.RequireFromString("7.5")), "got %s", both)

	onlySem2 := ComputeAnnualAverage(nil, &eight)
	require.NotNil(t, onlySem2)
	assert.True(t, onlySem2.Equal(decimal.NewFromInt(8)))

	assert.Nil(t, ComputeAnnualAverage(&seven, nil))
	assert.Nil(t, ComputeAnnualAverage(nil, nil))
}

func examPair(g1, g2 int, examType model.ExaminationType, gradeType model.ExaminationGradeType, semester *int) model.ExaminationGradeModel {
	return model.ExaminationGradeModel{
		ExaminationGradeGrade1:          g1,
		ExaminationGradeGrade2:          g2,
		ExaminationGradeExaminationType: examType,
		ExaminationGradeType:            gradeType,
		ExaminationGradeSemester:        semester,
	}
}

func TestComputeExaminationPairAverage_DecimalExact(t *testing.T) {
	a := examPair(7, 8, model.ExaminationTypeOral, model.ExaminationGradeTypeSecondExamination, nil)
	b := examPair(6, 7, model.ExaminationTypeWritten, model.ExaminationGradeTypeSecondExamination, nil)
	avg := ComputeExaminationPairAverage(a, b)
	// (7.50 + 6.50) / 2 = exactly 7.00
	assert.True(t, avg.Equal(decimal.NewFromInt(7)), "got %s", avg)
}

func TestApplyExaminationGradeChange_SecondExamination(t *testing.T) {
	annual := decimal.RequireFromString("4.50")
	catalog := &model.SubjectCatalogModel{SubjectCatalogAvgAnnual: &annual}

	records := []model.ExaminationGradeModel{
		examPair(7, 8, model.ExaminationTypeOral, model.ExaminationGradeTypeSecondExamination, nil),
		examPair(6, 7, model.ExaminationTypeWritten, model.ExaminationGradeTypeSecondExamination, nil),
	}
	ApplyExaminationGradeChange(catalog, records, model.ExaminationGradeTypeSecondExamination, nil)

	require.NotNil(t, catalog.SubjectCatalogAvgFinal)
	assert.True(t, catalog.SubjectCatalogAvgFinal.Equal(decimal.NewFromInt(7)))
	require.NotNil(t, catalog.SubjectCatalogAvgAfter2ndExamination)
	assert.True(t, catalog.SubjectCatalogAvgAfter2ndExamination.Equal(decimal.NewFromInt(7)))
	// Annual stays what the year produced.
	assert.True(t, catalog.SubjectCatalogAvgAnnual.Equal(annual))
}

func TestApplyExaminationGradeChange_IncompletePairReverts(t *testing.T) {
	annual := decimal.RequireFromString("4.50")
	catalog := &model.SubjectCatalogModel{SubjectCatalogAvgAnnual: &annual}

	records := []model.ExaminationGradeModel{
		examPair(7, 8, model.ExaminationTypeOral, model.ExaminationGradeTypeSecondExamination, nil),
	}
	ApplyExaminationGradeChange(catalog, records, model.ExaminationGradeTypeSecondExamination, nil)

	require.NotNil(t, catalog.SubjectCatalogAvgFinal)
	assert.True(t, catalog.SubjectCatalogAvgFinal.Equal(annual))
	assert.Nil(t, catalog.SubjectCatalogAvgAfter2ndExamination)
}

func TestApplyExaminationGradeChange_WholeYearDifferenceOverwritesAnnual(t *testing.T) {
	catalog := &model.SubjectCatalogModel{}
	records := []model.ExaminationGradeModel{
		examPair(9, 9, model.ExaminationTypeOral, model.ExaminationGradeTypeDifference, nil),
		examPair(8, 9, model.ExaminationTypeWritten, model.ExaminationGradeTypeDifference, nil),
	}
	ApplyExaminationGradeChange(catalog, records, model.ExaminationGradeTypeDifference, nil)

	require.NotNil(t, catalog.SubjectCatalogAvgAnnual)
	// (9.00 + 8.50) / 2 = 8.75
	assert.True(t, catalog.SubjectCatalogAvgAnnual.Equal(decimal.RequireFromString("8.75")))
	require.NotNil(t, catalog.SubjectCatalogAvgFinal)
	assert.True(t, catalog.SubjectCatalogAvgFinal.Equal(decimal.RequireFromString("8.75")))
}

func TestApplyExaminationGradeChange_PerSemesterDifference(t *testing.T) {
	sem := 1
	catalog := &model.SubjectCatalogModel{}
	records := []model.ExaminationGradeModel{
		examPair(7, 8, model.ExaminationTypeOral, model.ExaminationGradeTypeDifference, &sem),
		examPair(6, 7, model.ExaminationTypeWritten, model.ExaminationGradeTypeDifference, &sem),
	}
	ApplyExaminationGradeChange(catalog, records, model.ExaminationGradeTypeDifference, &sem)

	require.NotNil(t, catalog.SubjectCatalogAvgSem1)
	assert.Equal(t, 7, *catalog.SubjectCatalogAvgSem1)
	// Annual needs sem2 too.
	assert.Nil(t, catalog.SubjectCatalogAvgAnnual)
	assert.Nil(t, catalog.SubjectCatalogAvgFinal)
}

func TestApplySemesterAverage_ClearsDownstreamWhenSem2Missing(t *testing.T) {
	seven := 7
	catalog := &model.SubjectCatalogModel{SubjectCatalogAvgSem1: &seven}

	eight := 8
	ApplySemesterAverage(catalog, 2, &eight)
	require.NotNil(t, catalog.SubjectCatalogAvgAnnual)
	assert.True(t, catalog.SubjectCatalogAvgAnnual.Equal(decimal.RequireFromString("7.5")))

	ApplySemesterAverage(catalog, 2, nil)
	assert.Nil(t, catalog.SubjectCatalogAvgAnnual)
	assert.Nil(t, catalog.SubjectCatalogAvgFinal)
}
