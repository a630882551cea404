package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

func renderSubject(t *testing.T, e *catalogWithSubject) [][]string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	writeSubjectRows(w, e)
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSubjectRows_CanonicalOrder(t *testing.T) {
	sem2 := 2
	entry := &catalogWithSubject{
		subject: model.SubjectModel{SubjectName: "Matematică"},
		catalog: model.SubjectCatalogModel{
			SubjectCatalogWantsThesis: true,
			SubjectCatalogIsEnrolled:  true,
			SubjectCatalogGrades: []model.SubjectGradeModel{
				thesisGrade(9, 1, 2),
				regularGrade(7, 2, 10),
				regularGrade(8, 1, 2),
				regularGrade(6, 1, 0),
			},
			SubjectCatalogAbsences: []model.SubjectAbsenceModel{
				{SubjectAbsenceSemester: 2, SubjectAbsenceTakenAt: day(11), SubjectAbsenceIsFounded: true},
				{SubjectAbsenceSemester: 1, SubjectAbsenceTakenAt: day(3), SubjectAbsenceIsFounded: false},
			},
			SubjectCatalogExaminationGrades: []model.ExaminationGradeModel{
				examPair(7, 8, model.ExaminationTypeWritten, model.ExaminationGradeTypeDifference, &sem2),
				examPair(6, 7, model.ExaminationTypeOral, model.ExaminationGradeTypeSecondExamination, nil),
			},
		},
	}

	records := renderSubject(t, entry)
	require.Len(t, records, 9)

	// Grades: semester asc, date asc, regular before thesis on the same day.
	assert.Equal(t, []string{"Matematică", "nota", "1", "6", "", "2025-10-01", "", ""}, records[0])
	assert.Equal(t, []string{"Matematică", "nota", "1", "8", "", "2025-10-03", "", ""}, records[1])
	assert.Equal(t, []string{"Matematică", "teza", "1", "9", "", "2025-10-03", "", ""}, records[2])
	assert.Equal(t, []string{"Matematică", "nota", "2", "7", "", "2025-10-11", "", ""}, records[3])

	// Examinations: second examinations before differences.
	assert.Equal(t, []string{"Matematică", "corigenta-oral", "", "6", "7", "", "", ""}, records[4])
	assert.Equal(t, []string{"Matematică", "diferenta-scris", "2", "7", "8", "", "", ""}, records[5])

	// Absences: semester asc, date asc; then one indicators row.
	assert.Equal(t, []string{"Matematică", "absenta", "1", "", "", "2025-10-04", "nu", ""}, records[6])
	assert.Equal(t, []string{"Matematică", "absenta", "2", "", "", "2025-10-12", "da", ""}, records[7])
	assert.Equal(t, []string{"Matematică", "indicatori", "", "", "", "", "", "teza"}, records[8])
}

func TestWriteSubjectRows_ExportIsDeterministic(t *testing.T) {
	entry := &catalogWithSubject{
		subject: model.SubjectModel{SubjectName: "Română"},
		catalog: model.SubjectCatalogModel{
			SubjectCatalogIsEnrolled: true,
			SubjectCatalogGrades: []model.SubjectGradeModel{
				regularGrade(9, 1, 5),
				regularGrade(4, 1, 1),
			},
		},
	}

	first := renderSubject(t, entry)

	// Shuffle the input collection: the canonical sort must hide it.
	entry.catalog.SubjectCatalogGrades[0], entry.catalog.SubjectCatalogGrades[1] =
		entry.catalog.SubjectCatalogGrades[1], entry.catalog.SubjectCatalogGrades[0]
	second := renderSubject(t, entry)

	assert.Equal(t, first, second)
}

func TestParseIndicatorTokens(t *testing.T) {
	f, rowErr := parseIndicatorTokens("")
	require.Nil(t, rowErr)
	assert.True(t, f.enrolled)
	assert.False(t, f.wantsThesis)

	f, rowErr = parseIndicatorTokens("teza; scutit ;neinscris")
	require.Nil(t, rowErr)
	assert.True(t, f.wantsThesis)
	assert.True(t, f.exempted)
	assert.False(t, f.enrolled)

	_, rowErr = parseIndicatorTokens("teza;necunoscut")
	require.NotNil(t, rowErr)
	assert.Equal(t, "Indicatori", rowErr.Field)
}

func TestApplyIndicatorFlags_FlagsAveragingChanges(t *testing.T) {
	cat := &model.SubjectCatalogModel{SubjectCatalogIsEnrolled: true}

	// Cosmetic flags alone never force a recompute.
	assert.False(t, applyIndicatorFlags(cat, indicatorFlags{enrolled: true, wantsSim: true, wantsLevel: true}))
	assert.True(t, cat.SubjectCatalogWantsSimulation)

	assert.True(t, applyIndicatorFlags(cat, indicatorFlags{enrolled: true, wantsThesis: true}))
	assert.True(t, applyIndicatorFlags(cat, indicatorFlags{enrolled: true, wantsThesis: true, exempted: true}))
	assert.True(t, applyIndicatorFlags(cat, indicatorFlags{wantsThesis: true, exempted: true}))
	// Re-applying identical flags is a no-op.
	assert.False(t, applyIndicatorFlags(cat, indicatorFlags{wantsThesis: true, exempted: true}))
}

func TestImportIndicators_ThesisFlipRederivesAverage(t *testing.T) {
	// An exported file carries grade rows before the indicators row, so a fresh
	// import first stores averages under the default flags.
	grades := []model.SubjectGradeModel{
		regularGrade(10, 1, 0),
		regularGrade(10, 1, 1),
		thesisGrade(2, 1, 2),
	}
	cat := &model.SubjectCatalogModel{SubjectCatalogIsEnrolled: true}

	ApplySemesterAverage(cat, 1, ComputeSemesterAverage(grades, 1, cat.SubjectCatalogWantsThesis, 3))
	require.NotNil(t, cat.SubjectCatalogAvgSem1)
	assert.Equal(t, 7, *cat.SubjectCatalogAvgSem1)

	flags, rowErr := parseIndicatorTokens("teza")
	require.Nil(t, rowErr)
	require.True(t, applyIndicatorFlags(cat, flags))

	// The indicators row forces the re-derivation under the new regime.
	ApplySemesterAverage(cat, 1, ComputeSemesterAverage(grades, 1, cat.SubjectCatalogWantsThesis, 3))
	require.NotNil(t, cat.SubjectCatalogAvgSem1)
	// (mean(10,10)*3 + 2) / 4 = 8, not the plain mean 7.
	assert.Equal(t, 8, *cat.SubjectCatalogAvgSem1)
}

func TestIndicatorList(t *testing.T) {
	cat := &model.SubjectCatalogModel{SubjectCatalogIsEnrolled: true}
	assert.Equal(t, "", indicatorList(cat))

	cat.SubjectCatalogWantsThesis = true
	cat.SubjectCatalogIsExempted = true
	cat.SubjectCatalogIsEnrolled = false
	cat.SubjectCatalogIsCoordinationSubject = true
	assert.Equal(t, "teza;scutit;neinscris;coordonare", indicatorList(cat))
}

func TestExamRowKind(t *testing.T) {
	a := examPair(5, 5, model.ExaminationTypeOral, model.ExaminationGradeTypeSecondExamination, nil)
	assert.Equal(t, "corigenta-oral", examRowKind(&a))
	b := examPair(5, 5, model.ExaminationTypeWritten, model.ExaminationGradeTypeSecondExamination, nil)
	assert.Equal(t, "corigenta-scris", examRowKind(&b))
	sem := 1
	c := examPair(5, 5, model.ExaminationTypeOral, model.ExaminationGradeTypeDifference, &sem)
	assert.Equal(t, "diferenta-oral", examRowKind(&c))
	d := examPair(5, 5, model.ExaminationTypeWritten, model.ExaminationGradeTypeDifference, &sem)
	assert.Equal(t, "diferenta-scris", examRowKind(&d))
}

func TestParseSemesterField(t *testing.T) {
	sem, rowErr := parseSemesterField(" 2 ")
	require.Nil(t, rowErr)
	require.NotNil(t, sem)
	assert.Equal(t, 2, *sem)

	sem, rowErr = parseSemesterField("")
	assert.Nil(t, rowErr)
	assert.Nil(t, sem)

	_, rowErr = parseSemesterField("3")
	require.NotNil(t, rowErr)
	assert.Equal(t, "Semestru", rowErr.Field)

	_, rowErr = parseSemesterField("abc")
	assert.NotNil(t, rowErr)
}

func TestParseGradeField(t *testing.T) {
	v, rowErr := parseGradeField("Valoare", "10")
	require.Nil(t, rowErr)
	assert.Equal(t, 10, v)

	_, rowErr = parseGradeField("Valoare", "0")
	require.NotNil(t, rowErr)
	assert.Equal(t, "Valoare", rowErr.Field)

	_, rowErr = parseGradeField("Valoare 2", "11")
	require.NotNil(t, rowErr)
	assert.Equal(t, "Valoare 2", rowErr.Field)
}

func TestParseWireDate(t *testing.T) {
	d, err := parseWireDate(" 2025-10-04 ")
	require.NoError(t, err)
	assert.Equal(t, day(3), d)

	_, err = parseWireDate("04.10.2025")
	assert.Error(t, err)
}

func TestEqualFields(t *testing.T) {
	assert.True(t, equalFields([]string{" Materie ", "Tip", "Semestru", "Valoare", "Valoare 2", "Data", "Motivată", "Indicatori"}, csvHeader))
	assert.False(t, equalFields([]string{"Materie"}, csvHeader))
	assert.False(t, equalFields([]string{"Materie", "Tip", "Semestru", "Valoare", "Valoare2", "Data", "Motivată", "Indicatori"}, csvHeader))
}
