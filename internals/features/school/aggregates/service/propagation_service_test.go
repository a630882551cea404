package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	schoolmodel "catalogscolar_backend/internals/features/school/schools/model"
)

/* ============================================
   In-memory repository fake
============================================ */

type fakeRepo struct {
	catalogs map[uuid.UUID][]catalogmodel.SubjectCatalogModel // by student
	rollups  map[uuid.UUID]*catalogmodel.StudentCatalogPerYearModel
	labels   map[uuid.UUID][2]bool
	class    *classmodel.StudyClassModel
	program  *schoolmodel.AcademicProgramModel
	stats    *schoolmodel.SchoolUnitStatsModel
	saves    int
}

func newFakeRepo(class *classmodel.StudyClassModel) *fakeRepo {
	return &fakeRepo{
		catalogs: map[uuid.UUID][]catalogmodel.SubjectCatalogModel{},
		rollups:  map[uuid.UUID]*catalogmodel.StudentCatalogPerYearModel{},
		labels:   map[uuid.UUID][2]bool{},
		class:    class,
		program:  &schoolmodel.AcademicProgramModel{AcademicProgramID: class.StudyClassAcademicProgramID},
	}
}

func (r *fakeRepo) SubjectCatalogsForStudent(studentID, _, _ uuid.UUID) ([]catalogmodel.SubjectCatalogModel, error) {
	return r.catalogs[studentID], nil
}

func (r *fakeRepo) StudentCatalog(studentID, _, _ uuid.UUID) (*catalogmodel.StudentCatalogPerYearModel, error) {
	return r.rollups[studentID], nil
}

func (r *fakeRepo) SaveStudentCatalog(rollup *catalogmodel.StudentCatalogPerYearModel) error {
	r.rollups[rollup.StudentCatalogStudentID] = rollup
	r.saves++
	return nil
}

func (r *fakeRepo) UpdateStudentFailingLabels(studentID uuid.UUID, one, two bool) error {
	r.labels[studentID] = [2]bool{one, two}
	return nil
}

func (r *fakeRepo) StudyClass(uuid.UUID) (*classmodel.StudyClassModel, error) { return r.class, nil }

func (r *fakeRepo) StudentCatalogsForClass(_, _ uuid.UUID) ([]catalogmodel.StudentCatalogPerYearModel, error) {
	var out []catalogmodel.StudentCatalogPerYearModel
	for _, v := range r.rollups {
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeRepo) SaveClassAggregates(*classmodel.StudyClassModel) error { return nil }

func (r *fakeRepo) ClassesForProgram(_, _ uuid.UUID) ([]classmodel.StudyClassModel, error) {
	return []classmodel.StudyClassModel{*r.class}, nil
}

func (r *fakeRepo) AcademicProgram(uuid.UUID) (*schoolmodel.AcademicProgramModel, error) {
	return r.program, nil
}

func (r *fakeRepo) SaveProgramAggregates(*schoolmodel.AcademicProgramModel) error { return nil }

func (r *fakeRepo) ClassesForSchool(_, _ uuid.UUID) ([]classmodel.StudyClassModel, error) {
	return []classmodel.StudyClassModel{*r.class}, nil
}

func (r *fakeRepo) SchoolUnitStats(_, _ uuid.UUID) (*schoolmodel.SchoolUnitStatsModel, error) {
	return r.stats, nil
}

func (r *fakeRepo) SaveSchoolUnitStats(*schoolmodel.SchoolUnitStatsModel) error { return nil }

/* ============================================
   Fixtures
============================================ */

func intp(v int) *int { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func catalogFixture(subjectID uuid.UUID, sem1, sem2 *int) catalogmodel.SubjectCatalogModel {
	cat := catalogmodel.SubjectCatalogModel{
		SubjectCatalogID:         uuid.New(),
		SubjectCatalogSubjectID:  subjectID,
		SubjectCatalogAvgSem1:    sem1,
		SubjectCatalogAvgSem2:    sem2,
		SubjectCatalogIsEnrolled: true,
	}
	cat.SubjectCatalogAvgAnnual = nil
	return cat
}

/* ============================================
   Tests
============================================ */

func TestComputeStudentRollup_FlooredMeanAndSums(t *testing.T) {
	class := &classmodel.StudyClassModel{StudyClassID: uuid.New()}
	rollup := &catalogmodel.StudentCatalogPerYearModel{}

	a := catalogFixture(uuid.New(), intp(7), nil)
	a.SubjectCatalogAvgAnnual = dec("7.00")
	a.SubjectCatalogAbsCountSem1 = 2
	a.SubjectCatalogAbsCountAnnual = 2
	a.SubjectCatalogUnfoundedAbsCountSem1 = 2
	a.SubjectCatalogUnfoundedAbsCountAnnual = 2

	b := catalogFixture(uuid.New(), intp(8), nil)
	b.SubjectCatalogAvgAnnual = dec("8.33")
	b.SubjectCatalogAbsCountSem1 = 1
	b.SubjectCatalogAbsCountAnnual = 1
	b.SubjectCatalogFoundedAbsCountSem1 = 1
	b.SubjectCatalogFoundedAbsCountAnnual = 1

	// Exempted catalog must not contribute anything.
	c := catalogFixture(uuid.New(), intp(2), intp(2))
	c.SubjectCatalogIsExempted = true
	c.SubjectCatalogAbsCountSem1 = 50

	failing := ComputeStudentRollup(rollup, []catalogmodel.SubjectCatalogModel{a, b, c}, class)

	require.NotNil(t, rollup.StudentCatalogAvgSem1)
	assert.True(t, rollup.StudentCatalogAvgSem1.Equal(decimal.RequireFromString("7.50")), "got %s", rollup.StudentCatalogAvgSem1)
	// (7.00 + 8.33) / 2 = 7.665 → floored, never rounded up.
	require.NotNil(t, rollup.StudentCatalogAvgAnnual)
	assert.True(t, rollup.StudentCatalogAvgAnnual.Equal(decimal.RequireFromString("7.66")), "got %s", rollup.StudentCatalogAvgAnnual)

	assert.Equal(t, 3, rollup.StudentCatalogAbsCountSem1)
	assert.Equal(t, 3, rollup.StudentCatalogAbsCountAnnual)
	assert.Equal(t, 2, rollup.StudentCatalogUnfoundedAbsCountSem1)
	assert.Equal(t, 1, rollup.StudentCatalogFoundedAbsCountSem1)

	assert.Equal(t, 0, rollup.StudentCatalogSecondExaminationsCount)
	assert.Equal(t, 0, failing)
}

func TestComputeStudentRollup_SecondExaminationsCountDuplicates(t *testing.T) {
	coreID := uuid.New()
	class := &classmodel.StudyClassModel{
		StudyClassID:             uuid.New(),
		StudyClassCoreSubject1ID: &coreID,
	}
	rollup := &catalogmodel.StudentCatalogPerYearModel{}

	// Core subject: threshold 6, failing both semesters counts twice.
	core := catalogFixture(coreID, intp(5), intp(5))
	// Ordinary subject: threshold 5, failing one semester.
	other := catalogFixture(uuid.New(), intp(4), intp(7))

	failing := ComputeStudentRollup(rollup, []catalogmodel.SubjectCatalogModel{core, other}, class)

	assert.Equal(t, 3, rollup.StudentCatalogSecondExaminationsCount)
	assert.Equal(t, 2, failing)
}

func TestComputeStudentRollup_BehaviorMirror(t *testing.T) {
	class := &classmodel.StudyClassModel{StudyClassID: uuid.New()}
	rollup := &catalogmodel.StudentCatalogPerYearModel{}

	coordination := catalogFixture(uuid.New(), intp(10), intp(9))
	coordination.SubjectCatalogIsCoordinationSubject = true

	ComputeStudentRollup(rollup, []catalogmodel.SubjectCatalogModel{coordination}, class)

	require.NotNil(t, rollup.StudentCatalogBehaviorGradeSem1)
	assert.Equal(t, 10, *rollup.StudentCatalogBehaviorGradeSem1)
	require.NotNil(t, rollup.StudentCatalogBehaviorGradeSem2)
	assert.Equal(t, 9, *rollup.StudentCatalogBehaviorGradeSem2)
}

func TestPropagate_IdempotentOnUnchangedData(t *testing.T) {
	classID, programID, yearID := uuid.New(), uuid.New(), uuid.New()
	class := &classmodel.StudyClassModel{
		StudyClassID:                classID,
		StudyClassAcademicProgramID: programID,
	}
	repo := newFakeRepo(class)
	studentID := uuid.New()

	cat := catalogFixture(uuid.New(), intp(7), intp(8))
	cat.SubjectCatalogStudentID = studentID
	cat.SubjectCatalogAvgAnnual = dec("7.50")
	repo.catalogs[studentID] = []catalogmodel.SubjectCatalogModel{cat}

	p := NewPropagator(repo)
	batch := AffectedStudents{StudyClassID: classID, AcademicYearID: yearID, StudentIDs: []uuid.UUID{studentID}}

	require.NoError(t, p.Propagate(batch))
	first := *repo.rollups[studentID]
	firstClass := *repo.class
	firstProgram := *repo.program

	require.NoError(t, p.Propagate(batch))
	second := *repo.rollups[studentID]

	assert.Equal(t, first.StudentCatalogAvgSem1, second.StudentCatalogAvgSem1)
	assert.Equal(t, first.StudentCatalogAvgSem2, second.StudentCatalogAvgSem2)
	assert.Equal(t, first.StudentCatalogAvgAnnual, second.StudentCatalogAvgAnnual)
	assert.Equal(t, first.StudentCatalogSecondExaminationsCount, second.StudentCatalogSecondExaminationsCount)
	assert.Equal(t, firstClass.StudyClassAvgSem1, repo.class.StudyClassAvgSem1)
	assert.Equal(t, firstProgram.AcademicProgramAvgAnnual, repo.program.AcademicProgramAvgAnnual)
}

func TestPropagate_MissingStatsRowIsSkipped(t *testing.T) {
	classID, programID := uuid.New(), uuid.New()
	class := &classmodel.StudyClassModel{
		StudyClassID:                classID,
		StudyClassAcademicProgramID: programID,
	}
	repo := newFakeRepo(class)
	repo.stats = nil

	p := NewPropagator(repo)
	err := p.Propagate(AffectedStudents{StudyClassID: classID, AcademicYearID: uuid.New()})
	assert.NoError(t, err)
}

func TestComputeClassAggregates_TruncatedAbsenceMean(t *testing.T) {
	class := &classmodel.StudyClassModel{}
	rollups := []catalogmodel.StudentCatalogPerYearModel{
		{StudentCatalogUnfoundedAbsCountSem1: 3, StudentCatalogAvgSem1: dec("9.00")},
		{StudentCatalogUnfoundedAbsCountSem1: 4, StudentCatalogAvgSem1: dec("8.00")},
	}
	ComputeClassAggregates(class, rollups)

	// 7 / 2 truncates to 3.
	assert.Equal(t, 3, class.StudyClassUnfoundedAbsAvgSem1)
	require.NotNil(t, class.StudyClassAvgSem1)
	assert.True(t, class.StudyClassAvgSem1.Equal(decimal.RequireFromString("8.50")))
}
