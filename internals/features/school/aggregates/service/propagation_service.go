// file: internals/features/school/aggregates/service/propagation_service.go
//
// The aggregation propagator: rebuilds the derived chain
// subject catalog → student year catalog → class → program / school stats
// from source rows. Every stage is a full recompute, so replaying a batch is
// idempotent and a dropped batch only leaves staleness until the next one.
package service

import (
	"log"

	"github.com/shopspring/decimal"

	"catalogscolar_backend/internals/features/school/aggregates/repository"
	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	schoolmodel "catalogscolar_backend/internals/features/school/schools/model"
	helper "catalogscolar_backend/internals/helpers"

	"gorm.io/gorm"
)

type Propagator struct {
	repo repository.Repository
}

func NewPropagator(repo repository.Repository) *Propagator {
	return &Propagator{repo: repo}
}

func NewPropagatorFromDB(db *gorm.DB) *Propagator {
	return NewPropagator(repository.NewGormRepository(db))
}

// Propagate runs the four stages for one class-year batch, bottom-up. Stage
// order matters: each stage reads what the previous one wrote.
func (p *Propagator) Propagate(batch AffectedStudents) error {
	class, err := p.repo.StudyClass(batch.StudyClassID)
	if err != nil {
		return err
	}

	for _, studentID := range batch.StudentIDs {
		catalogs, err := p.repo.SubjectCatalogsForStudent(studentID, batch.StudyClassID, batch.AcademicYearID)
		if err != nil {
			return err
		}
		rollup, err := p.repo.StudentCatalog(studentID, batch.StudyClassID, batch.AcademicYearID)
		if err != nil {
			return err
		}
		if rollup == nil {
			rollup = &catalogmodel.StudentCatalogPerYearModel{
				StudentCatalogStudentID:      studentID,
				StudentCatalogStudyClassID:   batch.StudyClassID,
				StudentCatalogAcademicYearID: batch.AcademicYearID,
			}
		}
		failing := ComputeStudentRollup(rollup, catalogs, class)
		if err := p.repo.SaveStudentCatalog(rollup); err != nil {
			return err
		}
		if err := p.repo.UpdateStudentFailingLabels(studentID, failing == 1, failing == 2); err != nil {
			return err
		}
	}

	studentRollups, err := p.repo.StudentCatalogsForClass(batch.StudyClassID, batch.AcademicYearID)
	if err != nil {
		return err
	}
	ComputeClassAggregates(class, studentRollups)
	if err := p.repo.SaveClassAggregates(class); err != nil {
		return err
	}

	programClasses, err := p.repo.ClassesForProgram(class.StudyClassAcademicProgramID, batch.AcademicYearID)
	if err != nil {
		return err
	}
	program, err := p.repo.AcademicProgram(class.StudyClassAcademicProgramID)
	if err != nil {
		return err
	}
	ComputeProgramAggregates(program, programClasses)
	if err := p.repo.SaveProgramAggregates(program); err != nil {
		return err
	}

	stats, err := p.repo.SchoolUnitStats(class.StudyClassSchoolUnitID, batch.AcademicYearID)
	if err != nil {
		return err
	}
	if stats == nil {
		// No stats row for this school-year yet: the school stage stays stale
		// until one exists. Deliberately not an error.
		log.Printf("[PROPAGATION] no stats row, school stage skipped schoolUnitID=%s", class.StudyClassSchoolUnitID)
		return nil
	}
	schoolClasses, err := p.repo.ClassesForSchool(class.StudyClassSchoolUnitID, batch.AcademicYearID)
	if err != nil {
		return err
	}
	ComputeSchoolAggregates(stats, schoolClasses)
	return p.repo.SaveSchoolUnitStats(stats)
}

/* ============================================
   Stage 1: student year rollup
============================================ */

// ComputeStudentRollup rebuilds one student's year catalog from their subject
// catalogs and returns the number of distinct failing subjects (for the
// one/two-failing-subject labels).
//
// Only enrolled, non-exempted catalogs participate. The coordination
// ("purtare") catalog additionally mirrors its semester averages into the
// behavior-grade fields. A subject-semester counts toward
// second_examinations_count when its average sits below the class's pass
// threshold for that subject; a subject failing both semesters counts twice.
func ComputeStudentRollup(rollup *catalogmodel.StudentCatalogPerYearModel, catalogs []catalogmodel.SubjectCatalogModel, class *classmodel.StudyClassModel) int {
	var sem1Avgs, sem2Avgs []decimal.Decimal
	var annualAvgs, finalAvgs []decimal.Decimal

	var absS1, absS2, absAnnual int
	var fndS1, fndS2, fndAnnual int
	var unfS1, unfS2, unfAnnual int

	rollup.StudentCatalogBehaviorGradeSem1 = nil
	rollup.StudentCatalogBehaviorGradeSem2 = nil

	secondExams := 0
	failingSubjects := 0

	for i := range catalogs {
		cat := &catalogs[i]
		if !cat.CountsForAverage() {
			continue
		}

		if cat.SubjectCatalogIsCoordinationSubject {
			rollup.StudentCatalogBehaviorGradeSem1 = copyInt(cat.SubjectCatalogAvgSem1)
			rollup.StudentCatalogBehaviorGradeSem2 = copyInt(cat.SubjectCatalogAvgSem2)
		}

		if cat.SubjectCatalogAvgSem1 != nil {
			sem1Avgs = append(sem1Avgs, decimal.NewFromInt(int64(*cat.SubjectCatalogAvgSem1)))
		}
		if cat.SubjectCatalogAvgSem2 != nil {
			sem2Avgs = append(sem2Avgs, decimal.NewFromInt(int64(*cat.SubjectCatalogAvgSem2)))
		}
		if cat.SubjectCatalogAvgAnnual != nil {
			annualAvgs = append(annualAvgs, *cat.SubjectCatalogAvgAnnual)
		}
		if cat.SubjectCatalogAvgFinal != nil {
			finalAvgs = append(finalAvgs, *cat.SubjectCatalogAvgFinal)
		}

		absS1 += cat.SubjectCatalogAbsCountSem1
		absS2 += cat.SubjectCatalogAbsCountSem2
		absAnnual += cat.SubjectCatalogAbsCountAnnual
		fndS1 += cat.SubjectCatalogFoundedAbsCountSem1
		fndS2 += cat.SubjectCatalogFoundedAbsCountSem2
		fndAnnual += cat.SubjectCatalogFoundedAbsCountAnnual
		unfS1 += cat.SubjectCatalogUnfoundedAbsCountSem1
		unfS2 += cat.SubjectCatalogUnfoundedAbsCountSem2
		unfAnnual += cat.SubjectCatalogUnfoundedAbsCountAnnual

		threshold := class.PassThreshold(cat.SubjectCatalogSubjectID)
		subjectFails := 0
		if cat.SubjectCatalogAvgSem1 != nil && *cat.SubjectCatalogAvgSem1 < threshold {
			subjectFails++
		}
		if cat.SubjectCatalogAvgSem2 != nil && *cat.SubjectCatalogAvgSem2 < threshold {
			subjectFails++
		}
		secondExams += subjectFails
		if subjectFails > 0 {
			failingSubjects++
		}
	}

	rollup.StudentCatalogAvgSem1 = flooredMean(sem1Avgs)
	rollup.StudentCatalogAvgSem2 = flooredMean(sem2Avgs)
	rollup.StudentCatalogAvgAnnual = flooredMean(annualAvgs)
	rollup.StudentCatalogAvgFinal = flooredMean(finalAvgs)

	rollup.StudentCatalogAbsCountSem1 = absS1
	rollup.StudentCatalogAbsCountSem2 = absS2
	rollup.StudentCatalogAbsCountAnnual = absAnnual
	rollup.StudentCatalogFoundedAbsCountSem1 = fndS1
	rollup.StudentCatalogFoundedAbsCountSem2 = fndS2
	rollup.StudentCatalogFoundedAbsCountAnnual = fndAnnual
	rollup.StudentCatalogUnfoundedAbsCountSem1 = unfS1
	rollup.StudentCatalogUnfoundedAbsCountSem2 = unfS2
	rollup.StudentCatalogUnfoundedAbsCountAnnual = unfAnnual

	rollup.StudentCatalogSecondExaminationsCount = secondExams

	return failingSubjects
}

/* ============================================
   Stage 2: class aggregates
============================================ */

// ComputeClassAggregates rebuilds the class-level means from the student year
// catalogs. Grade means are floored at 2 decimals; the unfounded-absence mean
// is a truncated integer.
func ComputeClassAggregates(class *classmodel.StudyClassModel, rollups []catalogmodel.StudentCatalogPerYearModel) {
	var sem1, sem2, annual []decimal.Decimal
	var unfS1, unfS2, unfAnnual []int
	for i := range rollups {
		r := &rollups[i]
		if r.StudentCatalogAvgSem1 != nil {
			sem1 = append(sem1, *r.StudentCatalogAvgSem1)
		}
		if r.StudentCatalogAvgSem2 != nil {
			sem2 = append(sem2, *r.StudentCatalogAvgSem2)
		}
		if r.StudentCatalogAvgAnnual != nil {
			annual = append(annual, *r.StudentCatalogAvgAnnual)
		}
		unfS1 = append(unfS1, r.StudentCatalogUnfoundedAbsCountSem1)
		unfS2 = append(unfS2, r.StudentCatalogUnfoundedAbsCountSem2)
		unfAnnual = append(unfAnnual, r.StudentCatalogUnfoundedAbsCountAnnual)
	}
	class.StudyClassAvgSem1 = flooredMean(sem1)
	class.StudyClassAvgSem2 = flooredMean(sem2)
	class.StudyClassAvgAnnual = flooredMean(annual)
	class.StudyClassUnfoundedAbsAvgSem1 = truncatedIntMean(unfS1)
	class.StudyClassUnfoundedAbsAvgSem2 = truncatedIntMean(unfS2)
	class.StudyClassUnfoundedAbsAvgAnnual = truncatedIntMean(unfAnnual)
}

/* ============================================
   Stage 3 / 4: program and school aggregates
============================================ */

func ComputeProgramAggregates(program *schoolmodel.AcademicProgramModel, classes []classmodel.StudyClassModel) {
	sem1, sem2, annual, unfS1, unfS2, unfAnnual := classMeans(classes)
	program.AcademicProgramAvgSem1 = sem1
	program.AcademicProgramAvgSem2 = sem2
	program.AcademicProgramAvgAnnual = annual
	program.AcademicProgramUnfoundedAbsAvgSem1 = unfS1
	program.AcademicProgramUnfoundedAbsAvgSem2 = unfS2
	program.AcademicProgramUnfoundedAbsAvgAnnual = unfAnnual
}

func ComputeSchoolAggregates(stats *schoolmodel.SchoolUnitStatsModel, classes []classmodel.StudyClassModel) {
	sem1, sem2, annual, unfS1, unfS2, unfAnnual := classMeans(classes)
	stats.SchoolUnitStatsAvgSem1 = sem1
	stats.SchoolUnitStatsAvgSem2 = sem2
	stats.SchoolUnitStatsAvgAnnual = annual
	stats.SchoolUnitStatsUnfoundedAbsAvgSem1 = unfS1
	stats.SchoolUnitStatsUnfoundedAbsAvgSem2 = unfS2
	stats.SchoolUnitStatsUnfoundedAbsAvgAnnual = unfAnnual
}

func classMeans(classes []classmodel.StudyClassModel) (sem1, sem2, annual *decimal.Decimal, unfS1, unfS2, unfAnnual int) {
	var s1, s2, an []decimal.Decimal
	var u1, u2, ua []int
	for i := range classes {
		c := &classes[i]
		if c.StudyClassAvgSem1 != nil {
			s1 = append(s1, *c.StudyClassAvgSem1)
		}
		if c.StudyClassAvgSem2 != nil {
			s2 = append(s2, *c.StudyClassAvgSem2)
		}
		if c.StudyClassAvgAnnual != nil {
			an = append(an, *c.StudyClassAvgAnnual)
		}
		u1 = append(u1, c.StudyClassUnfoundedAbsAvgSem1)
		u2 = append(u2, c.StudyClassUnfoundedAbsAvgSem2)
		ua = append(ua, c.StudyClassUnfoundedAbsAvgAnnual)
	}
	return flooredMean(s1), flooredMean(s2), flooredMean(an),
		truncatedIntMean(u1), truncatedIntMean(u2), truncatedIntMean(ua)
}

/* ============================================
   Small numeric helpers
============================================ */

// flooredMean is the published mean of a set of averages: floored at 2
// decimals, nil when the set is empty.
func flooredMean(ds []decimal.Decimal) *decimal.Decimal {
	if len(ds) == 0 {
		return nil
	}
	m := helper.Floor2(helper.Mean(ds))
	return &m
}

// truncatedIntMean is sum/len with integer truncation, 0 for an empty set.
func truncatedIntMean(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return sum / len(vals)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
