// file: internals/features/school/catalogs/service/average_service.go
//
// Semester/annual/final averaging under the three grading regimes: regular,
// thesis-weighted and examiner-pair (second examination / difference). All
// arithmetic runs on decimals — the averages are regulatory and displayed
// verbatim, binary floats would leak 6.999999 into a report card.
package service

import (
	"log"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	model "catalogscolar_backend/internals/features/school/catalogs/model"
	helper "catalogscolar_backend/internals/helpers"
)

/* ============================================
   Pure computation core
============================================ */

// ComputeSemesterAverage derives the stored (integer, round-half-up) semester
// average from the raw grades of one semester.
//
// Fewer than requiredCount grades is a valid terminal state, not an error:
// the average is simply nil. Under the thesis regime a missing THESIS grade
// also yields nil; otherwise the thesis counts for a quarter of the average.
func ComputeSemesterAverage(grades []model.SubjectGradeModel, semester int, wantsThesis bool, requiredCount int) *int {
	var regular []int
	var theses []model.SubjectGradeModel
	total := 0
	for i := range grades {
		g := &grades[i]
		if g.SubjectGradeSemester != semester {
			continue
		}
		total++
		switch g.SubjectGradeType {
		case model.GradeTypeThesis:
			theses = append(theses, *g)
		default:
			regular = append(regular, g.SubjectGradeGrade)
		}
	}

	if total < requiredCount {
		return nil
	}

	if wantsThesis {
		if len(theses) == 0 || len(regular) == 0 {
			return nil
		}
		// Most recent thesis wins when a correction re-recorded it.
		sort.SliceStable(theses, func(i, j int) bool {
			return theses[i].SubjectGradeTakenAt.Before(theses[j].SubjectGradeTakenAt)
		})
		thesis := theses[len(theses)-1].SubjectGradeGrade

		base := helper.MeanInts(regular)
		weighted := base.Mul(decimal.NewFromInt(3)).
			Add(decimal.NewFromInt(int64(thesis))).
			DivRound(decimal.NewFromInt(4), 4)
		v := helper.NormalRound(weighted)
		return &v
	}

	all := make([]int, 0, total)
	all = append(all, regular...)
	for _, t := range theses {
		all = append(all, t.SubjectGradeGrade)
	}
	v := helper.NormalRound(helper.MeanInts(all))
	return &v
}

// ComputeAnnualAverage: round2((sem1+sem2)/2) once both semesters exist,
// plain sem2 when sem1 is missing, nil when sem2 is missing.
func ComputeAnnualAverage(sem1, sem2 *int) *decimal.Decimal {
	if sem2 == nil {
		return nil
	}
	if sem1 == nil {
		d := decimal.NewFromInt(int64(*sem2)).Round(2)
		return &d
	}
	d := decimal.NewFromInt(int64(*sem1)).
		Add(decimal.NewFromInt(int64(*sem2))).
		DivRound(decimal.NewFromInt(2), 2)
	return &d
}

// examinerPairMean averages the two examiners' marks of one leg, rounded to
// 2 decimals before any further combination.
func examinerPairMean(g model.ExaminationGradeModel) decimal.Decimal {
	return decimal.NewFromInt(int64(g.ExaminationGradeGrade1)).
		Add(decimal.NewFromInt(int64(g.ExaminationGradeGrade2))).
		DivRound(decimal.NewFromInt(2), 2)
}

// ComputeExaminationPairAverage combines the oral and written legs:
// mean of the two (already rounded) examiner-pair means.
func ComputeExaminationPairAverage(a, b model.ExaminationGradeModel) decimal.Decimal {
	return examinerPairMean(a).
		Add(examinerPairMean(b)).
		DivRound(decimal.NewFromInt(2), 2)
}

// ApplyExaminationGradeChange re-derives the average slot owned by
// (gradeType, semester) on the catalog after any examination-grade mutation.
// records must be the catalog's full current examination-grade collection;
// the function assumes scope validity (whole-year vs per-semester exclusion
// is enforced at validation time).
func ApplyExaminationGradeChange(catalog *model.SubjectCatalogModel, records []model.ExaminationGradeModel, gradeType model.ExaminationGradeType, semester *int) {
	var scoped []model.ExaminationGradeModel
	for _, r := range records {
		if r.ExaminationGradeType != gradeType {
			continue
		}
		if !sameSemesterScope(r.ExaminationGradeSemester, semester) {
			continue
		}
		scoped = append(scoped, r)
	}

	if semester == nil {
		// Whole-year scope: second examination or year-long difference.
		if len(scoped) == 2 {
			avg := ComputeExaminationPairAverage(scoped[0], scoped[1])
			catalog.SubjectCatalogAvgFinal = &avg
			switch gradeType {
			case model.ExaminationGradeTypeSecondExamination:
				v := avg
				catalog.SubjectCatalogAvgAfter2ndExamination = &v
			case model.ExaminationGradeTypeDifference:
				v := avg
				catalog.SubjectCatalogAvgAnnual = &v
			}
			return
		}
		catalog.SubjectCatalogAvgFinal = copyDecimal(catalog.SubjectCatalogAvgAnnual)
		if gradeType == model.ExaminationGradeTypeSecondExamination {
			catalog.SubjectCatalogAvgAfter2ndExamination = nil
		}
		return
	}

	// Per-semester difference.
	if len(scoped) == 2 {
		rounded := helper.NormalRound(ComputeExaminationPairAverage(scoped[0], scoped[1]))
		if *semester == 1 {
			catalog.SubjectCatalogAvgSem1 = &rounded
		} else {
			catalog.SubjectCatalogAvgSem2 = &rounded
		}
	} else {
		if *semester == 1 {
			catalog.SubjectCatalogAvgSem1 = nil
		} else {
			catalog.SubjectCatalogAvgSem2 = nil
		}
	}
	catalog.SubjectCatalogAvgAnnual = ComputeAnnualAverage(catalog.SubjectCatalogAvgSem1, catalog.SubjectCatalogAvgSem2)
	catalog.SubjectCatalogAvgFinal = copyDecimal(catalog.SubjectCatalogAvgAnnual)
}

// ApplySemesterAverage writes a freshly computed semester average onto the
// catalog and cascades the annual/final re-derivation.
func ApplySemesterAverage(catalog *model.SubjectCatalogModel, semester int, avg *int) {
	if semester == 1 {
		catalog.SubjectCatalogAvgSem1 = avg
	} else {
		catalog.SubjectCatalogAvgSem2 = avg
	}
	catalog.SubjectCatalogAvgAnnual = ComputeAnnualAverage(catalog.SubjectCatalogAvgSem1, catalog.SubjectCatalogAvgSem2)
	catalog.SubjectCatalogAvgFinal = copyDecimal(catalog.SubjectCatalogAvgAnnual)
}

func sameSemesterScope(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

/* ============================================
   Persistence wrapper
============================================ */

type AverageService interface {
	RecomputeSemester(tx *gorm.DB, catalog *model.SubjectCatalogModel, subject *model.SubjectModel, semester int) error
	RecomputeExamination(tx *gorm.DB, catalog *model.SubjectCatalogModel, gradeType model.ExaminationGradeType, semester *int) error
}

type averageSvc struct {
	scheduler aggregates.PropagationScheduler
}

func NewAverageService(scheduler aggregates.PropagationScheduler) AverageService {
	return &averageSvc{scheduler: scheduler}
}

// RecomputeSemester reloads the catalog's grades, re-derives the semester +
// annual + final averages, persists the catalog and schedules propagation for
// the owning student.
func (s *averageSvc) RecomputeSemester(tx *gorm.DB, catalog *model.SubjectCatalogModel, subject *model.SubjectModel, semester int) error {
	var grades []model.SubjectGradeModel
	if err := tx.
		Where("subject_grade_subject_catalog_id = ?", catalog.SubjectCatalogID).
		Find(&grades).Error; err != nil {
		log.Printf("[AVERAGE] ERROR load grades catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea notelor")
	}

	avg := ComputeSemesterAverage(grades, semester, catalog.SubjectCatalogWantsThesis, subject.RequiredGradeCount())
	ApplySemesterAverage(catalog, semester, avg)

	if err := tx.Model(catalog).
		Select("subject_catalog_avg_sem1", "subject_catalog_avg_sem2", "subject_catalog_avg_annual", "subject_catalog_avg_final").
		Updates(map[string]any{
			"subject_catalog_avg_sem1":   catalog.SubjectCatalogAvgSem1,
			"subject_catalog_avg_sem2":   catalog.SubjectCatalogAvgSem2,
			"subject_catalog_avg_annual": catalog.SubjectCatalogAvgAnnual,
			"subject_catalog_avg_final":  catalog.SubjectCatalogAvgFinal,
		}).Error; err != nil {
		log.Printf("[AVERAGE] ERROR persist averages catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea mediilor")
	}

	s.scheduler.SchedulePropagation(aggregates.AffectedStudents{
		StudyClassID:   catalog.SubjectCatalogStudyClassID,
		AcademicYearID: catalog.SubjectCatalogAcademicYearID,
		StudentIDs:     []uuid.UUID{catalog.SubjectCatalogStudentID},
	})
	return nil
}

// RecomputeExamination reloads the examination-grade collection and re-derives
// the slot owned by (gradeType, semester).
func (s *averageSvc) RecomputeExamination(tx *gorm.DB, catalog *model.SubjectCatalogModel, gradeType model.ExaminationGradeType, semester *int) error {
	var records []model.ExaminationGradeModel
	if err := tx.
		Where("examination_grade_subject_catalog_id = ?", catalog.SubjectCatalogID).
		Find(&records).Error; err != nil {
		log.Printf("[AVERAGE] ERROR load examination grades catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea notelor de examen")
	}

	ApplyExaminationGradeChange(catalog, records, gradeType, semester)

	if err := tx.Model(catalog).
		Select("subject_catalog_avg_sem1", "subject_catalog_avg_sem2", "subject_catalog_avg_annual",
			"subject_catalog_avg_final", "subject_catalog_avg_after_2nd_examination").
		Updates(map[string]any{
			"subject_catalog_avg_sem1":                  catalog.SubjectCatalogAvgSem1,
			"subject_catalog_avg_sem2":                  catalog.SubjectCatalogAvgSem2,
			"subject_catalog_avg_annual":                catalog.SubjectCatalogAvgAnnual,
			"subject_catalog_avg_final":                 catalog.SubjectCatalogAvgFinal,
			"subject_catalog_avg_after_2nd_examination": catalog.SubjectCatalogAvgAfter2ndExamination,
		}).Error; err != nil {
		log.Printf("[AVERAGE] ERROR persist examination averages catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea mediilor")
	}

	s.scheduler.SchedulePropagation(aggregates.AffectedStudents{
		StudyClassID:   catalog.SubjectCatalogStudyClassID,
		AcademicYearID: catalog.SubjectCatalogAcademicYearID,
		StudentIDs:     []uuid.UUID{catalog.SubjectCatalogStudentID},
	})
	return nil
}
