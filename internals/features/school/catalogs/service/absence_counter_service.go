// file: internals/features/school/catalogs/service/absence_counter_service.go
//
// Denormalized absence counters on the subject catalog, maintained
// incrementally: a single absence mutation adjusts exactly the right
// {total,founded,unfounded} × {semester,annual} counters without a full
// recount. Decrements floor at 0 in SQL (GREATEST) so double-delete races
// can never drive a counter negative.
package service

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

/* ============================================
   Pure delta application (in-memory mirror)
============================================ */

// ApplyAddDelta increments the counters for one new absence.
func ApplyAddDelta(cat *model.SubjectCatalogModel, semester int, founded bool) {
	bumpSemCounters(cat, semester, 1, founded)
}

// ApplyAuthorizeDelta flips one unfounded absence to founded: unfounded down
// (floored at 0), founded up, totals untouched.
func ApplyAuthorizeDelta(cat *model.SubjectCatalogModel, semester int) {
	if semester == 1 {
		cat.SubjectCatalogUnfoundedAbsCountSem1 = floor0(cat.SubjectCatalogUnfoundedAbsCountSem1 - 1)
		cat.SubjectCatalogFoundedAbsCountSem1++
	} else {
		cat.SubjectCatalogUnfoundedAbsCountSem2 = floor0(cat.SubjectCatalogUnfoundedAbsCountSem2 - 1)
		cat.SubjectCatalogFoundedAbsCountSem2++
	}
	cat.SubjectCatalogUnfoundedAbsCountAnnual = floor0(cat.SubjectCatalogUnfoundedAbsCountAnnual - 1)
	cat.SubjectCatalogFoundedAbsCountAnnual++
}

// ApplyDeleteDelta reverses one absence's contribution, flooring every
// decrement at 0.
func ApplyDeleteDelta(cat *model.SubjectCatalogModel, semester int, wasFounded bool) {
	if semester == 1 {
		cat.SubjectCatalogAbsCountSem1 = floor0(cat.SubjectCatalogAbsCountSem1 - 1)
		if wasFounded {
			cat.SubjectCatalogFoundedAbsCountSem1 = floor0(cat.SubjectCatalogFoundedAbsCountSem1 - 1)
		} else {
			cat.SubjectCatalogUnfoundedAbsCountSem1 = floor0(cat.SubjectCatalogUnfoundedAbsCountSem1 - 1)
		}
	} else {
		cat.SubjectCatalogAbsCountSem2 = floor0(cat.SubjectCatalogAbsCountSem2 - 1)
		if wasFounded {
			cat.SubjectCatalogFoundedAbsCountSem2 = floor0(cat.SubjectCatalogFoundedAbsCountSem2 - 1)
		} else {
			cat.SubjectCatalogUnfoundedAbsCountSem2 = floor0(cat.SubjectCatalogUnfoundedAbsCountSem2 - 1)
		}
	}
	cat.SubjectCatalogAbsCountAnnual = floor0(cat.SubjectCatalogAbsCountAnnual - 1)
	if wasFounded {
		cat.SubjectCatalogFoundedAbsCountAnnual = floor0(cat.SubjectCatalogFoundedAbsCountAnnual - 1)
	} else {
		cat.SubjectCatalogUnfoundedAbsCountAnnual = floor0(cat.SubjectCatalogUnfoundedAbsCountAnnual - 1)
	}
}

// ApplyBulkAddDelta adds n absences (all unfounded, bulk import never carries
// authorized absences) to one semester.
func ApplyBulkAddDelta(cat *model.SubjectCatalogModel, semester, n int) {
	bumpSemCounters(cat, semester, n, false)
}

func bumpSemCounters(cat *model.SubjectCatalogModel, semester, n int, founded bool) {
	if semester == 1 {
		cat.SubjectCatalogAbsCountSem1 += n
		if founded {
			cat.SubjectCatalogFoundedAbsCountSem1 += n
		} else {
			cat.SubjectCatalogUnfoundedAbsCountSem1 += n
		}
	} else {
		cat.SubjectCatalogAbsCountSem2 += n
		if founded {
			cat.SubjectCatalogFoundedAbsCountSem2 += n
		} else {
			cat.SubjectCatalogUnfoundedAbsCountSem2 += n
		}
	}
	cat.SubjectCatalogAbsCountAnnual += n
	if founded {
		cat.SubjectCatalogFoundedAbsCountAnnual += n
	} else {
		cat.SubjectCatalogUnfoundedAbsCountAnnual += n
	}
}

func floor0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

/* ============================================
   Persistence (atomic SQL counter updates)
============================================ */

type AbsenceCounterService interface {
	OnAdd(tx *gorm.DB, catalog *model.SubjectCatalogModel, absence *model.SubjectAbsenceModel) error
	OnAuthorize(tx *gorm.DB, catalog *model.SubjectCatalogModel, absence *model.SubjectAbsenceModel) error
	OnDelete(tx *gorm.DB, catalog *model.SubjectCatalogModel, semester int, wasFounded bool) error
	OnBulkAdd(tx *gorm.DB, catalogs []*model.SubjectCatalogModel, perCatalog map[uuid.UUID]int, semester int) error
}

type absenceCounterSvc struct {
	scheduler aggregates.PropagationScheduler
}

func NewAbsenceCounterService(scheduler aggregates.PropagationScheduler) AbsenceCounterService {
	return &absenceCounterSvc{scheduler: scheduler}
}

func counterCol(family string, period string) string {
	if family == "" {
		return fmt.Sprintf("subject_catalog_abs_count_%s", period)
	}
	return fmt.Sprintf("subject_catalog_%s_abs_count_%s", family, period)
}

func semPeriod(semester int) string {
	if semester == 1 {
		return "sem1"
	}
	return "sem2"
}

func (s *absenceCounterSvc) OnAdd(tx *gorm.DB, catalog *model.SubjectCatalogModel, absence *model.SubjectAbsenceModel) error {
	sem := absence.SubjectAbsenceSemester
	family := "unfounded"
	if absence.SubjectAbsenceIsFounded {
		family = "founded"
	}
	updates := map[string]any{
		counterCol("", semPeriod(sem)):     gorm.Expr(counterCol("", semPeriod(sem)) + " + 1"),
		counterCol("", "annual"):           gorm.Expr(counterCol("", "annual") + " + 1"),
		counterCol(family, semPeriod(sem)): gorm.Expr(counterCol(family, semPeriod(sem)) + " + 1"),
		counterCol(family, "annual"):       gorm.Expr(counterCol(family, "annual") + " + 1"),
	}
	if err := tx.Model(catalog).Updates(updates).Error; err != nil {
		log.Printf("[ABS-COUNTER] ERROR OnAdd catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la actualizarea contorului de absențe")
	}
	ApplyAddDelta(catalog, sem, absence.SubjectAbsenceIsFounded)
	s.schedule(catalog)
	return nil
}

func (s *absenceCounterSvc) OnAuthorize(tx *gorm.DB, catalog *model.SubjectCatalogModel, absence *model.SubjectAbsenceModel) error {
	sem := absence.SubjectAbsenceSemester
	updates := map[string]any{
		counterCol("unfounded", semPeriod(sem)): gorm.Expr("GREATEST(" + counterCol("unfounded", semPeriod(sem)) + " - 1, 0)"),
		counterCol("unfounded", "annual"):       gorm.Expr("GREATEST(" + counterCol("unfounded", "annual") + " - 1, 0)"),
		counterCol("founded", semPeriod(sem)):   gorm.Expr(counterCol("founded", semPeriod(sem)) + " + 1"),
		counterCol("founded", "annual"):         gorm.Expr(counterCol("founded", "annual") + " + 1"),
	}
	if err := tx.Model(catalog).Updates(updates).Error; err != nil {
		log.Printf("[ABS-COUNTER] ERROR OnAuthorize catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la actualizarea contorului de absențe")
	}
	ApplyAuthorizeDelta(catalog, sem)
	s.schedule(catalog)
	return nil
}

func (s *absenceCounterSvc) OnDelete(tx *gorm.DB, catalog *model.SubjectCatalogModel, semester int, wasFounded bool) error {
	family := "unfounded"
	if wasFounded {
		family = "founded"
	}
	updates := map[string]any{
		counterCol("", semPeriod(semester)):     gorm.Expr("GREATEST(" + counterCol("", semPeriod(semester)) + " - 1, 0)"),
		counterCol("", "annual"):                gorm.Expr("GREATEST(" + counterCol("", "annual") + " - 1, 0)"),
		counterCol(family, semPeriod(semester)): gorm.Expr("GREATEST(" + counterCol(family, semPeriod(semester)) + " - 1, 0)"),
		counterCol(family, "annual"):            gorm.Expr("GREATEST(" + counterCol(family, "annual") + " - 1, 0)"),
	}
	if err := tx.Model(catalog).Updates(updates).Error; err != nil {
		log.Printf("[ABS-COUNTER] ERROR OnDelete catalogID=%s err=%v", catalog.SubjectCatalogID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Eroare la actualizarea contorului de absențe")
	}
	ApplyDeleteDelta(catalog, semester, wasFounded)
	s.schedule(catalog)
	return nil
}

// OnBulkAdd is the batched form of OnAdd: bulk import targets one semester at
// a time, perCatalog carries how many absences landed on each catalog.
func (s *absenceCounterSvc) OnBulkAdd(tx *gorm.DB, catalogs []*model.SubjectCatalogModel, perCatalog map[uuid.UUID]int, semester int) error {
	for _, cat := range catalogs {
		n, ok := perCatalog[cat.SubjectCatalogID]
		if !ok || n == 0 {
			continue
		}
		inc := fmt.Sprintf(" + %d", n)
		updates := map[string]any{
			counterCol("", semPeriod(semester)):          gorm.Expr(counterCol("", semPeriod(semester)) + inc),
			counterCol("", "annual"):                     gorm.Expr(counterCol("", "annual") + inc),
			counterCol("unfounded", semPeriod(semester)): gorm.Expr(counterCol("unfounded", semPeriod(semester)) + inc),
			counterCol("unfounded", "annual"):            gorm.Expr(counterCol("unfounded", "annual") + inc),
		}
		if err := tx.Model(cat).Updates(updates).Error; err != nil {
			log.Printf("[ABS-COUNTER] ERROR OnBulkAdd catalogID=%s err=%v", cat.SubjectCatalogID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la actualizarea contoarelor de absențe")
		}
		ApplyBulkAddDelta(cat, semester, n)
	}
	if len(catalogs) > 0 {
		first := catalogs[0]
		ids := make([]uuid.UUID, 0, len(catalogs))
		for _, cat := range catalogs {
			ids = append(ids, cat.SubjectCatalogStudentID)
		}
		s.scheduler.SchedulePropagation(aggregates.AffectedStudents{
			StudyClassID:   first.SubjectCatalogStudyClassID,
			AcademicYearID: first.SubjectCatalogAcademicYearID,
			StudentIDs:     ids,
		})
	}
	return nil
}

func (s *absenceCounterSvc) schedule(catalog *model.SubjectCatalogModel) {
	s.scheduler.SchedulePropagation(aggregates.AffectedStudents{
		StudyClassID:   catalog.SubjectCatalogStudyClassID,
		AcademicYearID: catalog.SubjectCatalogAcademicYearID,
		StudentIDs:     []uuid.UUID{catalog.SubjectCatalogStudentID},
	})
}
