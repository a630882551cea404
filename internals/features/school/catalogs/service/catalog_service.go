// file: internals/features/school/catalogs/service/catalog_service.go
//
// The mutation surface of the catalog: single-record operations validate,
// persist and recompute the owning catalog's derived fields synchronously,
// then hand multi-level aggregation to the propagation queue. A validation
// failure rejects the whole request, nothing is written.
package service

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	"catalogscolar_backend/internals/features/school/catalogs/dto"
	model "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	helper "catalogscolar_backend/internals/helpers"
)

const (
	WireDateLayout = "2006-01-02"

	// Editable windows. Business-rule gates, not concurrency control.
	AbsenceEditWindow     = 7 * 24 * time.Hour
	ExaminationEditWindow = 2 * time.Hour
)

type CatalogService interface {
	RecordGrade(db *gorm.DB, req *dto.RecordGradeRequest) (*dto.SubjectCatalogResponse, error)
	RecordAbsence(db *gorm.DB, req *dto.RecordAbsenceRequest) (*dto.SubjectCatalogResponse, error)
	AuthorizeAbsence(db *gorm.DB, catalogID, absenceID uuid.UUID) (*dto.SubjectCatalogResponse, error)
	DeleteAbsence(db *gorm.DB, catalogID, absenceID uuid.UUID) (*dto.SubjectCatalogResponse, error)
	RecordExaminationGrade(db *gorm.DB, req *dto.RecordExaminationGradeRequest) (*dto.SubjectCatalogResponse, error)
	BulkRecordGrades(db *gorm.DB, req *dto.BulkRecordGradesRequest) ([]*dto.SubjectCatalogResponse, error)
	BulkRecordAbsences(db *gorm.DB, req *dto.BulkRecordAbsencesRequest) ([]*dto.SubjectCatalogResponse, error)
}

type catalogSvc struct {
	calendar calService.CalendarService
	averages AverageService
	counters AbsenceCounterService
}

func NewCatalogService(calendar calService.CalendarService, scheduler aggregates.PropagationScheduler) CatalogService {
	return &catalogSvc{
		calendar: calendar,
		averages: NewAverageService(scheduler),
		counters: NewAbsenceCounterService(scheduler),
	}
}

/* ============================================
   Shared loading and validation gates
============================================ */

type catalogScope struct {
	catalog *model.SubjectCatalogModel
	subject *model.SubjectModel
	class   *classmodel.StudyClassModel
}

func loadCatalogScope(tx *gorm.DB, catalogID uuid.UUID) (*catalogScope, error) {
	var catalog model.SubjectCatalogModel
	if err := tx.First(&catalog, "subject_catalog_id = ?", catalogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Catalogul nu există")
		}
		log.Printf("[CATALOG] ERROR load catalog id=%s err=%v", catalogID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea catalogului")
	}
	var subject model.SubjectModel
	if err := tx.First(&subject, "subject_id = ?", catalog.SubjectCatalogSubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Materia nu există")
		}
		log.Printf("[CATALOG] ERROR load subject id=%s err=%v", catalog.SubjectCatalogSubjectID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea materiei")
	}
	var class classmodel.StudyClassModel
	if err := tx.First(&class, "study_class_id = ?", catalog.SubjectCatalogStudyClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Clasa nu există")
		}
		log.Printf("[CATALOG] ERROR load class id=%s err=%v", catalog.SubjectCatalogStudyClassID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea clasei")
	}
	return &catalogScope{catalog: &catalog, subject: &subject, class: &class}, nil
}

func guardMutable(catalog *model.SubjectCatalogModel) error {
	if !catalog.SubjectCatalogIsEnrolled {
		return helper.NewValidationError("subject_catalog_id", "Elevul nu este înscris la această materie")
	}
	if catalog.SubjectCatalogIsExempted {
		return helper.NewValidationError("subject_catalog_id", "Elevul este scutit de această materie")
	}
	return nil
}

// resolveSemester parses the wire date, rejects future dates, and maps the
// date onto the active semester of the class's grade/track.
func resolveSemester(snap *calService.CalendarSnapshot, raw string, class *classmodel.StudyClassModel) (time.Time, int, error) {
	takenAt, err := time.Parse(WireDateLayout, raw)
	if err != nil {
		return time.Time{}, 0, helper.NewValidationError("taken_at", "Data trebuie să aibă formatul AAAA-LL-ZZ")
	}
	if takenAt.After(time.Now()) {
		return time.Time{}, 0, helper.NewValidationError("taken_at", "Data nu poate fi în viitor")
	}
	sem := snap.CurrentSemester(takenAt, class.StudyClassGrade, class.StudyClassTrack)
	if sem == 0 {
		return time.Time{}, 0, helper.NewValidationError("taken_at", "Data nu se află într-un semestru activ")
	}
	return takenAt, sem, nil
}

/* ============================================
   Grades
============================================ */

func (s *catalogSvc) RecordGrade(db *gorm.DB, req *dto.RecordGradeRequest) (*dto.SubjectCatalogResponse, error) {
	snap, err := s.calendar.Snapshot()
	if err != nil {
		return nil, err
	}

	var resp *dto.SubjectCatalogResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		scope, err := loadCatalogScope(tx, req.SubjectCatalogID)
		if err != nil {
			return err
		}
		if err := guardMutable(scope.catalog); err != nil {
			return err
		}
		takenAt, sem, err := resolveSemester(snap, req.TakenAt, scope.class)
		if err != nil {
			return err
		}

		gradeType := model.GradeType(req.GradeType)
		if gradeType == "" {
			gradeType = model.GradeTypeRegular
		}
		if gradeType == model.GradeTypeThesis && !scope.catalog.SubjectCatalogWantsThesis {
			return helper.NewValidationError("grade_type", "Materia nu are teză")
		}

		grade := model.SubjectGradeModel{
			SubjectGradeSubjectCatalogID: scope.catalog.SubjectCatalogID,
			SubjectGradeGrade:            req.Grade,
			SubjectGradeType:             gradeType,
			SubjectGradeSemester:         sem,
			SubjectGradeTakenAt:          takenAt,
		}
		if err := tx.Create(&grade).Error; err != nil {
			log.Printf("[CATALOG] ERROR create grade catalogID=%s err=%v", scope.catalog.SubjectCatalogID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea notei")
		}

		if err := s.averages.RecomputeSemester(tx, scope.catalog, scope.subject, sem); err != nil {
			return err
		}
		resp = dto.NewSubjectCatalogResponse(scope.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *catalogSvc) BulkRecordGrades(db *gorm.DB, req *dto.BulkRecordGradesRequest) ([]*dto.SubjectCatalogResponse, error) {
	snap, err := s.calendar.Snapshot()
	if err != nil {
		return nil, err
	}

	var out []*dto.SubjectCatalogResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		scopes := map[uuid.UUID]*catalogScope{}
		type pending struct {
			scope    *catalogScope
			semester int
		}
		recompute := map[uuid.UUID]map[int]pending{}

		for _, item := range req.Items {
			scope, ok := scopes[item.SubjectCatalogID]
			if !ok {
				var err error
				scope, err = loadCatalogScope(tx, item.SubjectCatalogID)
				if err != nil {
					return err
				}
				scopes[item.SubjectCatalogID] = scope
			}
			if err := guardMutable(scope.catalog); err != nil {
				return err
			}
			takenAt, sem, err := resolveSemester(snap, item.TakenAt, scope.class)
			if err != nil {
				return err
			}

			gradeType := model.GradeType(item.GradeType)
			if gradeType == "" {
				gradeType = model.GradeTypeRegular
			}
			if gradeType == model.GradeTypeThesis && !scope.catalog.SubjectCatalogWantsThesis {
				return helper.NewValidationError("grade_type", "Materia nu are teză")
			}

			grade := model.SubjectGradeModel{
				SubjectGradeSubjectCatalogID: scope.catalog.SubjectCatalogID,
				SubjectGradeGrade:            item.Grade,
				SubjectGradeType:             gradeType,
				SubjectGradeSemester:         sem,
				SubjectGradeTakenAt:          takenAt,
			}
			if err := tx.Create(&grade).Error; err != nil {
				log.Printf("[CATALOG] ERROR bulk create grade catalogID=%s err=%v", scope.catalog.SubjectCatalogID, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea notelor")
			}

			if recompute[scope.catalog.SubjectCatalogID] == nil {
				recompute[scope.catalog.SubjectCatalogID] = map[int]pending{}
			}
			recompute[scope.catalog.SubjectCatalogID][sem] = pending{scope: scope, semester: sem}
		}

		// One recompute per touched (catalog, semester), not per grade.
		for _, sems := range recompute {
			for _, p := range sems {
				if err := s.averages.RecomputeSemester(tx, p.scope.catalog, p.scope.subject, p.semester); err != nil {
					return err
				}
			}
		}
		for _, scope := range scopes {
			out = append(out, dto.NewSubjectCatalogResponse(scope.catalog))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ============================================
   Absences
============================================ */

func (s *catalogSvc) RecordAbsence(db *gorm.DB, req *dto.RecordAbsenceRequest) (*dto.SubjectCatalogResponse, error) {
	snap, err := s.calendar.Snapshot()
	if err != nil {
		return nil, err
	}

	var resp *dto.SubjectCatalogResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		scope, err := loadCatalogScope(tx, req.SubjectCatalogID)
		if err != nil {
			return err
		}
		if err := guardMutable(scope.catalog); err != nil {
			return err
		}
		takenAt, sem, err := resolveSemester(snap, req.TakenAt, scope.class)
		if err != nil {
			return err
		}

		absence := model.SubjectAbsenceModel{
			SubjectAbsenceSubjectCatalogID: scope.catalog.SubjectCatalogID,
			SubjectAbsenceSemester:         sem,
			SubjectAbsenceTakenAt:          takenAt,
			SubjectAbsenceIsFounded:        false,
		}
		if err := tx.Create(&absence).Error; err != nil {
			log.Printf("[CATALOG] ERROR create absence catalogID=%s err=%v", scope.catalog.SubjectCatalogID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea absenței")
		}

		if err := s.counters.OnAdd(tx, scope.catalog, &absence); err != nil {
			return err
		}
		resp = dto.NewSubjectCatalogResponse(scope.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func loadAbsence(tx *gorm.DB, catalogID, absenceID uuid.UUID) (*model.SubjectAbsenceModel, error) {
	var absence model.SubjectAbsenceModel
	err := tx.
		Where("subject_absence_id = ? AND subject_absence_subject_catalog_id = ?", absenceID, catalogID).
		First(&absence).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Absența nu există")
	}
	if err != nil {
		log.Printf("[CATALOG] ERROR load absence id=%s err=%v", absenceID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea absenței")
	}
	return &absence, nil
}

func (s *catalogSvc) AuthorizeAbsence(db *gorm.DB, catalogID, absenceID uuid.UUID) (*dto.SubjectCatalogResponse, error) {
	var resp *dto.SubjectCatalogResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		scope, err := loadCatalogScope(tx, catalogID)
		if err != nil {
			return err
		}
		absence, err := loadAbsence(tx, catalogID, absenceID)
		if err != nil {
			return err
		}
		if absence.SubjectAbsenceIsFounded {
			return helper.NewValidationError("absence_id", "Absența este deja motivată")
		}
		if time.Since(absence.SubjectAbsenceCreatedAt) > AbsenceEditWindow {
			return helper.NewValidationError("absence_id", "Absența nu mai poate fi motivată după 7 zile")
		}

		if err := tx.Model(absence).
			Update("subject_absence_is_founded", true).Error; err != nil {
			log.Printf("[CATALOG] ERROR authorize absence id=%s err=%v", absenceID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la motivarea absenței")
		}
		absence.SubjectAbsenceIsFounded = true

		if err := s.counters.OnAuthorize(tx, scope.catalog, absence); err != nil {
			return err
		}
		resp = dto.NewSubjectCatalogResponse(scope.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *catalogSvc) DeleteAbsence(db *gorm.DB, catalogID, absenceID uuid.UUID) (*dto.SubjectCatalogResponse, error) {
	var resp *dto.SubjectCatalogResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		scope, err := loadCatalogScope(tx, catalogID)
		if err != nil {
			return err
		}
		absence, err := loadAbsence(tx, catalogID, absenceID)
		if err != nil {
			return err
		}
		if time.Since(absence.SubjectAbsenceCreatedAt) > AbsenceEditWindow {
			return helper.NewValidationError("absence_id", "Absența nu mai poate fi ștearsă după 7 zile")
		}

		if err := tx.Delete(absence).Error; err != nil {
			log.Printf("[CATALOG] ERROR delete absence id=%s err=%v", absenceID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la ștergerea absenței")
		}

		if err := s.counters.OnDelete(tx, scope.catalog, absence.SubjectAbsenceSemester, absence.SubjectAbsenceIsFounded); err != nil {
			return err
		}
		resp = dto.NewSubjectCatalogResponse(scope.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *catalogSvc) BulkRecordAbsences(db *gorm.DB, req *dto.BulkRecordAbsencesRequest) ([]*dto.SubjectCatalogResponse, error) {
	snap, err := s.calendar.Snapshot()
	if err != nil {
		return nil, err
	}

	var out []*dto.SubjectCatalogResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		var catalogs []*model.SubjectCatalogModel
		perCatalog := map[uuid.UUID]int{}
		var classID uuid.UUID
		semester := 0
		var takenAt time.Time

		for _, id := range req.SubjectCatalogIDs {
			scope, err := loadCatalogScope(tx, id)
			if err != nil {
				return err
			}
			if err := guardMutable(scope.catalog); err != nil {
				return err
			}
			if semester == 0 {
				classID = scope.class.StudyClassID
				takenAt, semester, err = resolveSemester(snap, req.TakenAt, scope.class)
				if err != nil {
					return err
				}
			} else if scope.class.StudyClassID != classID {
				// One lesson, one class: mixed classes mean a caller bug.
				return helper.NewValidationError("subject_catalog_ids", "Toate cataloagele trebuie să aparțină aceleiași clase")
			}

			absence := model.SubjectAbsenceModel{
				SubjectAbsenceSubjectCatalogID: scope.catalog.SubjectCatalogID,
				SubjectAbsenceSemester:         semester,
				SubjectAbsenceTakenAt:          takenAt,
				SubjectAbsenceIsFounded:        false,
			}
			if err := tx.Create(&absence).Error; err != nil {
				log.Printf("[CATALOG] ERROR bulk create absence catalogID=%s err=%v", id, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea absențelor")
			}
			catalogs = append(catalogs, scope.catalog)
			perCatalog[scope.catalog.SubjectCatalogID]++
		}

		if err := s.counters.OnBulkAdd(tx, catalogs, perCatalog, semester); err != nil {
			return err
		}
		for _, cat := range catalogs {
			out = append(out, dto.NewSubjectCatalogResponse(cat))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ============================================
   Examination grades
============================================ */

func (s *catalogSvc) RecordExaminationGrade(db *gorm.DB, req *dto.RecordExaminationGradeRequest) (*dto.SubjectCatalogResponse, error) {
	var resp *dto.SubjectCatalogResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		scope, err := loadCatalogScope(tx, req.SubjectCatalogID)
		if err != nil {
			return err
		}
		if err := guardMutable(scope.catalog); err != nil {
			return err
		}

		gradeType := model.ExaminationGradeType(req.GradeType)
		examType := model.ExaminationType(req.ExaminationType)
		if gradeType == model.ExaminationGradeTypeSecondExamination && req.Semester != nil {
			return helper.NewValidationError("semester", "Corigența nu poate avea semestru")
		}

		var existing []model.ExaminationGradeModel
		if err := tx.
			Where("examination_grade_subject_catalog_id = ? AND examination_grade_type = ?",
				scope.catalog.SubjectCatalogID, gradeType).
			Find(&existing).Error; err != nil {
			log.Printf("[CATALOG] ERROR load examination grades catalogID=%s err=%v", scope.catalog.SubjectCatalogID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea notelor de examen")
		}

		// Whole-year and per-semester difference records are mutually
		// exclusive within one catalog.
		if gradeType == model.ExaminationGradeTypeDifference {
			for i := range existing {
				other := existing[i].ExaminationGradeSemester
				if (req.Semester == nil) != (other == nil) {
					return helper.NewValidationError("semester", "Diferența pe semestru și pe an nu pot coexista")
				}
			}
		}

		// At most one ORAL and one WRITTEN record per scope. A record younger
		// than the editable window is replaced, an older one is frozen.
		for i := range existing {
			rec := &existing[i]
			if rec.ExaminationGradeExaminationType != examType || !sameSemesterScope(rec.ExaminationGradeSemester, req.Semester) {
				continue
			}
			if time.Since(rec.ExaminationGradeCreatedAt) > ExaminationEditWindow {
				return helper.NewValidationError("examination_type", "Proba este deja notată și nu mai poate fi modificată")
			}
			if err := tx.Model(rec).Updates(map[string]any{
				"examination_grade_grade_1": req.Grade1,
				"examination_grade_grade_2": req.Grade2,
			}).Error; err != nil {
				log.Printf("[CATALOG] ERROR update examination grade id=%s err=%v", rec.ExaminationGradeID, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea notei de examen")
			}
			return s.finishExamination(tx, scope, gradeType, req.Semester, &resp)
		}

		record := model.ExaminationGradeModel{
			ExaminationGradeSubjectCatalogID: scope.catalog.SubjectCatalogID,
			ExaminationGradeGrade1:           req.Grade1,
			ExaminationGradeGrade2:           req.Grade2,
			ExaminationGradeExaminationType:  examType,
			ExaminationGradeType:             gradeType,
			ExaminationGradeSemester:         req.Semester,
		}
		if err := tx.Create(&record).Error; err != nil {
			log.Printf("[CATALOG] ERROR create examination grade catalogID=%s err=%v", scope.catalog.SubjectCatalogID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Eroare la salvarea notei de examen")
		}
		return s.finishExamination(tx, scope, gradeType, req.Semester, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *catalogSvc) finishExamination(tx *gorm.DB, scope *catalogScope, gradeType model.ExaminationGradeType, semester *int, resp **dto.SubjectCatalogResponse) error {
	if err := s.averages.RecomputeExamination(tx, scope.catalog, gradeType, semester); err != nil {
		return err
	}
	*resp = dto.NewSubjectCatalogResponse(scope.catalog)
	return nil
}
