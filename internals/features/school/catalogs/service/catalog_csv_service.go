// file: internals/features/school/catalogs/service/catalog_csv_service.go
//
// Fixed CSV contract for one student's year catalog. Romanian column labels,
// one row per grade/absence/examination-pair plus one indicator row per
// subject. Export is canonically ordered so a re-export of imported data
// round-trips byte for byte.
//
//	Materie,Tip,Semestru,Valoare,Valoare 2,Data,Motivată,Indicatori
//
// Row kinds: nota, teza, corigenta-oral, corigenta-scris, diferenta-oral,
// diferenta-scris, absenta, indicatori.
package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	"catalogscolar_backend/internals/features/school/catalogs/dto"
	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

var csvHeader = []string{"Materie", "Tip", "Semestru", "Valoare", "Valoare 2", "Data", "Motivată", "Indicatori"}

const (
	rowKindGrade          = "nota"
	rowKindThesis         = "teza"
	rowKindSecondOral     = "corigenta-oral"
	rowKindSecondWritten  = "corigenta-scris"
	rowKindDiffOral       = "diferenta-oral"
	rowKindDiffWritten    = "diferenta-scris"
	rowKindAbsence        = "absenta"
	rowKindIndicators     = "indicatori"
	indicatorThesis       = "teza"
	indicatorLevelTesting = "testare-nivel"
	indicatorSimulation   = "simulare"
	indicatorExempted     = "scutit"
	indicatorNotEnrolled  = "neinscris"
	indicatorCoordination = "coordonare"
)

type CatalogCSVService interface {
	ImportCatalogCSV(db *gorm.DB, studentID, studyClassID, academicYearID uuid.UUID, data []byte) (*dto.ImportReport, error)
	ExportCatalogCSV(db *gorm.DB, studentID, studyClassID, academicYearID uuid.UUID) ([]byte, error)
}

type catalogCSVSvc struct {
	calendar  calService.CalendarService
	averages  AverageService
	counters  AbsenceCounterService
	scheduler aggregates.PropagationScheduler
}

func NewCatalogCSVService(calendar calService.CalendarService, scheduler aggregates.PropagationScheduler) CatalogCSVService {
	return &catalogCSVSvc{
		calendar:  calendar,
		averages:  NewAverageService(scheduler),
		counters:  NewAbsenceCounterService(scheduler),
		scheduler: scheduler,
	}
}

/* ============================================
   Export
============================================ */

type catalogWithSubject struct {
	catalog model.SubjectCatalogModel
	subject model.SubjectModel
}

func loadStudentCatalogs(db *gorm.DB, studentID, studyClassID, academicYearID uuid.UUID, withCollections bool) ([]catalogWithSubject, error) {
	q := db.Where("subject_catalog_student_id = ? AND subject_catalog_study_class_id = ? AND subject_catalog_academic_year_id = ?",
		studentID, studyClassID, academicYearID)
	if withCollections {
		q = q.Preload("SubjectCatalogGrades").
			Preload("SubjectCatalogAbsences").
			Preload("SubjectCatalogExaminationGrades")
	}
	var catalogs []model.SubjectCatalogModel
	if err := q.Find(&catalogs).Error; err != nil {
		log.Printf("[CATALOG-CSV] ERROR load catalogs studentID=%s err=%v", studentID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea catalogului")
	}
	if len(catalogs) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Catalogul elevului nu există")
	}

	out := make([]catalogWithSubject, 0, len(catalogs))
	for i := range catalogs {
		var subject model.SubjectModel
		if err := db.First(&subject, "subject_id = ?", catalogs[i].SubjectCatalogSubjectID).Error; err != nil {
			log.Printf("[CATALOG-CSV] ERROR load subject id=%s err=%v", catalogs[i].SubjectCatalogSubjectID, err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea materiilor")
		}
		out = append(out, catalogWithSubject{catalog: catalogs[i], subject: subject})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].subject.SubjectName < out[j].subject.SubjectName })
	return out, nil
}

func (s *catalogCSVSvc) ExportCatalogCSV(db *gorm.DB, studentID, studyClassID, academicYearID uuid.UUID) ([]byte, error) {
	entries, err := loadStudentCatalogs(db, studentID, studyClassID, academicYearID, true)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la generarea fișierului CSV")
	}
	for i := range entries {
		writeSubjectRows(w, &entries[i])
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la generarea fișierului CSV")
	}
	return buf.Bytes(), nil
}

func writeSubjectRows(w *csv.Writer, e *catalogWithSubject) {
	name := e.subject.SubjectName
	cat := &e.catalog

	grades := append([]model.SubjectGradeModel(nil), cat.SubjectCatalogGrades...)
	sort.Slice(grades, func(i, j int) bool {
		a, b := &grades[i], &grades[j]
		if a.SubjectGradeSemester != b.SubjectGradeSemester {
			return a.SubjectGradeSemester < b.SubjectGradeSemester
		}
		if !a.SubjectGradeTakenAt.Equal(b.SubjectGradeTakenAt) {
			return a.SubjectGradeTakenAt.Before(b.SubjectGradeTakenAt)
		}
		if a.SubjectGradeType != b.SubjectGradeType {
			return a.SubjectGradeType == model.GradeTypeRegular
		}
		return a.SubjectGradeGrade < b.SubjectGradeGrade
	})
	for i := range grades {
		g := &grades[i]
		kind := rowKindGrade
		if g.SubjectGradeType == model.GradeTypeThesis {
			kind = rowKindThesis
		}
		w.Write([]string{name, kind, strconv.Itoa(g.SubjectGradeSemester),
			strconv.Itoa(g.SubjectGradeGrade), "", g.SubjectGradeTakenAt.Format(WireDateLayout), "", ""})
	}

	exams := append([]model.ExaminationGradeModel(nil), cat.SubjectCatalogExaminationGrades...)
	sort.Slice(exams, func(i, j int) bool {
		a, b := &exams[i], &exams[j]
		if a.ExaminationGradeType != b.ExaminationGradeType {
			return a.ExaminationGradeType == model.ExaminationGradeTypeSecondExamination
		}
		as, bs := examSortSemester(a), examSortSemester(b)
		if as != bs {
			return as < bs
		}
		return a.ExaminationGradeExaminationType == model.ExaminationTypeOral
	})
	for i := range exams {
		ex := &exams[i]
		sem := ""
		if ex.ExaminationGradeSemester != nil {
			sem = strconv.Itoa(*ex.ExaminationGradeSemester)
		}
		w.Write([]string{name, examRowKind(ex), sem,
			strconv.Itoa(ex.ExaminationGradeGrade1), strconv.Itoa(ex.ExaminationGradeGrade2), "", "", ""})
	}

	absences := append([]model.SubjectAbsenceModel(nil), cat.SubjectCatalogAbsences...)
	sort.Slice(absences, func(i, j int) bool {
		a, b := &absences[i], &absences[j]
		if a.SubjectAbsenceSemester != b.SubjectAbsenceSemester {
			return a.SubjectAbsenceSemester < b.SubjectAbsenceSemester
		}
		if !a.SubjectAbsenceTakenAt.Equal(b.SubjectAbsenceTakenAt) {
			return a.SubjectAbsenceTakenAt.Before(b.SubjectAbsenceTakenAt)
		}
		return !a.SubjectAbsenceIsFounded && b.SubjectAbsenceIsFounded
	})
	for i := range absences {
		a := &absences[i]
		founded := "nu"
		if a.SubjectAbsenceIsFounded {
			founded = "da"
		}
		w.Write([]string{name, rowKindAbsence, strconv.Itoa(a.SubjectAbsenceSemester),
			"", "", a.SubjectAbsenceTakenAt.Format(WireDateLayout), founded, ""})
	}

	w.Write([]string{name, rowKindIndicators, "", "", "", "", "", indicatorList(cat)})
}

func examSortSemester(e *model.ExaminationGradeModel) int {
	if e.ExaminationGradeSemester == nil {
		return 0
	}
	return *e.ExaminationGradeSemester
}

func examRowKind(e *model.ExaminationGradeModel) string {
	oral := e.ExaminationGradeExaminationType == model.ExaminationTypeOral
	if e.ExaminationGradeType == model.ExaminationGradeTypeSecondExamination {
		if oral {
			return rowKindSecondOral
		}
		return rowKindSecondWritten
	}
	if oral {
		return rowKindDiffOral
	}
	return rowKindDiffWritten
}

func indicatorList(cat *model.SubjectCatalogModel) string {
	var tokens []string
	if cat.SubjectCatalogWantsThesis {
		tokens = append(tokens, indicatorThesis)
	}
	if cat.SubjectCatalogWantsLevelTestingGrade {
		tokens = append(tokens, indicatorLevelTesting)
	}
	if cat.SubjectCatalogWantsSimulation {
		tokens = append(tokens, indicatorSimulation)
	}
	if cat.SubjectCatalogIsExempted {
		tokens = append(tokens, indicatorExempted)
	}
	if !cat.SubjectCatalogIsEnrolled {
		tokens = append(tokens, indicatorNotEnrolled)
	}
	if cat.SubjectCatalogIsCoordinationSubject {
		tokens = append(tokens, indicatorCoordination)
	}
	return strings.Join(tokens, ";")
}

/* ============================================
   Import
============================================ */

// ImportCatalogCSV applies rows one by one; a failed row lands in the report
// and does not block the rest. Each valid row commits in its own transaction,
// so partial success is the expected outcome, not an error.
func (s *catalogCSVSvc) ImportCatalogCSV(db *gorm.DB, studentID, studyClassID, academicYearID uuid.UUID, data []byte) (*dto.ImportReport, error) {
	entries, err := loadStudentCatalogs(db, studentID, studyClassID, academicYearID, false)
	if err != nil {
		return nil, err
	}
	byName := map[string]*catalogWithSubject{}
	for i := range entries {
		byName[entries[i].subject.SubjectName] = &entries[i]
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(csvHeader)

	header, err := r.Read()
	if err != nil || !equalFields(header, csvHeader) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Antetul fișierului CSV este invalid")
	}

	report := &dto.ImportReport{RejectedRows: []dto.ImportRowError{}}
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.RejectedRows = append(report.RejectedRows, dto.ImportRowError{Line: line, Message: "Rând CSV invalid"})
			continue
		}
		if rowErr := s.importRow(db, byName, record); rowErr != nil {
			rowErr.Line = line
			report.RejectedRows = append(report.RejectedRows, *rowErr)
			continue
		}
		report.ImportedRows++
	}
	return report, nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != b[i] {
			return false
		}
	}
	return true
}

func (s *catalogCSVSvc) importRow(db *gorm.DB, byName map[string]*catalogWithSubject, record []string) *dto.ImportRowError {
	entry, ok := byName[strings.TrimSpace(record[0])]
	if !ok {
		return &dto.ImportRowError{Field: "Materie", Message: "Materie necunoscută"}
	}
	kind := strings.TrimSpace(record[1])

	switch kind {
	case rowKindGrade, rowKindThesis:
		return s.importGradeRow(db, entry, kind, record)
	case rowKindSecondOral, rowKindSecondWritten, rowKindDiffOral, rowKindDiffWritten:
		return s.importExaminationRow(db, entry, kind, record)
	case rowKindAbsence:
		return s.importAbsenceRow(db, entry, record)
	case rowKindIndicators:
		return s.importIndicatorsRow(db, entry, record)
	default:
		return &dto.ImportRowError{Field: "Tip", Message: fmt.Sprintf("Tip de rând necunoscut: %q", kind)}
	}
}

func parseSemesterField(raw string) (*int, *dto.ImportRowError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	sem, err := strconv.Atoi(raw)
	if err != nil || (sem != 1 && sem != 2) {
		return nil, &dto.ImportRowError{Field: "Semestru", Message: "Semestrul trebuie să fie 1 sau 2"}
	}
	return &sem, nil
}

func parseGradeField(field, raw string) (int, *dto.ImportRowError) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < model.MinGrade || v > model.MaxGrade {
		return 0, &dto.ImportRowError{Field: field, Message: "Nota trebuie să fie între 1 și 10"}
	}
	return v, nil
}

func (s *catalogCSVSvc) importGradeRow(db *gorm.DB, entry *catalogWithSubject, kind string, record []string) *dto.ImportRowError {
	sem, rowErr := parseSemesterField(record[2])
	if rowErr != nil {
		return rowErr
	}
	if sem == nil {
		return &dto.ImportRowError{Field: "Semestru", Message: "Nota trebuie să aibă semestru"}
	}
	grade, rowErr := parseGradeField("Valoare", record[3])
	if rowErr != nil {
		return rowErr
	}
	takenAt, err := parseWireDate(record[5])
	if err != nil {
		return &dto.ImportRowError{Field: "Data", Message: "Data trebuie să aibă formatul AAAA-LL-ZZ"}
	}
	gradeType := model.GradeTypeRegular
	if kind == rowKindThesis {
		gradeType = model.GradeTypeThesis
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		row := model.SubjectGradeModel{
			SubjectGradeSubjectCatalogID: entry.catalog.SubjectCatalogID,
			SubjectGradeGrade:            grade,
			SubjectGradeType:             gradeType,
			SubjectGradeSemester:         *sem,
			SubjectGradeTakenAt:          takenAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return s.averages.RecomputeSemester(tx, &entry.catalog, &entry.subject, *sem)
	})
	if err != nil {
		log.Printf("[CATALOG-CSV] ERROR import grade row catalogID=%s err=%v", entry.catalog.SubjectCatalogID, err)
		return &dto.ImportRowError{Message: "Eroare la salvarea notei"}
	}
	return nil
}

func (s *catalogCSVSvc) importExaminationRow(db *gorm.DB, entry *catalogWithSubject, kind string, record []string) *dto.ImportRowError {
	sem, rowErr := parseSemesterField(record[2])
	if rowErr != nil {
		return rowErr
	}
	grade1, rowErr := parseGradeField("Valoare", record[3])
	if rowErr != nil {
		return rowErr
	}
	grade2, rowErr := parseGradeField("Valoare 2", record[4])
	if rowErr != nil {
		return rowErr
	}

	gradeType := model.ExaminationGradeTypeSecondExamination
	if kind == rowKindDiffOral || kind == rowKindDiffWritten {
		gradeType = model.ExaminationGradeTypeDifference
	}
	examType := model.ExaminationTypeOral
	if kind == rowKindSecondWritten || kind == rowKindDiffWritten {
		examType = model.ExaminationTypeWritten
	}
	if gradeType == model.ExaminationGradeTypeSecondExamination && sem != nil {
		return &dto.ImportRowError{Field: "Semestru", Message: "Corigența nu poate avea semestru"}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []model.ExaminationGradeModel
		if err := tx.
			Where("examination_grade_subject_catalog_id = ? AND examination_grade_type = ?",
				entry.catalog.SubjectCatalogID, gradeType).
			Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			rec := &existing[i]
			if gradeType == model.ExaminationGradeTypeDifference &&
				(sem == nil) != (rec.ExaminationGradeSemester == nil) {
				return errDiffScope
			}
			if rec.ExaminationGradeExaminationType == examType && sameSemesterScope(rec.ExaminationGradeSemester, sem) {
				return errDuplicateExam
			}
		}
		row := model.ExaminationGradeModel{
			ExaminationGradeSubjectCatalogID: entry.catalog.SubjectCatalogID,
			ExaminationGradeGrade1:           grade1,
			ExaminationGradeGrade2:           grade2,
			ExaminationGradeExaminationType:  examType,
			ExaminationGradeType:             gradeType,
			ExaminationGradeSemester:         sem,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return s.averages.RecomputeExamination(tx, &entry.catalog, gradeType, sem)
	})
	if errors.Is(err, errDuplicateExam) {
		return &dto.ImportRowError{Field: "Tip", Message: "Proba de examen există deja"}
	}
	if errors.Is(err, errDiffScope) {
		return &dto.ImportRowError{Field: "Semestru", Message: "Diferența pe semestru și pe an nu pot coexista"}
	}
	if err != nil {
		log.Printf("[CATALOG-CSV] ERROR import examination row catalogID=%s err=%v", entry.catalog.SubjectCatalogID, err)
		return &dto.ImportRowError{Message: "Eroare la salvarea notei de examen"}
	}
	return nil
}

var (
	errDuplicateExam = errors.New("duplicate examination pair")
	errDiffScope     = errors.New("difference scope conflict")
)

func (s *catalogCSVSvc) importAbsenceRow(db *gorm.DB, entry *catalogWithSubject, record []string) *dto.ImportRowError {
	sem, rowErr := parseSemesterField(record[2])
	if rowErr != nil {
		return rowErr
	}
	if sem == nil {
		return &dto.ImportRowError{Field: "Semestru", Message: "Absența trebuie să aibă semestru"}
	}
	takenAt, err := parseWireDate(record[5])
	if err != nil {
		return &dto.ImportRowError{Field: "Data", Message: "Data trebuie să aibă formatul AAAA-LL-ZZ"}
	}
	var founded bool
	switch strings.TrimSpace(record[6]) {
	case "da":
		founded = true
	case "nu":
		founded = false
	default:
		return &dto.ImportRowError{Field: "Motivată", Message: "Motivată trebuie să fie «da» sau «nu»"}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		row := model.SubjectAbsenceModel{
			SubjectAbsenceSubjectCatalogID: entry.catalog.SubjectCatalogID,
			SubjectAbsenceSemester:         *sem,
			SubjectAbsenceTakenAt:          takenAt,
			SubjectAbsenceIsFounded:        founded,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return s.counters.OnAdd(tx, &entry.catalog, &row)
	})
	if err != nil {
		log.Printf("[CATALOG-CSV] ERROR import absence row catalogID=%s err=%v", entry.catalog.SubjectCatalogID, err)
		return &dto.ImportRowError{Message: "Eroare la salvarea absenței"}
	}
	return nil
}

type indicatorFlags struct {
	wantsThesis  bool
	wantsLevel   bool
	wantsSim     bool
	exempted     bool
	enrolled     bool
	coordination bool
}

func parseIndicatorTokens(raw string) (indicatorFlags, *dto.ImportRowError) {
	f := indicatorFlags{enrolled: true}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return f, nil
	}
	for _, token := range strings.Split(raw, ";") {
		switch strings.TrimSpace(token) {
		case indicatorThesis:
			f.wantsThesis = true
		case indicatorLevelTesting:
			f.wantsLevel = true
		case indicatorSimulation:
			f.wantsSim = true
		case indicatorExempted:
			f.exempted = true
		case indicatorNotEnrolled:
			f.enrolled = false
		case indicatorCoordination:
			f.coordination = true
		default:
			return f, &dto.ImportRowError{Field: "Indicatori", Message: fmt.Sprintf("Indicator necunoscut: %q", token)}
		}
	}
	return f, nil
}

func currentIndicatorFlags(cat *model.SubjectCatalogModel) indicatorFlags {
	return indicatorFlags{
		wantsThesis:  cat.SubjectCatalogWantsThesis,
		wantsLevel:   cat.SubjectCatalogWantsLevelTestingGrade,
		wantsSim:     cat.SubjectCatalogWantsSimulation,
		exempted:     cat.SubjectCatalogIsExempted,
		enrolled:     cat.SubjectCatalogIsEnrolled,
		coordination: cat.SubjectCatalogIsCoordinationSubject,
	}
}

// applyIndicatorFlags writes the parsed flags onto the catalog and reports
// whether a flag feeding the averaging regime or the student rollup changed,
// in which case the stored averages must be re-derived.
func applyIndicatorFlags(cat *model.SubjectCatalogModel, f indicatorFlags) bool {
	changed := cat.SubjectCatalogWantsThesis != f.wantsThesis ||
		cat.SubjectCatalogIsExempted != f.exempted ||
		cat.SubjectCatalogIsEnrolled != f.enrolled ||
		cat.SubjectCatalogIsCoordinationSubject != f.coordination

	cat.SubjectCatalogWantsThesis = f.wantsThesis
	cat.SubjectCatalogWantsLevelTestingGrade = f.wantsLevel
	cat.SubjectCatalogWantsSimulation = f.wantsSim
	cat.SubjectCatalogIsExempted = f.exempted
	cat.SubjectCatalogIsEnrolled = f.enrolled
	cat.SubjectCatalogIsCoordinationSubject = f.coordination
	return changed
}

func (s *catalogCSVSvc) importIndicatorsRow(db *gorm.DB, entry *catalogWithSubject, record []string) *dto.ImportRowError {
	cat := &entry.catalog
	flags, rowErr := parseIndicatorTokens(record[7])
	if rowErr != nil {
		return rowErr
	}

	prev := currentIndicatorFlags(cat)
	recompute := applyIndicatorFlags(cat, flags)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cat).Updates(map[string]any{
			"subject_catalog_wants_thesis":              flags.wantsThesis,
			"subject_catalog_wants_level_testing_grade": flags.wantsLevel,
			"subject_catalog_wants_simulation":          flags.wantsSim,
			"subject_catalog_is_exempted":               flags.exempted,
			"subject_catalog_is_enrolled":               flags.enrolled,
			"subject_catalog_is_coordination_subject":   flags.coordination,
		}).Error; err != nil {
			return err
		}
		if !recompute {
			return nil
		}
		// Indicators land after the grade rows in an exported file, so the
		// averages stored so far were derived under the old flags. Re-derive
		// both semesters; RecomputeSemester also schedules propagation.
		if err := s.averages.RecomputeSemester(tx, cat, &entry.subject, 1); err != nil {
			return err
		}
		return s.averages.RecomputeSemester(tx, cat, &entry.subject, 2)
	})
	if err != nil {
		applyIndicatorFlags(cat, prev)
		log.Printf("[CATALOG-CSV] ERROR import indicators catalogID=%s err=%v", cat.SubjectCatalogID, err)
		return &dto.ImportRowError{Message: "Eroare la salvarea indicatorilor"}
	}
	return nil
}

func parseWireDate(raw string) (time.Time, error) {
	return time.Parse(WireDateLayout, strings.TrimSpace(raw))
}
