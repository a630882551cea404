// file: internals/features/school/risk/service/risk_service.go
//
// The periodic risk batch: walks every registered school unit, classifies all
// students of the active year, rewrites the risk flags and descriptions, the
// daily head-count series and the per-class/program at-risk counts. Runs from
// the cron scheduler, never per-mutation.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalogscolar_backend/internals/configs"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	riskmodel "catalogscolar_backend/internals/features/school/risk/model"
	schoolmodel "catalogscolar_backend/internals/features/school/schools/model"
	"catalogscolar_backend/internals/services/notifications"
)

const attendanceLookback = 30 * 24 * time.Hour

type RiskService struct {
	db      *gorm.DB
	gateway notifications.Gateway
}

func NewRiskService(db *gorm.DB, gateway notifications.Gateway) *RiskService {
	return &RiskService{db: db, gateway: gateway}
}

// Run classifies every registered school unit and refreshes the country-level
// series. School failures are logged and do not stop the batch.
func (s *RiskService) Run(snap *calService.CalendarSnapshot, runDate time.Time) error {
	var schools []schoolmodel.SchoolUnitModel
	if err := s.db.
		Where("school_unit_is_registered = TRUE").
		Find(&schools).Error; err != nil {
		return err
	}

	countryCount := 0
	for i := range schools {
		schoolCount, err := s.RunForSchoolUnit(snap, &schools[i], runDate)
		if err != nil {
			log.Printf("[RISK] ERROR school unit skipped schoolUnitID=%s err=%v", schools[i].SchoolUnitID, err)
			continue
		}
		countryCount += schoolCount
	}

	s.updateDailySeries(riskmodel.RiskScopeCountry, nil, runDate, countryCount)
	return nil
}

// RunForSchoolUnit classifies one school's students and returns the school's
// at-risk head count.
func (s *RiskService) RunForSchoolUnit(snap *calService.CalendarSnapshot, school *schoolmodel.SchoolUnitModel, runDate time.Time) (int, error) {
	yearID := snap.Year.AcademicYearID

	var classes []classmodel.StudyClassModel
	if err := s.db.
		Where("study_class_school_unit_id = ? AND study_class_academic_year_id = ?", school.SchoolUnitID, yearID).
		Find(&classes).Error; err != nil {
		return 0, err
	}

	schoolCount := 0
	var newlyHighRisk []string

	for ci := range classes {
		class := &classes[ci]
		classCount, newNames, err := s.classifyClass(snap, class, runDate)
		if err != nil {
			return 0, err
		}
		schoolCount += classCount
		newlyHighRisk = append(newlyHighRisk, newNames...)

		if err := s.db.Model(class).
			Update("study_class_students_at_risk_count", classCount).Error; err != nil {
			return 0, err
		}
		s.updateDailySeries(riskmodel.RiskScopeClass, &class.StudyClassID, runDate, classCount)
	}

	if err := s.recountPrograms(school.SchoolUnitID, yearID); err != nil {
		return 0, err
	}
	s.updateDailySeries(riskmodel.RiskScopeSchool, &school.SchoolUnitID, runDate, schoolCount)

	s.notifyNewHighRisk(school, newlyHighRisk)
	return schoolCount, nil
}

// classifyClass evaluates every student of one class-year. Returns the class's
// at-risk count and the names of students newly classified high-risk.
func (s *RiskService) classifyClass(snap *calService.CalendarSnapshot, class *classmodel.StudyClassModel, runDate time.Time) (int, []string, error) {
	currentSem := snap.CurrentSemester(runDate, class.StudyClassGrade, class.StudyClassTrack)
	// Grade and behavior signals need a closed first semester. Out-of-semester
	// run dates (currentSem 0) are treated as past semester 1.
	pastFirstSemester := currentSem != 1

	var rollups []catalogmodel.StudentCatalogPerYearModel
	if err := s.db.
		Where("student_catalog_study_class_id = ? AND student_catalog_academic_year_id = ?",
			class.StudyClassID, class.StudyClassAcademicYearID).
		Find(&rollups).Error; err != nil {
		return 0, nil, err
	}

	atRisk := 0
	var newlyHigh []string
	for ri := range rollups {
		rollup := &rollups[ri]

		var student classmodel.StudentModel
		if err := s.db.First(&student, "student_id = ?", rollup.StudentCatalogStudentID).Error; err != nil {
			return 0, nil, err
		}
		if !student.StudentIsActive {
			continue
		}

		level, desc, err := s.classifyStudent(class, rollup, runDate, pastFirstSemester)
		if err != nil {
			return 0, nil, err
		}

		newlyHighTransition := level == RiskHigh && !student.StudentIsAtRisk
		if err := s.db.Model(&student).
			Select("student_is_at_risk", "student_risk_description").
			Updates(map[string]any{
				"student_is_at_risk":       level > RiskNone,
				"student_risk_description": desc,
			}).Error; err != nil {
			return 0, nil, err
		}
		if level > RiskNone {
			atRisk++
		}
		if newlyHighTransition {
			newlyHigh = append(newlyHigh, student.StudentName)
		}
	}
	return atRisk, newlyHigh, nil
}

// classifyStudent computes the three signal maxima for one student and marks
// the attendance-risky subject catalogs along the way.
func (s *RiskService) classifyStudent(class *classmodel.StudyClassModel, rollup *catalogmodel.StudentCatalogPerYearModel, runDate time.Time, pastFirstSemester bool) (int, *string, error) {
	var catalogs []catalogmodel.SubjectCatalogModel
	if err := s.db.
		Where("subject_catalog_student_id = ? AND subject_catalog_study_class_id = ? AND subject_catalog_academic_year_id = ?",
			rollup.StudentCatalogStudentID, rollup.StudentCatalogStudyClassID, rollup.StudentCatalogAcademicYearID).
		Find(&catalogs).Error; err != nil {
		return 0, nil, err
	}

	attendanceMax, gradeMax := RiskNone, RiskNone
	since := runDate.Add(-attendanceLookback)

	for i := range catalogs {
		cat := &catalogs[i]

		unfounded := 0
		if cat.CountsForAverage() {
			var n int64
			if err := s.db.Model(&catalogmodel.SubjectAbsenceModel{}).
				Where("subject_absence_subject_catalog_id = ? AND subject_absence_is_founded = FALSE AND subject_absence_taken_at >= ?",
					cat.SubjectCatalogID, since).
				Count(&n).Error; err != nil {
				return 0, nil, err
			}
			unfounded = int(n)
		}

		attendance, flag := SubjectAttendanceRisk(cat, unfounded)
		if attendance > attendanceMax {
			attendanceMax = attendance
		}
		if flag != cat.SubjectCatalogIsAtRisk {
			if err := s.db.Model(cat).
				Update("subject_catalog_is_at_risk", flag).Error; err != nil {
				return 0, nil, err
			}
		}

		if cat.CountsForAverage() && pastFirstSemester && class.IsCoreSubject(cat.SubjectCatalogSubjectID) {
			if g := ClassifyGrade(cat.SubjectCatalogAvgSem1); g > gradeMax {
				gradeMax = g
			}
		}
	}

	behavior := RiskNone
	if pastFirstSemester {
		behavior = ClassifyBehavior(rollup.BehaviorGrade(1))
	}

	level, desc := CombineRisk(attendanceMax, gradeMax, behavior)
	return level, desc, nil
}

// recountPrograms rewrites every program's at-risk count from its classes'
// live counts.
func (s *RiskService) recountPrograms(schoolUnitID, yearID uuid.UUID) error {
	var programs []schoolmodel.AcademicProgramModel
	if err := s.db.
		Where("academic_program_school_unit_id = ?", schoolUnitID).
		Find(&programs).Error; err != nil {
		return err
	}
	for i := range programs {
		p := &programs[i]
		var total int64
		if err := s.db.Model(&classmodel.StudyClassModel{}).
			Where("study_class_academic_program_id = ? AND study_class_academic_year_id = ?", p.AcademicProgramID, yearID).
			Select("COALESCE(SUM(study_class_students_at_risk_count), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		if err := s.db.Model(p).
			Update("academic_program_students_at_risk_count", int(total)).Error; err != nil {
			return err
		}
	}
	return nil
}

// updateDailySeries overwrites today's key in the scope's month row. A missing
// month row is skipped: the series only covers provisioned months.
func (s *RiskService) updateDailySeries(scope riskmodel.RiskScope, scopeID *uuid.UUID, runDate time.Time, count int) {
	month := time.Date(runDate.Year(), runDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	q := s.db.Where("student_at_risk_counts_scope = ? AND student_at_risk_counts_month = ?", scope, month)
	if scopeID != nil {
		q = q.Where("student_at_risk_counts_scope_id = ?", *scopeID)
	} else {
		q = q.Where("student_at_risk_counts_scope_id IS NULL")
	}

	var row riskmodel.StudentAtRiskCountsModel
	if err := q.First(&row).Error; err != nil {
		log.Printf("[RISK] no series row, skipped scope=%s month=%s", scope, month.Format("2006-01"))
		return
	}

	daily := map[string]int{}
	if len(row.StudentAtRiskCountsDaily) > 0 {
		if err := sonic.Unmarshal(row.StudentAtRiskCountsDaily, &daily); err != nil {
			log.Printf("[RISK] ERROR decode series scope=%s err=%v", scope, err)
			return
		}
	}
	daily[fmt.Sprintf("%02d", runDate.Day())] = count

	encoded, err := sonic.Marshal(daily)
	if err != nil {
		log.Printf("[RISK] ERROR encode series scope=%s err=%v", scope, err)
		return
	}
	if err := s.db.Model(&row).
		Update("student_at_risk_counts_daily", encoded).Error; err != nil {
		log.Printf("[RISK] ERROR persist series scope=%s err=%v", scope, err)
	}
}

func (s *RiskService) notifyNewHighRisk(school *schoolmodel.SchoolUnitModel, names []string) {
	if len(names) == 0 {
		return
	}
	recipients := strings.Split(configs.GetEnv("NOTIFY_RISK_RECIPIENTS", ""), ",")
	var clean []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return
	}
	title := "Elevi nou clasificați cu risc ridicat"
	body := fmt.Sprintf("%s: %s", school.SchoolUnitName, strings.Join(names, ", "))
	if err := s.gateway.Notify(context.Background(), clean, title, body, "risk"); err != nil {
		log.Printf("[RISK] ERROR notify schoolUnitID=%s err=%v", school.SchoolUnitID, err)
	}
}
