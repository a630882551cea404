// file: internals/features/school/placement/service/placement_service.go
//
// Placement runs only on calendar-defined run dates: semester ends, override
// end dates and the second-examination period end. Sem1 rankings are written
// on every run date; sem2 and annual rankings only once the run date closes
// the school year for that grade/track.
package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	calService "catalogscolar_backend/internals/features/school/calendar/service"
	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
)

type PlacementService struct {
	db *gorm.DB
}

func NewPlacementService(db *gorm.DB) *PlacementService {
	return &PlacementService{db: db}
}

// Run ranks every class whose calendar marks runDate as a run date, then
// ranks each school over the same students. Classes whose calendar does not
// match are untouched.
func (s *PlacementService) Run(snap *calService.CalendarSnapshot, runDate time.Time) error {
	yearID := snap.Year.AcademicYearID

	var classes []classmodel.StudyClassModel
	if err := s.db.
		Where("study_class_academic_year_id = ?", yearID).
		Find(&classes).Error; err != nil {
		return err
	}

	type schoolBucket struct {
		rollups    []*catalogmodel.StudentCatalogPerYearModel
		secondTerm bool
	}
	perSchool := map[uuid.UUID]*schoolBucket{}

	for ci := range classes {
		class := &classes[ci]
		if !snap.IsPlacementRunDate(runDate, class.StudyClassGrade, class.StudyClassTrack) {
			continue
		}
		secondTerm := snap.IsSecondSemesterRunDate(runDate, class.StudyClassGrade, class.StudyClassTrack)

		var rollups []catalogmodel.StudentCatalogPerYearModel
		if err := s.db.
			Where("student_catalog_study_class_id = ? AND student_catalog_academic_year_id = ?",
				class.StudyClassID, yearID).
			Find(&rollups).Error; err != nil {
			return err
		}
		if len(rollups) == 0 {
			continue
		}

		ptrs := make([]*catalogmodel.StudentCatalogPerYearModel, len(rollups))
		for i := range rollups {
			ptrs[i] = &rollups[i]
		}
		RankClassPlacements(ptrs, secondTerm)
		for _, r := range ptrs {
			if err := s.persistClassRanks(r); err != nil {
				return err
			}
		}

		bucket := perSchool[class.StudyClassSchoolUnitID]
		if bucket == nil {
			bucket = &schoolBucket{}
			perSchool[class.StudyClassSchoolUnitID] = bucket
		}
		bucket.rollups = append(bucket.rollups, ptrs...)
		bucket.secondTerm = bucket.secondTerm || secondTerm

		log.Printf("[PLACEMENT] class ranked classID=%s students=%d secondTerm=%v",
			class.StudyClassID, len(ptrs), secondTerm)
	}

	for schoolID, bucket := range perSchool {
		RankSchoolPlacements(bucket.rollups, bucket.secondTerm)
		for _, r := range bucket.rollups {
			if err := s.persistSchoolRanks(r); err != nil {
				return err
			}
		}
		log.Printf("[PLACEMENT] school ranked schoolUnitID=%s students=%d", schoolID, len(bucket.rollups))
	}
	return nil
}

// RankClassPlacements writes class-scope ranks onto the rollups in place.
func RankClassPlacements(rollups []*catalogmodel.StudentCatalogPerYearModel, secondTerm bool) {
	avgSem1 := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgSem1 }))
	absSem1 := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountSem1 }))
	for i, r := range rollups {
		r.StudentCatalogClassPlaceByAvgSem1 = intPtr(avgSem1[i])
		r.StudentCatalogClassPlaceByAbsSem1 = intPtr(absSem1[i])
	}
	if !secondTerm {
		return
	}
	avgSem2 := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgSem2 }))
	absSem2 := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountSem2 }))
	avgAnnual := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgAnnual }))
	absAnnual := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountAnnual }))
	for i, r := range rollups {
		r.StudentCatalogClassPlaceByAvgSem2 = intPtr(avgSem2[i])
		r.StudentCatalogClassPlaceByAbsSem2 = intPtr(absSem2[i])
		r.StudentCatalogClassPlaceByAvgAnnual = intPtr(avgAnnual[i])
		r.StudentCatalogClassPlaceByAbsAnnual = intPtr(absAnnual[i])
	}
}

// RankSchoolPlacements writes school-scope ranks onto the rollups in place.
func RankSchoolPlacements(rollups []*catalogmodel.StudentCatalogPerYearModel, secondTerm bool) {
	avgSem1 := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgSem1 }))
	absSem1 := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountSem1 }))
	for i, r := range rollups {
		r.StudentCatalogSchoolPlaceByAvgSem1 = intPtr(avgSem1[i])
		r.StudentCatalogSchoolPlaceByAbsSem1 = intPtr(absSem1[i])
	}
	if !secondTerm {
		return
	}
	avgSem2 := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgSem2 }))
	absSem2 := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountSem2 }))
	avgAnnual := CompetitionRanks(collectAvgs(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal { return r.StudentCatalogAvgAnnual }))
	absAnnual := CompetitionRanksInt(collectInts(rollups, func(r *catalogmodel.StudentCatalogPerYearModel) int { return r.StudentCatalogAbsCountAnnual }))
	for i, r := range rollups {
		r.StudentCatalogSchoolPlaceByAvgSem2 = intPtr(avgSem2[i])
		r.StudentCatalogSchoolPlaceByAbsSem2 = intPtr(absSem2[i])
		r.StudentCatalogSchoolPlaceByAvgAnnual = intPtr(avgAnnual[i])
		r.StudentCatalogSchoolPlaceByAbsAnnual = intPtr(absAnnual[i])
	}
}

func (s *PlacementService) persistClassRanks(r *catalogmodel.StudentCatalogPerYearModel) error {
	return s.db.Model(r).
		Select("student_catalog_class_place_by_avg_sem1", "student_catalog_class_place_by_abs_sem1",
			"student_catalog_class_place_by_avg_sem2", "student_catalog_class_place_by_abs_sem2",
			"student_catalog_class_place_by_avg_annual", "student_catalog_class_place_by_abs_annual").
		Updates(map[string]any{
			"student_catalog_class_place_by_avg_sem1":   r.StudentCatalogClassPlaceByAvgSem1,
			"student_catalog_class_place_by_abs_sem1":   r.StudentCatalogClassPlaceByAbsSem1,
			"student_catalog_class_place_by_avg_sem2":   r.StudentCatalogClassPlaceByAvgSem2,
			"student_catalog_class_place_by_abs_sem2":   r.StudentCatalogClassPlaceByAbsSem2,
			"student_catalog_class_place_by_avg_annual": r.StudentCatalogClassPlaceByAvgAnnual,
			"student_catalog_class_place_by_abs_annual": r.StudentCatalogClassPlaceByAbsAnnual,
		}).Error
}

func (s *PlacementService) persistSchoolRanks(r *catalogmodel.StudentCatalogPerYearModel) error {
	return s.db.Model(r).
		Select("student_catalog_school_place_by_avg_sem1", "student_catalog_school_place_by_abs_sem1",
			"student_catalog_school_place_by_avg_sem2", "student_catalog_school_place_by_abs_sem2",
			"student_catalog_school_place_by_avg_annual", "student_catalog_school_place_by_abs_annual").
		Updates(map[string]any{
			"student_catalog_school_place_by_avg_sem1":   r.StudentCatalogSchoolPlaceByAvgSem1,
			"student_catalog_school_place_by_abs_sem1":   r.StudentCatalogSchoolPlaceByAbsSem1,
			"student_catalog_school_place_by_avg_sem2":   r.StudentCatalogSchoolPlaceByAvgSem2,
			"student_catalog_school_place_by_abs_sem2":   r.StudentCatalogSchoolPlaceByAbsSem2,
			"student_catalog_school_place_by_avg_annual": r.StudentCatalogSchoolPlaceByAvgAnnual,
			"student_catalog_school_place_by_abs_annual": r.StudentCatalogSchoolPlaceByAbsAnnual,
		}).Error
}

func collectAvgs(rollups []*catalogmodel.StudentCatalogPerYearModel, get func(*catalogmodel.StudentCatalogPerYearModel) *decimal.Decimal) []*decimal.Decimal {
	out := make([]*decimal.Decimal, len(rollups))
	for i, r := range rollups {
		out[i] = get(r)
	}
	return out
}

func collectInts(rollups []*catalogmodel.StudentCatalogPerYearModel, get func(*catalogmodel.StudentCatalogPerYearModel) int) []int {
	out := make([]int, len(rollups))
	for i, r := range rollups {
		out[i] = get(r)
	}
	return out
}

func intPtr(v int) *int { return &v }
