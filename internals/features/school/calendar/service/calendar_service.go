package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calModel "catalogscolar_backend/internals/features/school/calendar/model"
)

// YearBoundaries is the projection handed to engines that only need dates.
type YearBoundaries struct {
	Year      string    `json:"year"`
	Sem1Start time.Time `json:"sem1_start"`
	Sem1End   time.Time `json:"sem1_end"`
	Sem2Start time.Time `json:"sem2_start"`
	Sem2End   time.Time `json:"sem2_end"`
}

// CalendarService resolves "today's semester" and semester boundaries.
// Batches must take one Snapshot per run instead of re-querying mid-computation.
type CalendarService interface {
	CurrentYearBoundaries() (YearBoundaries, error)
	SemesterEndOverride(grade int, track string) (*time.Time, error)
	CurrentSemester(date time.Time, grade int, track string) (int, error)
	Snapshot() (*CalendarSnapshot, error)
}

type calendarSvc struct {
	DB *gorm.DB
}

func NewCalendarService(db *gorm.DB) CalendarService {
	return &calendarSvc{DB: db}
}

func (s *calendarSvc) activeYear() (*calModel.AcademicYearModel, error) {
	var year calModel.AcademicYearModel
	if err := s.DB.
		Where("academic_year_is_active = TRUE").
		First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Niciun an școlar activ")
		}
		log.Printf("[CALENDAR] ERROR activeYear err=%v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea anului școlar")
	}
	return &year, nil
}

func (s *calendarSvc) CurrentYearBoundaries() (YearBoundaries, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return YearBoundaries{}, err
	}
	return snap.Boundaries(), nil
}

func (s *calendarSvc) SemesterEndOverride(grade int, track string) (*time.Time, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.SemesterEndOverride(2, grade, track), nil
}

func (s *calendarSvc) CurrentSemester(date time.Time, grade int, track string) (int, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.CurrentSemester(date, grade, track), nil
}

func (s *calendarSvc) Snapshot() (*CalendarSnapshot, error) {
	year, err := s.activeYear()
	if err != nil {
		return nil, err
	}
	var overrides []calModel.SemesterEndOverrideModel
	if err := s.DB.
		Where("semester_end_override_academic_year_id = ?", year.AcademicYearID).
		Find(&overrides).Error; err != nil {
		log.Printf("[CALENDAR] ERROR load overrides err=%v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Eroare la citirea calendarului")
	}
	return &CalendarSnapshot{Year: *year, Overrides: overrides}, nil
}

/* ============================================
   Snapshot — pure date logic, no DB access
============================================ */

// CalendarSnapshot is the calendar state frozen at the start of an operation or
// batch run, so a long run never tears across a mid-run calendar edit.
type CalendarSnapshot struct {
	Year      calModel.AcademicYearModel
	Overrides []calModel.SemesterEndOverrideModel
}

func (cs *CalendarSnapshot) Boundaries() YearBoundaries {
	return YearBoundaries{
		Year:      cs.Year.AcademicYearLabel,
		Sem1Start: cs.Year.AcademicYearSem1Start,
		Sem1End:   cs.Year.AcademicYearSem1End,
		Sem2Start: cs.Year.AcademicYearSem2Start,
		Sem2End:   cs.Year.AcademicYearSem2End,
	}
}

// SemesterEndOverride returns the overridden end date for (semester, grade,
// track), or nil when the default applies.
func (cs *CalendarSnapshot) SemesterEndOverride(semester, grade int, track string) *time.Time {
	track = strings.TrimSpace(track)
	for i := range cs.Overrides {
		o := &cs.Overrides[i]
		if o.SemesterEndOverrideSemester != semester || o.SemesterEndOverrideGrade != grade {
			continue
		}
		// Empty override track means "all tracks of this grade".
		if o.SemesterEndOverrideTrack != "" && !strings.EqualFold(o.SemesterEndOverrideTrack, track) {
			continue
		}
		d := o.SemesterEndOverrideEndDate
		return &d
	}
	return nil
}

// SemesterEnd returns the effective end date of a semester for a grade/track.
func (cs *CalendarSnapshot) SemesterEnd(semester, grade int, track string) time.Time {
	if ov := cs.SemesterEndOverride(semester, grade, track); ov != nil {
		return *ov
	}
	if semester == 1 {
		return cs.Year.AcademicYearSem1End
	}
	return cs.Year.AcademicYearSem2End
}

// CurrentSemester returns 1 or 2 when date falls inside a semester for the
// given grade/track, 0 otherwise (holidays, out-of-year dates).
func (cs *CalendarSnapshot) CurrentSemester(date time.Time, grade int, track string) int {
	day := truncateToDay(date)
	if !day.Before(truncateToDay(cs.Year.AcademicYearSem1Start)) &&
		!day.After(truncateToDay(cs.SemesterEnd(1, grade, track))) {
		return 1
	}
	if !day.Before(truncateToDay(cs.Year.AcademicYearSem2Start)) &&
		!day.After(truncateToDay(cs.SemesterEnd(2, grade, track))) {
		return 2
	}
	return 0
}

// SemesterBounds returns the [start, end] date range of a semester for a
// grade/track, with overrides applied.
func (cs *CalendarSnapshot) SemesterBounds(semester, grade int, track string) (time.Time, time.Time) {
	if semester == 1 {
		return cs.Year.AcademicYearSem1Start, cs.SemesterEnd(1, grade, track)
	}
	return cs.Year.AcademicYearSem2Start, cs.SemesterEnd(2, grade, track)
}

// IsPlacementRunDate reports whether date is a ranking run date for the
// grade/track: a semester end, the second-examination period end, or an
// override end date.
func (cs *CalendarSnapshot) IsPlacementRunDate(date time.Time, grade int, track string) bool {
	day := truncateToDay(date)
	if sameDay(day, cs.SemesterEnd(1, grade, track)) {
		return true
	}
	if sameDay(day, cs.SemesterEnd(2, grade, track)) {
		return true
	}
	if cs.Year.AcademicYearSecondExaminationEnd != nil &&
		sameDay(day, *cs.Year.AcademicYearSecondExaminationEnd) {
		return true
	}
	return false
}

// IsSecondSemesterRunDate reports whether the run date closes the school year
// (second-semester end or later), which unlocks sem2/annual rankings.
func (cs *CalendarSnapshot) IsSecondSemesterRunDate(date time.Time, grade int, track string) bool {
	day := truncateToDay(date)
	if sameDay(day, cs.SemesterEnd(2, grade, track)) {
		return true
	}
	if cs.Year.AcademicYearSecondExaminationEnd != nil &&
		sameDay(day, *cs.Year.AcademicYearSecondExaminationEnd) {
		return true
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return truncateToDay(a).Equal(truncateToDay(b))
}
