package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calModel "catalogscolar_backend/internals/features/school/calendar/model"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func snapshotFixture() *CalendarSnapshot {
	secondExamEnd := d(2026, 8, 28)
	return &CalendarSnapshot{
		Year: calModel.AcademicYearModel{
			AcademicYearLabel:                "2025-2026",
			AcademicYearSem1Start:            d(2025, 9, 8),
			AcademicYearSem1End:              d(2026, 1, 30),
			AcademicYearSem2Start:            d(2026, 2, 9),
			AcademicYearSem2End:              d(2026, 6, 19),
			AcademicYearSecondExaminationEnd: &secondExamEnd,
		},
		Overrides: []calModel.SemesterEndOverrideModel{
			{
				SemesterEndOverrideGrade:    12,
				SemesterEndOverrideTrack:    "",
				SemesterEndOverrideSemester: 2,
				SemesterEndOverrideEndDate:  d(2026, 5, 29),
			},
			{
				SemesterEndOverrideGrade:    9,
				SemesterEndOverrideTrack:    "real",
				SemesterEndOverrideSemester: 1,
				SemesterEndOverrideEndDate:  d(2026, 1, 23),
			},
		},
	}
}

func TestCurrentSemester(t *testing.T) {
	snap := snapshotFixture()

	assert.Equal(t, 1, snap.CurrentSemester(d(2025, 10, 15), 10, ""))
	assert.Equal(t, 1, snap.CurrentSemester(d(2026, 1, 30), 10, ""))
	// Between semesters: holidays carry no semester.
	assert.Equal(t, 0, snap.CurrentSemester(d(2026, 2, 3), 10, ""))
	assert.Equal(t, 2, snap.CurrentSemester(d(2026, 2, 9), 10, ""))
	assert.Equal(t, 2, snap.CurrentSemester(d(2026, 6, 19), 10, ""))
	// After the year closes.
	assert.Equal(t, 0, snap.CurrentSemester(d(2026, 7, 1), 10, ""))
	// Time of day is irrelevant.
	assert.Equal(t, 2, snap.CurrentSemester(time.Date(2026, 6, 19, 23, 30, 0, 0, time.UTC), 10, ""))
}

func TestSemesterEndOverride(t *testing.T) {
	snap := snapshotFixture()

	// Grade 12: empty track override applies to every track.
	ov := snap.SemesterEndOverride(2, 12, "uman")
	require.NotNil(t, ov)
	assert.Equal(t, d(2026, 5, 29), *ov)

	// Grade 9: override is track-specific, case-insensitive.
	require.NotNil(t, snap.SemesterEndOverride(1, 9, "Real"))
	assert.Nil(t, snap.SemesterEndOverride(1, 9, "uman"))

	assert.Nil(t, snap.SemesterEndOverride(2, 10, "real"))
}

func TestSemesterEnd_UsesOverride(t *testing.T) {
	snap := snapshotFixture()

	assert.Equal(t, d(2026, 5, 29), snap.SemesterEnd(2, 12, "uman"))
	assert.Equal(t, d(2026, 6, 19), snap.SemesterEnd(2, 10, ""))

	// A shortened semester moves the out-of-semester boundary with it.
	assert.Equal(t, 0, snap.CurrentSemester(d(2026, 6, 1), 12, "uman"))
	assert.Equal(t, 2, snap.CurrentSemester(d(2026, 6, 1), 10, ""))
}

func TestIsPlacementRunDate(t *testing.T) {
	snap := snapshotFixture()

	assert.True(t, snap.IsPlacementRunDate(d(2026, 1, 30), 10, ""))
	assert.True(t, snap.IsPlacementRunDate(d(2026, 6, 19), 10, ""))
	assert.True(t, snap.IsPlacementRunDate(d(2026, 8, 28), 10, ""))
	assert.False(t, snap.IsPlacementRunDate(d(2026, 3, 11), 10, ""))

	// Overridden end replaces the default for that grade/track.
	assert.True(t, snap.IsPlacementRunDate(d(2026, 5, 29), 12, "uman"))
	assert.False(t, snap.IsPlacementRunDate(d(2026, 6, 19), 12, "uman"))
}

func TestIsSecondSemesterRunDate(t *testing.T) {
	snap := snapshotFixture()

	assert.False(t, snap.IsSecondSemesterRunDate(d(2026, 1, 30), 10, ""))
	assert.True(t, snap.IsSecondSemesterRunDate(d(2026, 6, 19), 10, ""))
	assert.True(t, snap.IsSecondSemesterRunDate(d(2026, 8, 28), 10, ""))
}

func TestBoundaries(t *testing.T) {
	snap := snapshotFixture()
	b := snap.Boundaries()
	assert.Equal(t, "2025-2026", b.Year)
	assert.Equal(t, d(2025, 9, 8), b.Sem1Start)
	assert.Equal(t, d(2026, 6, 19), b.Sem2End)
}
