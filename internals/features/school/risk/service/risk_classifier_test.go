package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
)

func intp(v int) *int { return &v }

func TestClassifyAttendance(t *testing.T) {
	assert.Equal(t, RiskNone, ClassifyAttendance(0))
	assert.Equal(t, RiskLow, ClassifyAttendance(1))
	assert.Equal(t, RiskLow, ClassifyAttendance(3))
	assert.Equal(t, RiskHigh, ClassifyAttendance(4))
	assert.Equal(t, RiskHigh, ClassifyAttendance(17))
}

func TestClassifyGrade(t *testing.T) {
	assert.Equal(t, RiskNone, ClassifyGrade(nil))
	assert.Equal(t, RiskHigh, ClassifyGrade(intp(1)))
	assert.Equal(t, RiskHigh, ClassifyGrade(intp(4)))
	assert.Equal(t, RiskLow, ClassifyGrade(intp(5)))
	assert.Equal(t, RiskLow, ClassifyGrade(intp(6)))
	assert.Equal(t, RiskNone, ClassifyGrade(intp(7)))
	assert.Equal(t, RiskNone, ClassifyGrade(intp(10)))
}

func TestClassifyBehavior(t *testing.T) {
	assert.Equal(t, RiskNone, ClassifyBehavior(nil))
	assert.Equal(t, RiskHigh, ClassifyBehavior(intp(7)))
	assert.Equal(t, RiskLow, ClassifyBehavior(intp(8)))
	assert.Equal(t, RiskLow, ClassifyBehavior(intp(9)))
	assert.Equal(t, RiskNone, ClassifyBehavior(intp(10)))
}

func TestSubjectAttendanceRisk_ClearsFlagOutsideAverage(t *testing.T) {
	active := &catalogmodel.SubjectCatalogModel{SubjectCatalogIsEnrolled: true}
	level, flag := SubjectAttendanceRisk(active, 4)
	assert.Equal(t, RiskHigh, level)
	assert.True(t, flag)

	level, flag = SubjectAttendanceRisk(active, 0)
	assert.Equal(t, RiskNone, level)
	assert.False(t, flag)

	// A catalog exempted after the flag was set must still come back cleared.
	exempted := &catalogmodel.SubjectCatalogModel{
		SubjectCatalogIsEnrolled: true,
		SubjectCatalogIsExempted: true,
		SubjectCatalogIsAtRisk:   true,
	}
	level, flag = SubjectAttendanceRisk(exempted, 10)
	assert.Equal(t, RiskNone, level)
	assert.False(t, flag)

	unenrolled := &catalogmodel.SubjectCatalogModel{SubjectCatalogIsAtRisk: true}
	_, flag = SubjectAttendanceRisk(unenrolled, 10)
	assert.False(t, flag)
}

func TestCombineRisk_FourUnfoundedAbsences(t *testing.T) {
	level, desc := CombineRisk(ClassifyAttendance(4), RiskNone, RiskNone)
	assert.Equal(t, RiskHigh, level)
	require.NotNil(t, desc)
	assert.Equal(t, "4 sau mai multe absențe nemotivate", *desc)
}

func TestCombineRisk_NoSignals(t *testing.T) {
	level, desc := CombineRisk(RiskNone, RiskNone, RiskNone)
	assert.Equal(t, RiskNone, level)
	assert.Nil(t, desc)
}

func TestCombineRisk_MaxWinsAndOrderFixed(t *testing.T) {
	level, desc := CombineRisk(RiskLow, RiskHigh, RiskLow)
	assert.Equal(t, RiskHigh, level)
	require.NotNil(t, desc)
	assert.Equal(t,
		"între 1 și 3 absențe nemotivate și medie cel mult 4 la o materie principală și nota la purtare 8 sau 9",
		*desc)
}

func TestCombineRisk_SingleBehaviorReason(t *testing.T) {
	level, desc := CombineRisk(RiskNone, RiskNone, RiskHigh)
	assert.Equal(t, RiskHigh, level)
	require.NotNil(t, desc)
	assert.Equal(t, "nota la purtare cel mult 7", *desc)
}
