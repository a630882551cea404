// file: internals/features/school/risk/service/risk_classifier.go
//
// Pure risk classification rules: per-signal levels, the max-combine and the
// fixed-order Romanian description. No storage here.
package service

import (
	"strings"

	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
)

const (
	RiskNone = 0
	RiskLow  = 1
	RiskHigh = 2
)

const (
	attendanceHighText = "4 sau mai multe absențe nemotivate"
	attendanceLowText  = "între 1 și 3 absențe nemotivate"
	gradeHighText      = "medie cel mult 4 la o materie principală"
	gradeLowText       = "medie între 5 și 6 la o materie principală"
	behaviorHighText   = "nota la purtare cel mult 7"
	behaviorLowText    = "nota la purtare 8 sau 9"
)

// ClassifyAttendance maps the trailing-30-day unfounded absence count of one
// subject to a risk level: more than 3 is high, 1 to 3 low.
func ClassifyAttendance(unfoundedLast30 int) int {
	switch {
	case unfoundedLast30 > 3:
		return RiskHigh
	case unfoundedLast30 >= 1:
		return RiskLow
	default:
		return RiskNone
	}
}

// SubjectAttendanceRisk returns the attendance level one catalog contributes
// to the student and the is_at_risk value to store on it. Catalogs outside the
// average (exempted, unenrolled) carry no signal and always clear the flag,
// even if it was set before the exemption.
func SubjectAttendanceRisk(cat *catalogmodel.SubjectCatalogModel, unfoundedLast30 int) (int, bool) {
	if !cat.CountsForAverage() {
		return RiskNone, false
	}
	level := ClassifyAttendance(unfoundedLast30)
	return level, level > RiskNone
}

// ClassifyGrade maps a core subject's previous-semester average to a risk
// level: at most 4 is high, 5 or 6 low. A missing average carries no signal.
func ClassifyGrade(prevSemesterAvg *int) int {
	if prevSemesterAvg == nil {
		return RiskNone
	}
	switch {
	case *prevSemesterAvg <= 4:
		return RiskHigh
	case *prevSemesterAvg <= 6:
		return RiskLow
	default:
		return RiskNone
	}
}

// ClassifyBehavior maps the previous semester's behavior grade to a risk
// level: at most 7 is high, 8 or 9 low.
func ClassifyBehavior(behaviorGrade *int) int {
	if behaviorGrade == nil {
		return RiskNone
	}
	switch {
	case *behaviorGrade <= 7:
		return RiskHigh
	case *behaviorGrade <= 9:
		return RiskLow
	default:
		return RiskNone
	}
}

// CombineRisk folds the per-category maxima into the student level and the
// description. Reasons keep a fixed order (attendance, grade, behavior) and
// join with " și "; level 0 has no description.
func CombineRisk(attendance, grade, behavior int) (int, *string) {
	level := attendance
	if grade > level {
		level = grade
	}
	if behavior > level {
		level = behavior
	}
	if level == RiskNone {
		return RiskNone, nil
	}

	var reasons []string
	if attendance == RiskHigh {
		reasons = append(reasons, attendanceHighText)
	} else if attendance == RiskLow {
		reasons = append(reasons, attendanceLowText)
	}
	if grade == RiskHigh {
		reasons = append(reasons, gradeHighText)
	} else if grade == RiskLow {
		reasons = append(reasons, gradeLowText)
	}
	if behavior == RiskHigh {
		reasons = append(reasons, behaviorHighText)
	} else if behavior == RiskLow {
		reasons = append(reasons, behaviorLowText)
	}
	desc := strings.Join(reasons, " și ")
	return level, &desc
}
