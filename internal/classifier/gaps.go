package classifier

import "fmt"

// Gap types and severities.
const (
	GapLowQuizScore  = "Low Quiz Score"
	GapLowAttendance = "Low Attendance"

	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// Gap detection thresholds. Fixed in current behavior; exported so
// tests can reference them by name.
const (
	QuizGapThreshold       = 60.0
	QuizHighSeverity       = 50.0
	AttendanceGapThreshold = 75.0
	AttendanceHighSeverity = 60.0
)

// LearningGap is a threshold-rule-derived note about a specific
// weakness, independent of any trained model.
type LearningGap struct {
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// IdentifyGaps applies the fixed threshold rules to one record. The
// quiz-score rule is evaluated before the attendance rule, so gap
// order is stable.
func IdentifyGaps(rec Record) []LearningGap {
	return IdentifyGapsAt(rec, QuizGapThreshold)
}

// IdentifyGapsAt is IdentifyGaps with a caller-supplied quiz-score
// threshold; severity cutoffs and the attendance rule stay fixed.
func IdentifyGapsAt(rec Record, quizThreshold float64) []LearningGap {
	var gaps []LearningGap

	if rec.QuizScore < quizThreshold {
		severity := SeverityMedium
		if rec.QuizScore < QuizHighSeverity {
			severity = SeverityHigh
		}
		gaps = append(gaps, LearningGap{
			Type:        GapLowQuizScore,
			Subject:     rec.Subject,
			Severity:    severity,
			Description: fmt.Sprintf("Quiz score of %v%% indicates difficulty understanding %s concepts", rec.QuizScore, rec.Subject),
		})
	}

	if rec.Attendance < AttendanceGapThreshold {
		severity := SeverityMedium
		if rec.Attendance < AttendanceHighSeverity {
			severity = SeverityHigh
		}
		gaps = append(gaps, LearningGap{
			Type:        GapLowAttendance,
			Subject:     rec.Subject,
			Severity:    severity,
			Description: fmt.Sprintf("Attendance rate of %v%% may be affecting learning outcomes", rec.Attendance),
		})
	}

	return gaps
}
