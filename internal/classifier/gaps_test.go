package classifier

import (
	"strings"
	"testing"
)

func TestIdentifyGaps_QuizOnly(t *testing.T) {
	t.Parallel()

	gaps := IdentifyGaps(Record{Subject: "Mathematics", QuizScore: 45, Attendance: 90})
	if len(gaps) != 1 {
		t.Fatalf("expected exactly one gap, got %d", len(gaps))
	}
	if gaps[0].Type != GapLowQuizScore {
		t.Errorf("gap type = %q, want %q", gaps[0].Type, GapLowQuizScore)
	}
	if gaps[0].Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", gaps[0].Severity, SeverityHigh)
	}
	if !strings.Contains(gaps[0].Description, "Mathematics") {
		t.Errorf("description should mention the subject: %q", gaps[0].Description)
	}
	if !strings.Contains(gaps[0].Description, "45") {
		t.Errorf("description should mention the score: %q", gaps[0].Description)
	}
}

func TestIdentifyGaps_AttendanceOnly(t *testing.T) {
	t.Parallel()

	gaps := IdentifyGaps(Record{Subject: "Science", QuizScore: 65, Attendance: 50})
	if len(gaps) != 1 {
		t.Fatalf("expected exactly one gap, got %d", len(gaps))
	}
	if gaps[0].Type != GapLowAttendance {
		t.Errorf("gap type = %q, want %q", gaps[0].Type, GapLowAttendance)
	}
	if gaps[0].Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", gaps[0].Severity, SeverityHigh)
	}
}

func TestIdentifyGaps_BothQuizFirst(t *testing.T) {
	t.Parallel()

	gaps := IdentifyGaps(Record{Subject: "English", QuizScore: 40, Attendance: 50})
	if len(gaps) != 2 {
		t.Fatalf("expected two gaps, got %d", len(gaps))
	}
	if gaps[0].Type != GapLowQuizScore || gaps[1].Type != GapLowAttendance {
		t.Errorf("gap order = [%q, %q], want quiz rule first", gaps[0].Type, gaps[1].Type)
	}
}

func TestIdentifyGaps_NoGaps(t *testing.T) {
	t.Parallel()

	gaps := IdentifyGaps(Record{Subject: "History", QuizScore: 90, Attendance: 95})
	if len(gaps) != 0 {
		t.Fatalf("expected zero gaps, got %d", len(gaps))
	}
}

func TestIdentifyGaps_SeverityBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		quiz       float64
		attendance float64
		wantTypes  []string
		wantSev    []string
	}{
		{"quiz at threshold", QuizGapThreshold, 100, nil, nil},
		{"quiz just below threshold", 59.9, 100, []string{GapLowQuizScore}, []string{SeverityMedium}},
		{"quiz at high cutoff", QuizHighSeverity, 100, []string{GapLowQuizScore}, []string{SeverityMedium}},
		{"attendance at threshold", 100, AttendanceGapThreshold, nil, nil},
		{"attendance medium", 100, 74, []string{GapLowAttendance}, []string{SeverityMedium}},
		{"attendance at high cutoff", 100, AttendanceHighSeverity, []string{GapLowAttendance}, []string{SeverityMedium}},
		{"attendance high severity", 100, 59, []string{GapLowAttendance}, []string{SeverityHigh}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gaps := IdentifyGaps(Record{Subject: "Mathematics", QuizScore: tc.quiz, Attendance: tc.attendance})
			if len(gaps) != len(tc.wantTypes) {
				t.Fatalf("got %d gaps, want %d", len(gaps), len(tc.wantTypes))
			}
			for i := range gaps {
				if gaps[i].Type != tc.wantTypes[i] {
					t.Errorf("gap %d type = %q, want %q", i, gaps[i].Type, tc.wantTypes[i])
				}
				if gaps[i].Severity != tc.wantSev[i] {
					t.Errorf("gap %d severity = %q, want %q", i, gaps[i].Severity, tc.wantSev[i])
				}
			}
		})
	}
}

func TestIdentifyGapsAt_CustomThreshold(t *testing.T) {
	t.Parallel()

	// Raising the quiz threshold catches scores the default misses.
	gaps := IdentifyGapsAt(Record{Subject: "Science", QuizScore: 65, Attendance: 90}, 70)
	if len(gaps) != 1 || gaps[0].Type != GapLowQuizScore {
		t.Fatalf("expected one quiz gap at threshold 70, got %v", gaps)
	}
	if gaps[0].Severity != SeverityMedium {
		t.Errorf("severity = %q, want %q (severity cutoffs stay fixed)", gaps[0].Severity, SeverityMedium)
	}
}
