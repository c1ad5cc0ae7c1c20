// Package dataset loads the tabular student performance dataset used
// for training and the per-student history endpoint. Expected CSV
// header: student_id,subject,quiz_score,attendance[,performance_level].
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"learnpilot/internal/classifier"
)

// Row is one dataset record. PerformanceLevel is empty when the
// dataset carries no label column.
type Row struct {
	StudentID        string  `json:"student_id"`
	Subject          string  `json:"subject"`
	QuizScore        float64 `json:"quiz_score"`
	Attendance       float64 `json:"attendance"`
	PerformanceLevel string  `json:"performance_level,omitempty"`
}

// Load reads the CSV at path. Rows with unparsable numeric fields are
// skipped with a warning; schema validation beyond the columns read
// here is left to the caller, per the loader contract.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{"student_id", "subject", "quiz_score"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset %s missing column %q", path, required)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		quiz, err := strconv.ParseFloat(field(rec, cols, "quiz_score"), 64)
		if err != nil {
			log.Warn().Int("line", i+2).Str("path", path).Msg("skipping row with bad quiz_score")
			continue
		}

		// Attendance is optional for training rows.
		attendance := 0.0
		if idx, ok := cols["attendance"]; ok && idx < len(rec) {
			attendance, err = strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				log.Warn().Int("line", i+2).Str("path", path).Msg("skipping row with bad attendance")
				continue
			}
		}

		rows = append(rows, Row{
			StudentID:        field(rec, cols, "student_id"),
			Subject:          field(rec, cols, "subject"),
			QuizScore:        quiz,
			Attendance:       attendance,
			PerformanceLevel: field(rec, cols, "performance_level"),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}
	return rows, nil
}

func field(rec []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// Training converts dataset rows into the classifier's labeled frame.
func Training(rows []Row) []classifier.Row {
	out := make([]classifier.Row, len(rows))
	for i, r := range rows {
		out[i] = classifier.Row{
			Subject:          r.Subject,
			QuizScore:        r.QuizScore,
			Attendance:       r.Attendance,
			PerformanceLevel: r.PerformanceLevel,
		}
	}
	return out
}

// History filters rows belonging to one student, preserving order.
func History(rows []Row, studentID string) []Row {
	var out []Row
	for _, r := range rows {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}
