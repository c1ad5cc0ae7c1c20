package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `student_id,subject,quiz_score,attendance,performance_level
S001,Mathematics,85.5,92,Excellent
S002,Science,42,55,
S001,English,70,88,Good
`)

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		StudentID:        "S001",
		Subject:          "Mathematics",
		QuizScore:        85.5,
		Attendance:       92,
		PerformanceLevel: "Excellent",
	}, rows[0])
	assert.Empty(t, rows[1].PerformanceLevel)
}

func TestLoad_WithoutOptionalColumns(t *testing.T) {
	path := writeCSV(t, `student_id,subject,quiz_score
S001,Mathematics,85
S002,Science,42
`)

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Zero(t, rows[0].Attendance)
	assert.Empty(t, rows[0].PerformanceLevel)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, `student_id,subject,attendance
S001,Mathematics,92
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiz_score")
}

func TestLoad_SkipsBadRows(t *testing.T) {
	path := writeCSV(t, `student_id,subject,quiz_score,attendance
S001,Mathematics,85,92
S002,Science,not-a-number,55
S003,English,70,also-bad
S004,History,60,80
`)

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "S001", rows[0].StudentID)
	assert.Equal(t, "S004", rows[1].StudentID)
}

func TestLoad_EmptyDataset(t *testing.T) {
	path := writeCSV(t, "student_id,subject,quiz_score\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_AllRowsBad(t *testing.T) {
	path := writeCSV(t, `student_id,subject,quiz_score
S001,Mathematics,bad
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable rows")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestTraining(t *testing.T) {
	rows := []Row{
		{StudentID: "S001", Subject: "Mathematics", QuizScore: 85, Attendance: 92, PerformanceLevel: "Excellent"},
		{StudentID: "S002", Subject: "Science", QuizScore: 42, Attendance: 55},
	}

	frame := Training(rows)
	require.Len(t, frame, 2)
	assert.Equal(t, "Mathematics", frame[0].Subject)
	assert.Equal(t, 85.0, frame[0].QuizScore)
	assert.Equal(t, "Excellent", frame[0].PerformanceLevel)
	assert.Empty(t, frame[1].PerformanceLevel)
}

func TestHistory(t *testing.T) {
	rows := []Row{
		{StudentID: "S001", Subject: "Mathematics"},
		{StudentID: "S002", Subject: "Science"},
		{StudentID: "S001", Subject: "English"},
	}

	history := History(rows, "S001")
	require.Len(t, history, 2)
	assert.Equal(t, "Mathematics", history[0].Subject)
	assert.Equal(t, "English", history[1].Subject)

	assert.Empty(t, History(rows, "S999"))
}
