// Package classifier implements the student performance classifier:
// categorical feature encoding, a bagged decision-tree ensemble with
// deterministic training, prediction with confidence and global
// feature importance, and threshold-based learning-gap detection.
//
// A trained model is an immutable value returned by Train or
// DecodeBundle and passed explicitly into Predict. There is no shared
// model state and no trained/untrained flag; an absent model is simply
// a nil *Model, which Predict rejects with ErrNotTrained.
package classifier

import (
	"encoding/json"
	"math"
	"math/rand"
	"time"
)

// Feature column names in the exact order the forest consumes them.
const (
	FeatureQuizScore      = "quiz_score"
	FeatureAttendance     = "attendance"
	FeatureSubjectEncoded = "subject_encoded"
)

// FeatureColumns returns the frozen feature order.
func FeatureColumns() []string {
	return []string{FeatureQuizScore, FeatureAttendance, FeatureSubjectEncoded}
}

// Record is a single student observation at prediction time. Values
// are accepted as given; the core enforces no range invariants.
type Record struct {
	Subject    string  `json:"subject"`
	QuizScore  float64 `json:"quiz_score"`
	Attendance float64 `json:"attendance"`
}

// Row is one labeled training example. PerformanceLevel may be empty,
// in which case it is derived from QuizScore via the threshold table.
// Attendance is optional at training time (zero when absent) but
// always supplied at serving time.
type Row struct {
	Subject          string
	QuizScore        float64
	Attendance       float64
	PerformanceLevel string
}

// Prediction is the result of classifying one record.
type Prediction struct {
	PerformanceLevel  string             `json:"performance_level"`
	Confidence        float64            `json:"prediction_confidence"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

// Options controls training. The seed makes repeated training on
// identical data reproducible.
type Options struct {
	Seed         int64
	Trees        int
	MaxDepth     int
	TestFraction float64
}

// DefaultOptions mirrors the production training configuration.
func DefaultOptions() Options {
	return Options{Seed: 42, Trees: 100, MaxDepth: 10, TestFraction: 0.2}
}

// Model is a trained performance classifier. It owns the fitted
// forest, the frozen subject and performance encoders, and the feature
// column order. Models are immutable; retraining produces a new value.
type Model struct {
	forest    *forest
	subjects  *CategoryEncoder
	levels    *CategoryEncoder
	features  []string
	trainedAt time.Time
	accuracy  float64
	rows      int
}

// Accuracy returns the held-out accuracy reported at training time.
func (m *Model) Accuracy() float64 { return m.accuracy }

// TrainedAt returns when the model was fitted.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Rows returns the number of training rows the model was fitted on.
func (m *Model) Rows() int { return m.rows }

// Subjects returns the subject vocabulary the model was trained on.
func (m *Model) Subjects() []string { return m.subjects.Classes() }

// Train fits a classifier on the labeled rows and reports accuracy on
// a seeded-shuffle held-out fraction. The shipped forest is refitted
// on the full frame afterwards, so the reported accuracy is an
// estimate, not a property of the served parameters. Training twice on
// identical rows with the same seed yields identical models.
func Train(rows []Row, opts Options) (*Model, float64, error) {
	if len(rows) == 0 {
		return nil, 0, &TrainingError{Reason: "empty dataset"}
	}
	if opts.Trees <= 0 || opts.MaxDepth <= 0 {
		return nil, 0, &TrainingError{Reason: "trees and max depth must be positive"}
	}

	// The subject column must exist to build the subject encoder.
	hasSubject := false
	for _, r := range rows {
		if r.Subject != "" {
			hasSubject = true
			break
		}
	}
	if !hasSubject {
		return nil, 0, &MissingFeatureError{Feature: "subject"}
	}

	for _, r := range rows {
		if !isFinite(r.QuizScore) || !isFinite(r.Attendance) {
			return nil, 0, &TrainingError{Reason: "feature columns must be numeric"}
		}
	}

	// Derive missing labels row-wise from the quiz score.
	subjects := make([]string, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		subjects[i] = r.Subject
		if r.PerformanceLevel != "" {
			labels[i] = r.PerformanceLevel
		} else {
			labels[i] = FallbackLevel(r.QuizScore)
		}
	}

	subjectEnc := NewCategoryEncoder("subject", subjects)
	levelEnc := NewCategoryEncoder("performance_level", labels)

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		subjectCode, err := subjectEnc.Encode(r.Subject)
		if err != nil {
			return nil, 0, err
		}
		levelCode, err := levelEnc.Encode(labels[i])
		if err != nil {
			return nil, 0, err
		}
		x[i] = []float64{r.QuizScore, r.Attendance, float64(subjectCode)}
		y[i] = levelCode
	}

	numFeatures := len(FeatureColumns())
	accuracy := evaluateHoldout(x, y, levelEnc.Len(), numFeatures, opts)

	// Final fit on the full frame with a fresh source, so the served
	// parameters depend only on the data and the seed.
	rng := rand.New(rand.NewSource(opts.Seed))
	final := growForest(x, y, levelEnc.Len(), numFeatures, opts.Trees, opts.MaxDepth, rng)

	m := &Model{
		forest:    final,
		subjects:  subjectEnc,
		levels:    levelEnc,
		features:  FeatureColumns(),
		trainedAt: time.Now().UTC(),
		accuracy:  accuracy,
		rows:      len(rows),
	}
	return m, accuracy, nil
}

// evaluateHoldout shuffles with the seed, fits on ~(1-f) of the rows
// and scores on the rest. With too few rows to split, it scores the
// fit on the full frame instead.
func evaluateHoldout(x [][]float64, y []int, numClasses, numFeatures int, opts Options) float64 {
	n := len(x)
	rng := rand.New(rand.NewSource(opts.Seed))
	perm := rng.Perm(n)

	nTest := int(math.Round(float64(n) * opts.TestFraction))
	if nTest >= n {
		nTest = n - 1
	}

	if nTest <= 0 {
		f := growForest(x, y, numClasses, numFeatures, opts.Trees, opts.MaxDepth, rng)
		return score(f, x, y, indexRange(n))
	}

	trainIdx := perm[nTest:]
	testIdx := perm[:nTest]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = x[idx]
		trainY[i] = y[idx]
	}

	f := growForest(trainX, trainY, numClasses, numFeatures, opts.Trees, opts.MaxDepth, rng)
	return score(f, x, y, testIdx)
}

func score(f *forest, x [][]float64, y []int, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	correct := 0
	for _, i := range indices {
		if argmax(f.probabilities(x[i])) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(indices))
}

// Predict classifies one record with the frozen encoders. It returns
// the decoded level, the maximum class probability as confidence, and
// the forest's global per-feature importance (sums to 1.0).
func (m *Model) Predict(rec Record) (Prediction, error) {
	if m == nil || m.forest == nil {
		return Prediction{}, ErrNotTrained
	}

	subjectCode, err := m.subjects.Encode(rec.Subject)
	if err != nil {
		return Prediction{}, err
	}

	x := []float64{rec.QuizScore, rec.Attendance, float64(subjectCode)}
	probs := m.forest.probabilities(x)
	best := argmax(probs)

	level, err := m.levels.Decode(best)
	if err != nil {
		return Prediction{}, err
	}

	importance := make(map[string]float64, len(m.features))
	for i, name := range m.features {
		importance[name] = m.forest.Importance[i]
	}

	return Prediction{
		PerformanceLevel:  level,
		Confidence:        probs[best],
		FeatureImportance: importance,
	}, nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Bundle is the persisted model layout: classifier parameters, both
// encoders, and the feature column order.
type Bundle struct {
	Forest             *forest          `json:"classifier"`
	SubjectEncoder     *CategoryEncoder `json:"subject_encoder"`
	PerformanceEncoder *CategoryEncoder `json:"performance_encoder"`
	FeatureColumns     []string         `json:"feature_columns"`
	TrainedAt          time.Time        `json:"trained_at"`
	Accuracy           float64          `json:"accuracy"`
	Rows               int              `json:"rows"`
}

// EncodeBundle serializes the model as one opaque JSON bundle.
func (m *Model) EncodeBundle() ([]byte, error) {
	if m == nil || m.forest == nil {
		return nil, ErrNotTrained
	}
	return json.Marshal(Bundle{
		Forest:             m.forest,
		SubjectEncoder:     m.subjects,
		PerformanceEncoder: m.levels,
		FeatureColumns:     m.features,
		TrainedAt:          m.trainedAt,
		Accuracy:           m.accuracy,
		Rows:               m.rows,
	})
}

// DecodeBundle restores a model from a saved bundle, making it usable
// for prediction without retraining.
func DecodeBundle(data []byte) (*Model, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b.Forest == nil || b.SubjectEncoder == nil || b.PerformanceEncoder == nil {
		return nil, &TrainingError{Reason: "bundle missing classifier or encoders"}
	}
	features := b.FeatureColumns
	if len(features) == 0 {
		features = FeatureColumns()
	}
	return &Model{
		forest:    b.Forest,
		subjects:  b.SubjectEncoder,
		levels:    b.PerformanceEncoder,
		features:  features,
		trainedAt: b.TrainedAt,
		accuracy:  b.Accuracy,
		rows:      b.Rows,
	}, nil
}
