package classifier

import (
	"errors"
	"fmt"
)

// ErrNotTrained is returned when a prediction is requested before a
// model has been trained or loaded.
var ErrNotTrained = errors.New("classifier: model not trained")

// MissingFeatureError reports a required column absent at encode time.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("classifier: required feature %q missing from dataset", e.Feature)
}

// UnknownCategoryError reports a categorical value that was never seen
// during training. It is never downgraded to a default mapping.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("classifier: unknown %s %q, not present in training vocabulary", e.Field, e.Value)
}

// TrainingError reports an empty or malformed training frame.
type TrainingError struct {
	Reason string
}

func (e *TrainingError) Error() string {
	return "classifier: training failed: " + e.Reason
}
