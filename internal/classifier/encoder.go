package classifier

import (
	"encoding/json"
	"sort"
)

// CategoryEncoder is a frozen bidirectional mapping between category
// strings and dense integer codes. Codes are assigned in sorted order
// of the training vocabulary, so encoding does not depend on row
// order. The encoder is built once from training data and never grows.
type CategoryEncoder struct {
	field   string
	classes []string
	index   map[string]int
}

// NewCategoryEncoder builds an encoder for the named field from the
// observed training values. Duplicates are collapsed.
func NewCategoryEncoder(field string, values []string) *CategoryEncoder {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &CategoryEncoder{field: field, classes: classes, index: index}
}

// Encode maps a value to its integer code. Values outside the training
// vocabulary fail with UnknownCategoryError.
func (e *CategoryEncoder) Encode(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, &UnknownCategoryError{Field: e.field, Value: value}
	}
	return code, nil
}

// Decode maps an integer code back to its category string.
func (e *CategoryEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", &UnknownCategoryError{Field: e.field, Value: "<code out of range>"}
	}
	return e.classes[code], nil
}

// Len returns the vocabulary size.
func (e *CategoryEncoder) Len() int {
	return len(e.classes)
}

// Classes returns a copy of the vocabulary in code order.
func (e *CategoryEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Mapping returns the value-to-code table, used for the persisted
// bundle layout.
func (e *CategoryEncoder) Mapping() map[string]int {
	out := make(map[string]int, len(e.index))
	for k, v := range e.index {
		out[k] = v
	}
	return out
}

type encoderJSON struct {
	Field   string   `json:"field"`
	Classes []string `json:"classes"`
}

func (e *CategoryEncoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(encoderJSON{Field: e.field, Classes: e.classes})
}

func (e *CategoryEncoder) UnmarshalJSON(data []byte) error {
	var raw encoderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.field = raw.Field
	e.classes = raw.Classes
	e.index = make(map[string]int, len(raw.Classes))
	for i, c := range raw.Classes {
		e.index[c] = i
	}
	return nil
}
