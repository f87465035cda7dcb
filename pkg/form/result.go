package form

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Field is the per-attribute view state of one bind attempt. It is built
// fresh on every bind and never mutated afterwards.
type Field struct {
	// Name is the submission key for the attribute, including any prefix.
	Name string
	// Raw holds the values exactly as submitted, never coerced. On an empty
	// or object-filled form it carries the rendered initial values instead.
	Raw []string
	// Error is the validator's message for this attribute, or empty.
	Error string
	// Required mirrors the schema descriptor.
	Required bool
	// Multiple reports whether the attribute expects a list of values.
	Multiple bool
	// Label, Placeholder and Description are carried from the descriptor for
	// rendering convenience.
	Label       string
	Placeholder string
	Description string
	// Enum lists the declared choices, when any.
	Enum []any
}

// Value returns the first raw value, or "" when nothing was submitted.
func (f Field) Value() string {
	if len(f.Raw) == 0 {
		return ""
	}
	return f.Raw[0]
}

// Values returns every raw value for the attribute.
func (f Field) Values() []string {
	return append([]string(nil), f.Raw...)
}

// SafeValue returns the first raw value with any markup stripped, for
// templates that re-render user input without escaping.
func (f Field) SafeValue() string {
	return strings.TrimSpace(rawValuePolicy().Sanitize(f.Value()))
}

var (
	rawPolicyOnce sync.Once
	rawPolicy     *bluemonday.Policy
)

func rawValuePolicy() *bluemonday.Policy {
	rawPolicyOnce.Do(func() {
		rawPolicy = bluemonday.StrictPolicy()
	})
	return rawPolicy
}

// Result is the outcome of one bind attempt. Exactly one Result exists per
// submission and it owns its Fields exclusively.
type Result struct {
	// Valid reports whether the validator accepted the submission.
	Valid bool
	// Empty reports that the binder ran without submission data, as happens
	// on an initial page render.
	Empty bool
	// Fields holds the per-attribute view state in declaration order.
	Fields []Field
	// FormErrors collects validator messages that could not be attributed to
	// any declared attribute.
	FormErrors []string
	// Model holds the coerced values keyed by attribute name. Only set when
	// Valid is true.
	Model map[string]any

	index map[string]int
}

// Field looks up view state by unprefixed attribute name.
func (r *Result) Field(name string) (Field, bool) {
	position, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.Fields[position], true
}

// FieldErrors returns the non-empty error messages keyed by attribute name.
func (r *Result) FieldErrors() map[string]string {
	out := make(map[string]string)
	for name, position := range r.index {
		if message := r.Fields[position].Error; message != "" {
			out[name] = message
		}
	}
	return out
}
