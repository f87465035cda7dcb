// Package form binds flat submissions to a schema descriptor through a
// validator, producing per-field view state that preserves exactly what the
// user typed alongside any validation error for that field.
package form

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/formdata"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// Option customises a Binder.
type Option func(*Binder)

// WithValidator swaps the validation collaborator. The default is the
// schema-driven validator from pkg/validation.
func WithValidator(v validation.Validator) Option {
	return func(b *Binder) {
		b.validator = v
	}
}

// WithPrefix prepends "prefix." to every attribute's submission key, so the
// same model can appear several times on one page.
func WithPrefix(prefix string) Option {
	return func(b *Binder) {
		b.prefix = prefix
	}
}

// WithInitial supplies an existing object (struct, struct pointer, or
// map[string]any) whose attribute values fill fields the submission omits,
// as when rendering an edit form for a stored record.
func WithInitial(initial any) Option {
	return func(b *Binder) {
		b.initial = initial
	}
}

// Binder wraps a schema descriptor and a validator. It holds no per-bind
// state: concurrent Bind calls are safe as long as they do not share a
// target object.
type Binder struct {
	descriptor schema.Schema
	validator  validation.Validator
	prefix     string
	initial    any
}

// New constructs a Binder for the descriptor, applying any options.
func New(descriptor schema.Schema, options ...Option) *Binder {
	b := &Binder{descriptor: descriptor}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.validator == nil {
		b.validator = validation.New()
	}
	return b
}

// Empty builds the unbound view state used for an initial page render:
// no errors, raw values taken from the initial object when one was supplied.
// It never returns nil, even for a descriptor without fields.
func (b *Binder) Empty() *Result {
	return b.emptyResult()
}

// Bind decodes the submission, validates it against the descriptor, and
// returns the per-field view state. Invalid user data is reported through
// Result.Valid and the field errors; the error return fires only for
// malformed submissions (bracket-notation conflicts) or validator faults.
func (b *Binder) Bind(ctx context.Context, data formdata.Submission) (*Result, error) {
	return b.bind(ctx, data, nil)
}

// BindInto is Bind followed by, on success only, copying every validated
// attribute onto target in place. A failed validation leaves target
// untouched. Target must be a map[string]any or a non-nil struct pointer.
func (b *Binder) BindInto(ctx context.Context, data formdata.Submission, target any) (*Result, error) {
	return b.bind(ctx, data, target)
}

func (b *Binder) bind(ctx context.Context, data formdata.Submission, target any) (*Result, error) {
	if len(b.descriptor.Fields) == 0 {
		return nil, fmt.Errorf("form: schema declares no fields")
	}

	if data == nil {
		return b.emptyResult(), nil
	}

	tree, leaves, err := formdata.Decode(data)
	if err != nil {
		return nil, err
	}

	input := make(map[string]any, len(b.descriptor.Fields))
	for _, field := range b.descriptor.Fields {
		key := b.key(field.Name)
		value, present := tree[key]

		// Checkboxes have no unchecked wire state: absence of the key is the
		// only signal, and that substitution must happen before validation.
		if field.Boolean() {
			input[field.Name] = present
			continue
		}
		if present {
			input[field.Name] = value
			continue
		}
		if initial, ok := b.initialValue(field.Name); ok {
			input[field.Name] = initial
		}
	}

	validated, issues, err := b.validator.Validate(ctx, input, b.descriptor)
	if err != nil {
		return nil, fmt.Errorf("form: validate: %w", err)
	}

	fieldErrors, formErrors := attributeErrors(issues, b.descriptor.Names())

	result := &Result{
		Valid:      len(issues) == 0,
		FormErrors: formErrors,
		Fields:     make([]Field, 0, len(b.descriptor.Fields)),
		index:      make(map[string]int, len(b.descriptor.Fields)),
	}

	for _, field := range b.descriptor.Fields {
		raw := rawValues(leaves, b.key(field.Name))
		if raw == nil {
			raw = b.initialRaw(field.Name)
		}
		result.index[field.Name] = len(result.Fields)
		result.Fields = append(result.Fields, Field{
			Name:        b.key(field.Name),
			Raw:         raw,
			Error:       fieldErrors[field.Name],
			Required:    field.Required,
			Multiple:    field.Multiple(),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Description: field.Description,
			Enum:        field.Enum,
		})
	}

	if !result.Valid {
		return result, nil
	}

	result.Model = validated
	if target != nil {
		if err := applyTo(target, validated); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (b *Binder) emptyResult() *Result {
	result := &Result{
		Empty:  true,
		Fields: make([]Field, 0, len(b.descriptor.Fields)),
		index:  make(map[string]int, len(b.descriptor.Fields)),
	}
	for _, field := range b.descriptor.Fields {
		result.index[field.Name] = len(result.Fields)
		result.Fields = append(result.Fields, Field{
			Name:        b.key(field.Name),
			Raw:         b.initialRaw(field.Name),
			Required:    field.Required,
			Multiple:    field.Multiple(),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Description: field.Description,
			Enum:        field.Enum,
		})
	}
	return result
}

func (b *Binder) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return b.prefix + "." + name
}

// rawValues gathers every submitted value whose path starts at the given
// top-level key, in submission order. For a plain key that is the multi-value
// lookup; for bracket keys it flattens the values under that attribute.
func rawValues(leaves []formdata.Leaf, key string) []string {
	var out []string
	for _, leaf := range leaves {
		if len(leaf.Path) > 0 && leaf.Path[0].Name == key {
			out = append(out, leaf.Values...)
		}
	}
	return out
}

func (b *Binder) initialValue(name string) (any, bool) {
	if b.initial == nil {
		return nil, false
	}
	if source, ok := b.initial.(map[string]any); ok {
		value, exists := source[name]
		return value, exists
	}

	rv := reflect.ValueOf(b.initial)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	field, ok := findTargetField(rv, rv.Type(), name)
	if !ok {
		return nil, false
	}
	return field.Interface(), true
}

func (b *Binder) initialRaw(name string) []string {
	value, ok := b.initialValue(name)
	if !ok || value == nil {
		return nil
	}
	return renderRaw(value)
}

// renderRaw formats an initial object's value the way it would appear in a
// form input.
func renderRaw(value any) []string {
	switch typed := value.(type) {
	case string:
		return []string{typed}
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, renderScalar(item))
		}
		return out
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice {
			out := make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				out = append(out, renderScalar(rv.Index(i).Interface()))
			}
			return out
		}
		return []string{renderScalar(value)}
	}
}

func renderScalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}
