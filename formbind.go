// Package formbind binds HTML form submissions, in PHP/Rails bracket
// notation, to schema-validated models. The root package re-exports the
// common surface so most callers only import this path; the subpackages under
// pkg/ hold the moving parts (formdata decoding, schema descriptors,
// validation, the binder itself, and the OpenAPI adapter).
package formbind

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/formdata"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// Schema describes the attributes a form accepts.
type Schema = schema.Schema

// Field declares a single attribute of a schema.
type Field = schema.Field

// ValidationRule constrains a declared attribute.
type ValidationRule = schema.ValidationRule

// FieldType names the value shape a field accepts.
type FieldType = schema.FieldType

const (
	FieldTypeString  = schema.FieldTypeString
	FieldTypeInteger = schema.FieldTypeInteger
	FieldTypeNumber  = schema.FieldTypeNumber
	FieldTypeBoolean = schema.FieldTypeBoolean
	FieldTypeArray   = schema.FieldTypeArray
	FieldTypeObject  = schema.FieldTypeObject
)

// Submission is read-only access to submitted form data.
type Submission = formdata.Submission

// Values is the ordered multimap implementation of Submission.
type Values = formdata.Values

// MalformedPathError reports a submission key that cannot be decoded.
type MalformedPathError = formdata.MalformedPathError

// Binder binds submissions for one schema.
type Binder = form.Binder

// Result is the outcome of a bind: validity, per-field view state, and the
// validated model.
type Result = form.Result

// FieldState is the per-attribute view state inside a Result.
type FieldState = form.Field

// Issue is a single validation finding at a dotted path.
type Issue = validation.Issue

// Validator checks a decoded submission tree against a schema.
type Validator = validation.Validator

// Option customises a Binder.
type Option = form.Option

// WithValidator swaps the validation collaborator on a Binder.
func WithValidator(v validation.Validator) Option { return form.WithValidator(v) }

// WithPrefix namespaces every submission key under "prefix.".
func WithPrefix(prefix string) Option { return form.WithPrefix(prefix) }

// WithInitial supplies an existing object whose values fill fields the
// submission omits.
func WithInitial(initial any) Option { return form.WithInitial(initial) }

// New constructs a Binder for the descriptor.
func New(descriptor Schema, options ...Option) *Binder {
	return form.New(descriptor, options...)
}

// Infer derives a schema descriptor from a struct value or pointer via its
// form and json tags.
func Infer(v any) (Schema, error) {
	return schema.Infer(v)
}

// ParseQuery parses an application/x-www-form-urlencoded payload into
// submission values, preserving the order keys first appear.
func ParseQuery(query string) (*Values, error) {
	return formdata.ParseQuery(query)
}

// Bind is a convenience for one-shot use: infer the descriptor from target,
// bind the submission, and on success copy the validated attributes onto
// target.
func Bind(ctx context.Context, data Submission, target any, options ...Option) (*Result, error) {
	descriptor, err := schema.Infer(target)
	if err != nil {
		return nil, err
	}
	return form.New(descriptor, options...).BindInto(ctx, data, target)
}
