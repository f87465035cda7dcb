// Package openapi derives schema descriptors from OpenAPI 3 documents, so a
// form binder can validate submissions against the request body an operation
// declares.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// defaultContentTypes lists the request body media types considered, most
// form-like first.
var defaultContentTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// Options configures the adapter.
type Options struct {
	// ContentTypes overrides the media types considered for request bodies,
	// in preference order.
	ContentTypes []string
	// Labeler generates field labels from property names. Defaults to
	// schema.DefaultLabeler.
	Labeler func(string) string
}

// Adapter converts OpenAPI operations into schema descriptors using
// kin-openapi.
type Adapter struct {
	opts Options
}

// New constructs an Adapter with the given options.
func New(opts Options) *Adapter {
	if len(opts.ContentTypes) == 0 {
		opts.ContentTypes = defaultContentTypes
	}
	if opts.Labeler == nil {
		opts.Labeler = schema.DefaultLabeler
	}
	return &Adapter{opts: opts}
}

// SchemaForOperation loads the document (JSON or YAML) and derives the
// descriptor for the named operation's request body. The body schema must be
// an object; its properties become the declared attributes.
func (a *Adapter) SchemaForOperation(ctx context.Context, raw []byte, operationID string) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	if len(raw) == 0 {
		return schema.Schema{}, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return schema.Schema{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := a.requestBodySchema(operation)
	if body == nil || body.Value == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q declares no usable request body", operationID)
	}
	if kind := firstSchemaType(body.Value.Type); kind != "object" && kind != "" {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q request body is %q, expected an object", operationID, kind)
	}

	fields, err := a.fieldsFromObject(body.Value)
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.Schema{Name: operationID, Fields: fields}, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func (a *Adapter) requestBodySchema(operation *openapi3.Operation) *openapi3.SchemaRef {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, contentType := range a.opts.ContentTypes {
		if media := content.Get(contentType); media != nil && media.Schema != nil {
			return media.Schema
		}
	}
	return nil
}

func (a *Adapter) fieldsFromObject(src *openapi3.Schema) ([]schema.Field, error) {
	requiredSet := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		_, required := requiredSet[name]
		field, err := a.convertField(name, src.Properties[name], required)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (a *Adapter) convertField(name string, ref *openapi3.SchemaRef, required bool) (schema.Field, error) {
	if ref == nil || ref.Value == nil {
		return schema.Field{}, fmt.Errorf("openapi: property %q has no schema", name)
	}
	src := ref.Value

	field := schema.Field{
		Name:        name,
		Type:        mapType(firstSchemaType(src.Type)),
		Format:      src.Format,
		Required:    required,
		Label:       a.label(name, src.Title),
		Description: src.Description,
		Default:     src.Default,
	}
	if len(src.Enum) > 0 {
		field.Enum = append([]any(nil), src.Enum...)
	}

	switch field.Type {
	case schema.FieldTypeObject:
		nested, err := a.fieldsFromObject(src)
		if err != nil {
			return schema.Field{}, err
		}
		field.Nested = nested
	case schema.FieldTypeArray:
		if src.Items == nil {
			return schema.Field{}, fmt.Errorf("openapi: array property %q missing items", name)
		}
		items, err := a.convertField("", src.Items, false)
		if err != nil {
			return schema.Field{}, err
		}
		field.Items = &items
	}

	field.Validations = validationRules(src)
	return field, nil
}

func (a *Adapter) label(name, title string) string {
	if title != "" {
		return title
	}
	if name == "" {
		return ""
	}
	return a.opts.Labeler(name)
}

func validationRules(src *openapi3.Schema) []schema.ValidationRule {
	var rules []schema.ValidationRule

	if src.Min != nil {
		params := map[string]string{"value": formatFloat(*src.Min)}
		if src.ExclusiveMin {
			params["exclusive"] = "true"
		}
		rules = append(rules, schema.ValidationRule{Kind: schema.ValidationRuleMin, Params: params})
	}
	if src.Max != nil {
		params := map[string]string{"value": formatFloat(*src.Max)}
		if src.ExclusiveMax {
			params["exclusive"] = "true"
		}
		rules = append(rules, schema.ValidationRule{Kind: schema.ValidationRuleMax, Params: params})
	}
	if src.MinLength != 0 {
		rules = append(rules, schema.ValidationRule{
			Kind:   schema.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(src.MinLength, 10)},
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, schema.ValidationRule{
			Kind:   schema.ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)},
		})
	}
	if src.Pattern != "" {
		rules = append(rules, schema.ValidationRule{
			Kind:   schema.ValidationRulePattern,
			Params: map[string]string{"pattern": src.Pattern},
		})
	}
	return rules
}

func mapType(schemaType string) schema.FieldType {
	switch schemaType {
	case "integer":
		return schema.FieldTypeInteger
	case "number":
		return schema.FieldTypeNumber
	case "boolean":
		return schema.FieldTypeBoolean
	case "array":
		return schema.FieldTypeArray
	case "object":
		return schema.FieldTypeObject
	default:
		return schema.FieldTypeString
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
