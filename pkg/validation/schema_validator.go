package validation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// SchemaValidator is the default Validator. It coerces string leaves to the
// declared field types, fills declared defaults, recurses into nested
// objects, and enforces the schema's validation rules.
type SchemaValidator struct{}

var _ Validator = (*SchemaValidator)(nil)

// New constructs a SchemaValidator.
func New() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate implements Validator. Submitted keys without a declared field are
// ignored; forms routinely post values (submit buttons, CSRF tokens) the
// model does not declare.
func (v *SchemaValidator) Validate(ctx context.Context, tree map[string]any, s schema.Schema) (map[string]any, []Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(s.Fields) == 0 {
		return nil, nil, fmt.Errorf("validation: schema declares no fields")
	}

	out := make(map[string]any, len(s.Fields))
	var issues []Issue
	for _, field := range s.Fields {
		value, fieldIssues, err := v.validateField(field.Name, field, tree[field.Name])
		if err != nil {
			return nil, nil, err
		}
		if len(fieldIssues) > 0 {
			issues = append(issues, fieldIssues...)
			continue
		}
		if value != nil {
			out[field.Name] = value
		}
	}

	if len(issues) > 0 {
		return nil, issues, nil
	}
	return out, nil, nil
}

func (v *SchemaValidator) validateField(path string, field schema.Field, raw any) (any, []Issue, error) {
	if missing(field, raw) {
		switch {
		case field.Default != nil:
			return field.Default, nil, nil
		case field.Required:
			return nil, []Issue{{Path: path, Message: "is required"}}, nil
		case field.Multiple():
			return []any{}, nil, nil
		default:
			return nil, nil, nil
		}
	}

	value, issues, err := v.coerce(path, field, raw)
	if err != nil || len(issues) > 0 {
		return nil, issues, err
	}

	issues, err = v.applyRules(path, field, value)
	if err != nil || len(issues) > 0 {
		return nil, issues, err
	}
	return value, nil, nil
}

// missing treats an absent value, and an empty string for non-string scalars,
// as "not submitted". Empty strings remain meaningful for string fields.
func missing(field schema.Field, raw any) bool {
	if raw == nil {
		return true
	}
	if text, ok := raw.(string); ok && text == "" {
		return field.Type != schema.FieldTypeString && field.Type != schema.FieldTypeBoolean
	}
	return false
}

func (v *SchemaValidator) coerce(path string, field schema.Field, raw any) (any, []Issue, error) {
	switch field.Type {
	case schema.FieldTypeString, "":
		return firstString(raw), nil, nil

	case schema.FieldTypeInteger:
		// Values filled from an initial object arrive already typed.
		switch number := raw.(type) {
		case int64:
			return number, nil, nil
		case int:
			return int64(number), nil, nil
		}
		text := firstString(raw)
		parsed, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, []Issue{{Path: path, Message: "must be a valid integer"}}, nil
		}
		return parsed, nil, nil

	case schema.FieldTypeNumber:
		switch number := raw.(type) {
		case float64:
			return number, nil, nil
		case int:
			return float64(number), nil, nil
		case int64:
			return float64(number), nil, nil
		}
		text := firstString(raw)
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, []Issue{{Path: path, Message: "must be a valid number"}}, nil
		}
		return parsed, nil, nil

	case schema.FieldTypeBoolean:
		return coerceBool(path, raw)

	case schema.FieldTypeArray:
		return v.coerceArray(path, field, raw)

	case schema.FieldTypeObject:
		return v.coerceObject(path, field, raw)

	default:
		return nil, nil, fmt.Errorf("validation: unknown field type %q for %s", field.Type, path)
	}
}

func coerceBool(path string, raw any) (any, []Issue, error) {
	switch value := raw.(type) {
	case bool:
		return value, nil, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		// Browsers submit "on" for checked boxes; an empty string means the
		// key was present, which also counts as checked.
		case "", "on", "true", "1", "yes":
			return true, nil, nil
		case "off", "false", "0", "no":
			return false, nil, nil
		}
		return nil, []Issue{{Path: path, Message: "must be a boolean"}}, nil
	default:
		return nil, []Issue{{Path: path, Message: "must be a boolean"}}, nil
	}
}

func (v *SchemaValidator) coerceArray(path string, field schema.Field, raw any) (any, []Issue, error) {
	items := field.Items
	if items == nil {
		items = &schema.Field{Type: schema.FieldTypeString}
	}

	var elements []any
	switch value := raw.(type) {
	case []any:
		elements = value
	case []string:
		elements = make([]any, len(value))
		for i, item := range value {
			elements[i] = item
		}
	default:
		// A single submitted value still binds as a one-element list.
		elements = []any{raw}
	}

	out := make([]any, 0, len(elements))
	var issues []Issue
	for i, element := range elements {
		itemPath := path + "." + strconv.Itoa(i)
		if element == nil {
			issues = append(issues, Issue{Path: itemPath, Message: "is required"})
			continue
		}
		coerced, itemIssues, err := v.coerce(itemPath, *items, element)
		if err != nil {
			return nil, nil, err
		}
		if len(itemIssues) > 0 {
			issues = append(issues, itemIssues...)
			continue
		}
		if ruleIssues, err := v.applyRules(itemPath, *items, coerced); err != nil {
			return nil, nil, err
		} else if len(ruleIssues) > 0 {
			issues = append(issues, ruleIssues...)
			continue
		}
		out = append(out, coerced)
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}
	return out, nil, nil
}

func (v *SchemaValidator) coerceObject(path string, field schema.Field, raw any) (any, []Issue, error) {
	tree, ok := raw.(map[string]any)
	if !ok {
		return nil, []Issue{{Path: path, Message: "must be an object"}}, nil
	}

	out := make(map[string]any, len(field.Nested))
	var issues []Issue
	for _, nested := range field.Nested {
		nestedPath := path + "." + nested.Name
		value, nestedIssues, err := v.validateField(nestedPath, nested, tree[nested.Name])
		if err != nil {
			return nil, nil, err
		}
		if len(nestedIssues) > 0 {
			issues = append(issues, nestedIssues...)
			continue
		}
		if value != nil {
			out[nested.Name] = value
		}
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}
	return out, nil, nil
}

func (v *SchemaValidator) applyRules(path string, field schema.Field, value any) ([]Issue, error) {
	var issues []Issue

	if len(field.Enum) > 0 && !enumContains(field.Enum, value) {
		issues = append(issues, Issue{Path: path, Message: "is not a valid choice"})
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case schema.ValidationRuleMin:
			threshold, err := ruleFloat(rule, path)
			if err != nil {
				return nil, err
			}
			if number, ok := asFloat(value); ok && number < threshold {
				issues = append(issues, Issue{Path: path, Message: "must be at least " + rule.Params["value"]})
			}
		case schema.ValidationRuleMax:
			threshold, err := ruleFloat(rule, path)
			if err != nil {
				return nil, err
			}
			if number, ok := asFloat(value); ok && number > threshold {
				issues = append(issues, Issue{Path: path, Message: "must be at most " + rule.Params["value"]})
			}
		case schema.ValidationRuleMinLength:
			threshold, err := ruleInt(rule, path)
			if err != nil {
				return nil, err
			}
			if text, ok := value.(string); ok && len([]rune(text)) < threshold {
				issues = append(issues, Issue{Path: path, Message: fmt.Sprintf("must be at least %d characters", threshold)})
			}
		case schema.ValidationRuleMaxLength:
			threshold, err := ruleInt(rule, path)
			if err != nil {
				return nil, err
			}
			if text, ok := value.(string); ok && len([]rune(text)) > threshold {
				issues = append(issues, Issue{Path: path, Message: fmt.Sprintf("must be at most %d characters", threshold)})
			}
		case schema.ValidationRulePattern:
			pattern := rule.Params["pattern"]
			expr, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("validation: invalid pattern for %s: %w", path, err)
			}
			if text, ok := value.(string); ok && !expr.MatchString(text) {
				issues = append(issues, Issue{Path: path, Message: "does not match the expected format"})
			}
		}
	}
	return issues, nil
}

func ruleFloat(rule schema.ValidationRule, path string) (float64, error) {
	value, err := strconv.ParseFloat(rule.Params["value"], 64)
	if err != nil {
		return 0, fmt.Errorf("validation: invalid %s threshold for %s: %w", rule.Kind, path, err)
	}
	return value, nil
}

func ruleInt(rule schema.ValidationRule, path string) (int, error) {
	value, err := strconv.Atoi(rule.Params["value"])
	if err != nil {
		return 0, fmt.Errorf("validation: invalid %s threshold for %s: %w", rule.Kind, path, err)
	}
	return value, nil
}

func asFloat(value any) (float64, bool) {
	switch number := value.(type) {
	case int64:
		return float64(number), true
	case float64:
		return number, true
	default:
		return 0, false
	}
}

func enumContains(enum []any, value any) bool {
	for _, candidate := range enum {
		if equalLoose(candidate, value) {
			return true
		}
	}
	return false
}

// equalLoose compares enum entries against coerced values. Schema documents
// carry numbers as float64 or int while coercion produces int64, so numeric
// comparison goes through float64. Everything else goes through
// reflect.DeepEqual, which also keeps slice-valued entries from YAML/JSON
// documents from panicking an == on uncomparable types.
func equalLoose(a, b any) bool {
	af, aok := asNumeric(a)
	bf, bok := asNumeric(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asNumeric(value any) (float64, bool) {
	switch number := value.(type) {
	case int:
		return float64(number), true
	case int64:
		return float64(number), true
	case float64:
		return number, true
	default:
		return 0, false
	}
}

// firstString flattens a leaf to its first submitted value when a scalar
// field received multiple.
func firstString(raw any) string {
	switch value := raw.(type) {
	case string:
		return value
	case []string:
		if len(value) == 0 {
			return ""
		}
		return value[0]
	case []any:
		if len(value) == 0 {
			return ""
		}
		if text, ok := value[0].(string); ok {
			return text
		}
		return fmt.Sprint(value[0])
	default:
		return fmt.Sprint(value)
	}
}
