package validation_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

func userSchema() schema.Schema {
	return schema.Schema{
		Name: "user",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString, Required: true},
			{Name: "age", Type: schema.FieldTypeInteger, Default: 33},
			{Name: "tags", Type: schema.FieldTypeArray, Items: &schema.Field{Type: schema.FieldTypeString}},
		},
	}
}

func TestSchemaValidatorCoercion(t *testing.T) {
	t.Parallel()

	validator := validation.New()

	tests := map[string]struct {
		descriptor schema.Schema
		tree       map[string]any
		want       map[string]any
		wantIssues []validation.Issue
	}{
		"valid submission": {
			descriptor: userSchema(),
			tree:       map[string]any{"name": "joe", "age": "20", "tags": "a"},
			want:       map[string]any{"name": "joe", "age": int64(20), "tags": []any{"a"}},
		},
		"missing optional uses default": {
			descriptor: userSchema(),
			tree:       map[string]any{"name": "joe"},
			want:       map[string]any{"name": "joe", "age": 33, "tags": []any{}},
		},
		"unparseable integer": {
			descriptor: userSchema(),
			tree:       map[string]any{"name": "joe", "age": "nan"},
			wantIssues: []validation.Issue{{Path: "age", Message: "must be a valid integer"}},
		},
		"missing required": {
			descriptor: userSchema(),
			tree:       map[string]any{"age": "20"},
			wantIssues: []validation.Issue{{Path: "name", Message: "is required"}},
		},
		"empty string missing for integers": {
			descriptor: userSchema(),
			tree:       map[string]any{"name": "joe", "age": ""},
			want:       map[string]any{"name": "joe", "age": 33, "tags": []any{}},
		},
		"number coercion": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "score", Type: schema.FieldTypeNumber, Required: true},
			}},
			tree: map[string]any{"score": "3.14"},
			want: map[string]any{"score": 3.14},
		},
		"boolean forms": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "checked", Type: schema.FieldTypeBoolean},
				{Name: "unchecked", Type: schema.FieldTypeBoolean},
				{Name: "on", Type: schema.FieldTypeBoolean},
			}},
			tree: map[string]any{"checked": true, "unchecked": false, "on": "on"},
			want: map[string]any{"checked": true, "unchecked": false, "on": true},
		},
		"multi-valued scalar takes first": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "color", Type: schema.FieldTypeString, Required: true},
			}},
			tree: map[string]any{"color": []string{"red", "blue"}},
			want: map[string]any{"color": "red"},
		},
		"array item coercion": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "scores", Type: schema.FieldTypeArray, Items: &schema.Field{Type: schema.FieldTypeInteger}},
			}},
			tree: map[string]any{"scores": []any{"10", "20"}},
			want: map[string]any{"scores": []any{int64(10), int64(20)}},
		},
		"array item failure carries index path": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "scores", Type: schema.FieldTypeArray, Items: &schema.Field{Type: schema.FieldTypeInteger}},
			}},
			tree:       map[string]any{"scores": []any{"10", "x"}},
			wantIssues: []validation.Issue{{Path: "scores.1", Message: "must be a valid integer"}},
		},
		"nested object recursion": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "address", Type: schema.FieldTypeObject, Required: true, Nested: []schema.Field{
					{Name: "city", Type: schema.FieldTypeString, Required: true},
					{Name: "zip", Type: schema.FieldTypeString},
				}},
			}},
			tree: map[string]any{"address": map[string]any{"city": "Lima"}},
			want: map[string]any{"address": map[string]any{"city": "Lima"}},
		},
		"nested object failure carries dotted path": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "address", Type: schema.FieldTypeObject, Required: true, Nested: []schema.Field{
					{Name: "city", Type: schema.FieldTypeString, Required: true},
				}},
			}},
			tree:       map[string]any{"address": map[string]any{}},
			wantIssues: []validation.Issue{{Path: "address.city", Message: "is required"}},
		},
		"non-object where object expected": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "address", Type: schema.FieldTypeObject, Required: true},
			}},
			tree:       map[string]any{"address": "main street"},
			wantIssues: []validation.Issue{{Path: "address", Message: "must be an object"}},
		},
		"undeclared keys ignored": {
			descriptor: schema.Schema{Fields: []schema.Field{
				{Name: "name", Type: schema.FieldTypeString, Required: true},
			}},
			tree: map[string]any{"name": "joe", "submit": "Save"},
			want: map[string]any{"name": "joe"},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, issues, err := validator.Validate(context.Background(), tc.tree, tc.descriptor)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if diff := cmp.Diff(tc.wantIssues, issues); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
			if len(tc.wantIssues) > 0 {
				if got != nil {
					t.Fatalf("expected nil result alongside issues, got %v", got)
				}
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaValidatorRules(t *testing.T) {
	t.Parallel()

	validator := validation.New()

	tests := map[string]struct {
		field      schema.Field
		tree       map[string]any
		wantIssues []validation.Issue
	}{
		"minimum violated": {
			field: schema.Field{Name: "age", Type: schema.FieldTypeInteger, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRuleMin, Params: map[string]string{"value": "18"}},
			}},
			tree:       map[string]any{"age": "12"},
			wantIssues: []validation.Issue{{Path: "age", Message: "must be at least 18"}},
		},
		"maximum violated": {
			field: schema.Field{Name: "age", Type: schema.FieldTypeInteger, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRuleMax, Params: map[string]string{"value": "25"}},
			}},
			tree:       map[string]any{"age": "30"},
			wantIssues: []validation.Issue{{Path: "age", Message: "must be at most 25"}},
		},
		"min length violated": {
			field: schema.Field{Name: "name", Type: schema.FieldTypeString, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
			}},
			tree:       map[string]any{"name": "jo"},
			wantIssues: []validation.Issue{{Path: "name", Message: "must be at least 3 characters"}},
		},
		"max length violated": {
			field: schema.Field{Name: "name", Type: schema.FieldTypeString, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRuleMaxLength, Params: map[string]string{"value": "3"}},
			}},
			tree:       map[string]any{"name": "joanna"},
			wantIssues: []validation.Issue{{Path: "name", Message: "must be at most 3 characters"}},
		},
		"pattern violated": {
			field: schema.Field{Name: "zip", Type: schema.FieldTypeString, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRulePattern, Params: map[string]string{"pattern": "^[0-9]{5}$"}},
			}},
			tree:       map[string]any{"zip": "abc"},
			wantIssues: []validation.Issue{{Path: "zip", Message: "does not match the expected format"}},
		},
		"enum violated": {
			field:      schema.Field{Name: "status", Type: schema.FieldTypeString, Enum: []any{"draft", "published"}},
			tree:       map[string]any{"status": "archived"},
			wantIssues: []validation.Issue{{Path: "status", Message: "is not a valid choice"}},
		},
		"enum satisfied with numeric coercion": {
			field: schema.Field{Name: "level", Type: schema.FieldTypeInteger, Enum: []any{1, 2, 3}},
			tree:  map[string]any{"level": "2"},
		},
		"list-valued enum entry satisfied": {
			field: schema.Field{
				Name: "pair", Type: schema.FieldTypeArray,
				Items: &schema.Field{Type: schema.FieldTypeString},
				Enum:  []any{[]any{"a", "b"}},
			},
			tree: map[string]any{"pair": []any{"a", "b"}},
		},
		"list-valued enum entry violated": {
			field: schema.Field{
				Name: "pair", Type: schema.FieldTypeArray,
				Items: &schema.Field{Type: schema.FieldTypeString},
				Enum:  []any{[]any{"a", "b"}},
			},
			tree:       map[string]any{"pair": []any{"x"}},
			wantIssues: []validation.Issue{{Path: "pair", Message: "is not a valid choice"}},
		},
		"rules satisfied": {
			field: schema.Field{Name: "age", Type: schema.FieldTypeInteger, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRuleMin, Params: map[string]string{"value": "18"}},
				{Kind: schema.ValidationRuleMax, Params: map[string]string{"value": "99"}},
			}},
			tree: map[string]any{"age": "42"},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			descriptor := schema.Schema{Fields: []schema.Field{tc.field}}
			_, issues, err := validator.Validate(context.Background(), tc.tree, descriptor)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if diff := cmp.Diff(tc.wantIssues, issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaValidatorFaults(t *testing.T) {
	t.Parallel()

	validator := validation.New()

	t.Run("empty schema", func(t *testing.T) {
		t.Parallel()
		if _, _, err := validator.Validate(context.Background(), nil, schema.Schema{}); err == nil {
			t.Fatal("expected error for empty schema")
		}
	})

	t.Run("broken pattern", func(t *testing.T) {
		t.Parallel()
		descriptor := schema.Schema{Fields: []schema.Field{
			{Name: "zip", Type: schema.FieldTypeString, Validations: []schema.ValidationRule{
				{Kind: schema.ValidationRulePattern, Params: map[string]string{"pattern": "("}},
			}},
		}}
		if _, _, err := validator.Validate(context.Background(), map[string]any{"zip": "x"}, descriptor); err == nil {
			t.Fatal("expected error for invalid pattern")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := validator.Validate(ctx, nil, userSchema()); err == nil {
			t.Fatal("expected context error")
		}
	})
}
