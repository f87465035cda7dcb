package schema_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/schema"
)

func TestSchemaLookup(t *testing.T) {
	t.Parallel()

	descriptor := schema.Schema{
		Name: "user",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString, Required: true},
			{Name: "age", Type: schema.FieldTypeInteger},
			{Name: "tags", Type: schema.FieldTypeArray},
		},
	}

	if diff := cmp.Diff([]string{"name", "age", "tags"}, descriptor.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	field, ok := descriptor.Field("age")
	if !ok {
		t.Fatal("Field(age) not found")
	}
	if field.Type != schema.FieldTypeInteger {
		t.Errorf("Field(age).Type = %q, want integer", field.Type)
	}
	if _, ok := descriptor.Field("missing"); ok {
		t.Error("Field(missing) found, want not found")
	}

	tags, _ := descriptor.Field("tags")
	if !tags.Multiple() {
		t.Error("tags.Multiple() = false, want true")
	}
	if tags.Boolean() {
		t.Error("tags.Boolean() = true, want false")
	}
}

func TestInfer(t *testing.T) {
	t.Parallel()

	type Address struct {
		City string `form:"city"`
		Zip  string `form:"zip"`
	}
	type User struct {
		Name      string    `form:"name"`
		Age       int       `form:"age,omitempty"`
		Active    bool      `form:"active"`
		Score     float64   `form:"score"`
		Tags      []string  `form:"tags"`
		Address   Address   `form:"address"`
		CreatedAt time.Time `json:"created_at"`
		Secret    string    `form:"-"`
	}

	descriptor, err := schema.Infer(User{})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	want := schema.Schema{
		Name: "User",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString, Required: true},
			{Name: "age", Type: schema.FieldTypeInteger},
			{Name: "active", Type: schema.FieldTypeBoolean, Required: true},
			{Name: "score", Type: schema.FieldTypeNumber, Required: true},
			{Name: "tags", Type: schema.FieldTypeArray, Required: true, Items: &schema.Field{Type: schema.FieldTypeString}},
			{Name: "address", Type: schema.FieldTypeObject, Required: true, Nested: []schema.Field{
				{Name: "city", Type: schema.FieldTypeString, Required: true},
				{Name: "zip", Type: schema.FieldTypeString, Required: true},
			}},
			{Name: "created_at", Type: schema.FieldTypeString, Format: "date-time", Required: true},
		},
	}
	if diff := cmp.Diff(want, descriptor); diff != "" {
		t.Errorf("Infer mismatch (-want +got):\n%s", diff)
	}
}

func TestInferPointerOptional(t *testing.T) {
	t.Parallel()

	type Profile struct {
		Bio *string `form:"bio"`
	}

	descriptor, err := schema.Infer(&Profile{})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if descriptor.Fields[0].Required {
		t.Error("pointer field marked required, want optional")
	}
}

func TestDefaultLabeler(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":              "",
		"name":          "Name",
		"firstName":     "First Name",
		"email_address": "Email Address",
		"zip-code":      "Zip Code",
		"address2":      "Address 2",
		"über_name":     "Über Name",
		"éclairCount":   "Éclair Count",
	}
	for input, want := range tests {
		if got := schema.DefaultLabeler(input); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestInferRejectsNonStruct(t *testing.T) {
	t.Parallel()

	if _, err := schema.Infer(42); err == nil {
		t.Fatal("expected error for non-struct")
	}
	if _, err := schema.Infer(nil); err == nil {
		t.Fatal("expected error for nil")
	}
}
