// Package schema defines the descriptor a form binder queries for declared
// attribute names, expected arity, and types. Descriptors can be built
// explicitly, inferred from a Go struct, parsed from a declarative YAML/JSON
// document, or derived from an OpenAPI operation.
package schema

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single constraint applied to a field. Numeric
// bounds and length limits encode their threshold in Params["value"]; pattern
// rules keep the expression in Params["pattern"]. Boolean flags such as
// exclusivity are encoded as string values to keep JSON snapshots stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field describes one declared model attribute. Struct fields are annotated
// so descriptors round-trip through JSON fixtures.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Multiple reports whether the field expects a list of values instead of one.
func (f Field) Multiple() bool {
	return f.Type == FieldTypeArray
}

// Boolean reports whether the field follows checkbox semantics.
func (f Field) Boolean() bool {
	return f.Type == FieldTypeBoolean
}

// Schema is the descriptor a binder consumes: an ordered list of declared
// top-level attributes.
type Schema struct {
	Name   string  `json:"name,omitempty"`
	Fields []Field `json:"fields"`
}

// Field looks up a declared attribute by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the declared attribute names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}
