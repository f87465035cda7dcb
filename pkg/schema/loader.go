package schema

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// document is the declarative on-disk shape of a schema descriptor.
type document struct {
	Name   string     `json:"name" yaml:"name"`
	Fields []docField `json:"fields" yaml:"fields"`
}

type docField struct {
	Name        string     `json:"name" yaml:"name"`
	Type        string     `json:"type" yaml:"type"`
	Format      string     `json:"format" yaml:"format"`
	Required    bool       `json:"required" yaml:"required"`
	Label       string     `json:"label" yaml:"label"`
	Placeholder string     `json:"placeholder" yaml:"placeholder"`
	Description string     `json:"description" yaml:"description"`
	Default     any        `json:"default" yaml:"default"`
	Enum        []any      `json:"enum" yaml:"enum"`
	Items       *docField  `json:"items" yaml:"items"`
	Fields      []docField `json:"fields" yaml:"fields"`
	Minimum     *float64   `json:"minimum" yaml:"minimum"`
	Maximum     *float64   `json:"maximum" yaml:"maximum"`
	MinLength   *int       `json:"minLength" yaml:"minLength"`
	MaxLength   *int       `json:"maxLength" yaml:"maxLength"`
	Pattern     string     `json:"pattern" yaml:"pattern"`
}

// ParseYAML parses a declarative YAML schema document:
//
//	name: user
//	fields:
//	  - name: age
//	    type: integer
//	    required: true
//	    minimum: 1
func ParseYAML(raw []byte) (Schema, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Schema{}, fmt.Errorf("schema: parse yaml: %w", err)
	}
	return fromDocument(doc)
}

// ParseJSON parses the JSON form of the same declarative document.
func ParseJSON(raw []byte) (Schema, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Schema{}, fmt.Errorf("schema: parse json: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (Schema, error) {
	if len(doc.Fields) == 0 {
		return Schema{}, fmt.Errorf("schema: document declares no fields")
	}
	fields, err := convertDocFields(doc.Fields)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Name: doc.Name, Fields: fields}, nil
}

func convertDocFields(src []docField) ([]Field, error) {
	fields := make([]Field, 0, len(src))
	for _, df := range src {
		if df.Name == "" {
			return nil, fmt.Errorf("schema: field declares no name")
		}
		field, err := convertDocField(df)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func convertDocField(df docField) (Field, error) {
	fieldType, err := parseFieldType(df.Type)
	if err != nil {
		return Field{}, fmt.Errorf("schema: field %q: %w", df.Name, err)
	}

	field := Field{
		Name:        df.Name,
		Type:        fieldType,
		Format:      df.Format,
		Required:    df.Required,
		Label:       df.Label,
		Placeholder: df.Placeholder,
		Description: df.Description,
		Default:     df.Default,
		Enum:        df.Enum,
		Validations: rulesFromDocField(df),
	}

	if df.Items != nil {
		items, err := convertDocField(*df.Items)
		if err != nil {
			return Field{}, err
		}
		field.Items = &items
	}
	if len(df.Fields) > 0 {
		nested, err := convertDocFields(df.Fields)
		if err != nil {
			return Field{}, err
		}
		field.Nested = nested
	}
	return field, nil
}

func parseFieldType(value string) (FieldType, error) {
	switch FieldType(value) {
	case FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeBoolean, FieldTypeArray, FieldTypeObject:
		return FieldType(value), nil
	case "":
		return FieldTypeString, nil
	default:
		return "", fmt.Errorf("unknown type %q", value)
	}
}

func rulesFromDocField(df docField) []ValidationRule {
	var rules []ValidationRule
	if df.Minimum != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: map[string]string{"value": formatFloat(*df.Minimum)},
		})
	}
	if df.Maximum != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: map[string]string{"value": formatFloat(*df.Maximum)},
		})
	}
	if df.MinLength != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*df.MinLength)},
		})
	}
	if df.MaxLength != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*df.MaxLength)},
		})
	}
	if df.Pattern != "" {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": df.Pattern},
		})
	}
	return rules
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
