package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Infer builds a Schema from a Go struct type by reflection. Field names come
// from the "form" tag, falling back to the "json" tag and then the Go field
// name. Fields tagged "-" are skipped; the "omitempty" option and pointer
// types mark a field optional, everything else is required.
func Infer(v any) (Schema, error) {
	if v == nil {
		return Schema{}, fmt.Errorf("schema: cannot infer from nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Schema{}, fmt.Errorf("schema: cannot infer from %s, expected a struct", t.Kind())
	}

	fields, err := inferFields(t)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Name: t.Name(), Fields: fields}, nil
}

func inferFields(t reflect.Type) ([]Field, error) {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, optional, skip := fieldName(sf)
		if skip {
			continue
		}

		field, err := inferField(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s: %w", sf.Name, err)
		}
		field.Name = name
		field.Required = !optional && sf.Type.Kind() != reflect.Pointer
		fields = append(fields, field)
	}
	return fields, nil
}

func inferField(t reflect.Type) (Field, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == reflect.TypeOf(time.Time{}) {
		return Field{Type: FieldTypeString, Format: "date-time"}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return Field{Type: FieldTypeString}, nil
	case reflect.Bool:
		return Field{Type: FieldTypeBoolean}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Field{Type: FieldTypeInteger}, nil
	case reflect.Float32, reflect.Float64:
		return Field{Type: FieldTypeNumber}, nil
	case reflect.Slice, reflect.Array:
		items, err := inferField(t.Elem())
		if err != nil {
			return Field{}, err
		}
		return Field{Type: FieldTypeArray, Items: &items}, nil
	case reflect.Struct:
		nested, err := inferFields(t)
		if err != nil {
			return Field{}, err
		}
		return Field{Type: FieldTypeObject, Nested: nested}, nil
	default:
		return Field{}, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

func fieldName(sf reflect.StructField) (name string, optional, skip bool) {
	for _, tagName := range []string{"form", "json"} {
		tag, ok := sf.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		base, opts, _ := strings.Cut(tag, ",")
		if base == "-" {
			return "", false, true
		}
		optional = optional || strings.Contains(opts, "omitempty")
		if base != "" && name == "" {
			name = base
		}
	}
	if name == "" {
		name = sf.Name
	}
	return name, optional, false
}
