package form

import (
	"fmt"
	"reflect"
	"strings"
)

// applyTo copies validated values onto target without replacing its
// identity. A map[string]any target is merged in place; any other target
// must be a non-nil pointer to a struct, whose fields are matched by "form"
// tag, then "json" tag, then name.
func applyTo(target any, values map[string]any) error {
	if merged, ok := target.(map[string]any); ok {
		for key, value := range values {
			merged[key] = value
		}
		return nil
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("form: target must be a map[string]any or a non-nil struct pointer, got %T", target)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("form: target must point to a struct, got %s", rv.Kind())
	}
	return applyToStruct(rv, values)
}

func applyToStruct(rv reflect.Value, values map[string]any) error {
	rt := rv.Type()
	for key, value := range values {
		field, ok := findTargetField(rv, rt, key)
		if !ok {
			continue
		}
		if err := assignValue(field, value); err != nil {
			return fmt.Errorf("form: attribute %q: %w", key, err)
		}
	}
	return nil
}

func findTargetField(rv reflect.Value, rt reflect.Type, key string) (reflect.Value, bool) {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name, ok := targetFieldName(sf); ok && name == key {
			return rv.Field(i), true
		}
	}
	// Fall back to a case-insensitive match on the Go field name. A "-" tag
	// still opts the field out entirely.
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if _, ok := targetFieldName(sf); !ok {
			continue
		}
		if strings.EqualFold(sf.Name, key) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// targetFieldName resolves the binding name for a struct field. The second
// return is false when the field is tagged "-" and must never be assigned.
func targetFieldName(sf reflect.StructField) (string, bool) {
	for _, tagName := range []string{"form", "json"} {
		if tag, ok := sf.Tag.Lookup(tagName); ok {
			base, _, _ := strings.Cut(tag, ",")
			if base == "-" {
				return "", false
			}
			if base != "" {
				return base, true
			}
		}
	}
	return sf.Name, true
}

func assignValue(field reflect.Value, value any) error {
	if value == nil {
		return nil
	}
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if rv.Type().ConvertibleTo(field.Type()) {
			field.Set(rv.Convert(field.Type()))
			return nil
		}

	case reflect.Slice:
		items, ok := value.([]any)
		if !ok {
			break
		}
		slice := reflect.MakeSlice(field.Type(), 0, len(items))
		for _, item := range items {
			element := reflect.New(field.Type().Elem()).Elem()
			if err := assignValue(element, item); err != nil {
				return err
			}
			slice = reflect.Append(slice, element)
		}
		field.Set(slice)
		return nil

	case reflect.Struct:
		nested, ok := value.(map[string]any)
		if !ok {
			break
		}
		return applyToStruct(field, nested)

	case reflect.Map:
		nested, ok := value.(map[string]any)
		if !ok || field.Type().Key().Kind() != reflect.String {
			break
		}
		if field.IsNil() {
			field.Set(reflect.MakeMap(field.Type()))
		}
		for key, item := range nested {
			element := reflect.New(field.Type().Elem()).Elem()
			if err := assignValue(element, item); err != nil {
				return err
			}
			field.SetMapIndex(reflect.ValueOf(key), element)
		}
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}
