package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// For derives a Schema from the Go struct type T using reflection.
//
// Field handling follows the usual encoding/json conventions: the `json` tag
// supplies the property name, `json:"-"` skips the field, and unexported
// fields are ignored. Pointer fields and fields tagged with `omitempty`
// become optional properties. Property order is the struct declaration order,
// which keeps the compact prompt rendering deterministic.
//
// The `jsonschema` tag customises individual properties:
//
//	type Review struct {
//	    Verdict  string  `json:"verdict" jsonschema:"enum=positive,enum=negative,enum=neutral"`
//	    Score    float64 `json:"score" jsonschema:"description=Score between 0 and 1"`
//	    Optional *string `json:"note,omitempty"`
//	    Forced   *string `json:"forced" jsonschema:"required"`
//	}
//
// Supported tag items: "description=...", "enum=..." (string fields only,
// repeatable, order preserved) and "required" (forces a pointer/omitempty
// field back into the required set).
//
// Recursive struct types are rejected with an error: the ordered schema tree
// has no reference mechanism, and a prompt embedding an infinite type would
// be malformed anyway.
func For[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return forType(t, nil)
}

// forType builds the schema for t. stack holds the struct types currently
// being expanded, used to detect recursion.
func forType(t reflect.Type, stack []reflect.Type) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return String(), nil

	case reflect.Bool:
		return Boolean(), nil

	case reflect.Float32, reflect.Float64:
		return Number(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer(), nil

	case reflect.Slice, reflect.Array:
		item, err := forType(t.Elem(), stack)
		if err != nil {
			return nil, err
		}
		return Array(item), nil

	case reflect.Ptr:
		elem, err := forType(t.Elem(), stack)
		if err != nil {
			return nil, err
		}
		return Optional(elem), nil

	case reflect.Struct:
		return forStruct(t, stack)

	default:
		return nil, fmt.Errorf("schema: unsupported type %s (kind %s)", t, t.Kind())
	}
}

func forStruct(t reflect.Type, stack []reflect.Type) (*Schema, error) {
	for _, seen := range stack {
		if seen == t {
			return nil, fmt.Errorf("schema: recursive type %s is not supported", t)
		}
	}
	stack = append(stack, t)

	props := make([]Property, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldSchema, err := forType(field.Type, stack)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s.%s: %w", t.Name(), field.Name, err)
		}

		fieldSchema, forcedRequired, err := applySchemaTag(field, fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s.%s: %w", t.Name(), field.Name, err)
		}

		optional := omitEmpty || field.Type.Kind() == reflect.Ptr
		if forcedRequired {
			optional = false
			fieldSchema = fieldSchema.Unwrap()
		} else if optional && fieldSchema.Kind != KindOptional {
			fieldSchema = Optional(fieldSchema)
		}

		props = append(props, Prop(name, fieldSchema))
	}

	return Object(props...), nil
}

// parseJSONTag extracts the property name and omitempty flag from the json
// struct tag, falling back to the field name.
func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return name, false, false
	}
	if comma := strings.Index(tag, ","); comma != -1 {
		if tag[:comma] != "" {
			name = tag[:comma]
		}
		omitEmpty = strings.Contains(tag[comma:], "omitempty")
	} else {
		name = tag
	}
	return name, omitEmpty, false
}

// applySchemaTag interprets the jsonschema struct tag on field, returning the
// possibly rewritten schema and whether the field was forced required.
func applySchemaTag(field reflect.StructField, s *Schema) (*Schema, bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return s, false, nil
	}

	forcedRequired := false
	var enumValues []string

	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case key == "required" && !hasValue:
			forcedRequired = true
		case key == "description" && hasValue:
			s = s.WithDescription(value)
		case key == "enum" && hasValue:
			if field.Type.Kind() != reflect.String {
				return nil, false, fmt.Errorf("enum tag is only supported on string fields, got %s", field.Type.Kind())
			}
			enumValues = append(enumValues, value)
		}
	}

	if len(enumValues) > 0 {
		enum := Enum(enumValues...)
		enum.Description = s.Description
		s = enum
	}

	return s, forcedRequired, nil
}
