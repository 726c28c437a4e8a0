package schema

// Kind identifies the shape of a single schema node.
type Kind string

const (
	KindObject   Kind = "object"
	KindArray    Kind = "array"
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindBoolean  Kind = "boolean"
	KindEnum     Kind = "enum"
	KindOptional Kind = "optional"
)

// Schema describes the expected shape of a structured LLM response as a tree
// of typed nodes. A Schema is built once by the caller, treated as immutable
// for the duration of a call, and only read by this library. Values are safe
// to share across concurrent calls.
//
// Object properties are kept as an ordered slice rather than a map so that
// the compact prompt rendering is deterministic and follows declaration order.
type Schema struct {
	Kind        Kind
	Description string

	// Properties holds the ordered property list for object nodes.
	Properties []Property

	// Items is the element schema for array nodes.
	Items *Schema

	// Elem is the wrapped schema for optional nodes.
	Elem *Schema

	// Values holds the ordered literal list for enum nodes.
	Values []string
}

// Property is a single named entry of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Object builds an object schema with the given properties, in order.
func Object(props ...Property) *Schema {
	return &Schema{Kind: KindObject, Properties: props}
}

// Prop pairs a property name with its schema for use with [Object].
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Array builds an array schema whose elements match item.
func Array(item *Schema) *Schema {
	return &Schema{Kind: KindArray, Items: item}
}

// String builds a string schema.
func String() *Schema { return &Schema{Kind: KindString} }

// Number builds a floating-point number schema.
func Number() *Schema { return &Schema{Kind: KindNumber} }

// Integer builds an integer schema. The compact prompt rendering does not
// distinguish integers from numbers; validation does.
func Integer() *Schema { return &Schema{Kind: KindInteger} }

// Boolean builds a boolean schema.
func Boolean() *Schema { return &Schema{Kind: KindBoolean} }

// Enum builds a schema accepting exactly the given string literals, in order.
// Values are not deduplicated.
func Enum(values ...string) *Schema {
	return &Schema{Kind: KindEnum, Values: values}
}

// Optional wraps s so that, when used as an object property, the property is
// not listed in the object's required set.
func Optional(s *Schema) *Schema {
	return &Schema{Kind: KindOptional, Elem: s}
}

// WithDescription returns a shallow copy of s carrying a description. The
// description feeds schema derivation and validation documents only; it does
// not appear in the compact prompt text.
func (s *Schema) WithDescription(description string) *Schema {
	copied := *s
	copied.Description = description
	return &copied
}

// Unwrap returns the schema behind any chain of optional wrappers.
func (s *Schema) Unwrap() *Schema {
	for s != nil && s.Kind == KindOptional {
		s = s.Elem
	}
	return s
}
