package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leofalp/structo/schema"
)

// Error is a single structured validation failure: where in the instance the
// problem occurred and what went wrong. Path is a JSON pointer ("" for the
// document root).
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e Error) String() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator checks an extracted JSON value against a schema, returning a
// validity flag and an ordered list of failures. Implementations must be
// safe for concurrent use. A non-nil error means the validator itself could
// not run (for example the schema could not be compiled) and is treated as a
// caller bug, not a retryable attempt failure.
type Validator interface {
	Validate(s *schema.Schema, value any) (bool, []Error, error)
}

// SchemaValidator validates values against the JSON-Schema document rendered
// by [schema.Schema.JSONSchema], backed by santhosh-tekuri/jsonschema. It is
// stateless: the document is compiled fresh on every call, matching the
// no-caching contract of the schema model.
type SchemaValidator struct{}

// New returns a stateless JSON-Schema validator.
func New() *SchemaValidator { return &SchemaValidator{} }

// Validate implements [Validator].
func (v *SchemaValidator) Validate(s *schema.Schema, value any) (bool, []Error, error) {
	doc, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return false, nil, fmt.Errorf("validate: failed to serialize schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return false, nil, fmt.Errorf("validate: failed to load schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return false, nil, fmt.Errorf("validate: failed to compile schema: %w", err)
	}

	if err := compiled.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return false, flatten(ve), nil
		}
		return false, []Error{{Message: err.Error()}}, nil
	}

	return true, nil, nil
}

// flatten walks the validation error tree depth-first and collects the leaf
// causes, which carry the concrete failures. Order follows the validator's
// cause order, which in turn follows the schema document.
func flatten(ve *jsonschema.ValidationError) []Error {
	if len(ve.Causes) == 0 {
		return []Error{{Path: ve.InstanceLocation, Message: ve.Message}}
	}

	var out []Error
	for _, cause := range ve.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}
