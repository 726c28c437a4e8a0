// Package validate checks extracted JSON values against the caller's schema.
// The orchestrator treats the [Validator] interface as a black box so callers
// can plug in their own implementation; [SchemaValidator] is the default,
// backed by the santhosh-tekuri/jsonschema compiler.
package validate
