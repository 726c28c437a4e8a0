// Package compact renders a schema tree into a minimal TypeScript-flavoured
// type expression for prompt embedding. The output costs far fewer tokens
// than a verbatim JSON-Schema document and is advisory only: validation of
// the model's answer always runs against the full schema, never against this
// text.
package compact
