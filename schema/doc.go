// Package schema defines the caller-supplied description of the shape a
// structured LLM response must take. A [Schema] is an ordered tree of typed
// nodes built either explicitly through the constructor functions ([Object],
// [Array], [Enum], ...) or derived from a Go struct type with [For].
//
// The same Schema value feeds two independent consumers: core/compact renders
// it into a minimal prompt embedding, and the validate package renders it into
// a full JSON-Schema document for strict validation of extracted values.
package schema
