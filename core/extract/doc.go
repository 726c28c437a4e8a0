// Package extract isolates a single JSON value from free-form LLM output.
// Models wrap JSON in prose, fence it in markdown code blocks, emit several
// drafts, or produce broken pseudo-JSON; [Extract] handles all of these with
// a deterministic substring scan plus parse-by-attempt, without a streaming
// JSON parser and without any semantic repair of malformed candidates.
package extract
