// Package structured orchestrates one end-to-end structured LLM call: build
// a prompt embedding the compacted schema, invoke the provider, extract a
// JSON value from the raw output, validate it against the full schema, and
// retry the whole cycle under exponential backoff until it succeeds or the
// attempt budget is exhausted.
//
// The primary entry point is [Call], which resolves with a uniform [Envelope]
// for both success and exhaustion; it only returns an error for caller bugs
// and context cancellation. Retry bookkeeping is an explicit loop with an
// injected delay function so tests can observe attempts and skip real waits.
package structured
