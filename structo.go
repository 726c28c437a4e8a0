// Package structo extracts a single well-formed JSON value from free-form
// LLM output, validates it against a schema, and retries the whole
// generate-extract-validate cycle with exponential backoff.
//
// This root package is the typed convenience layer. [Call] derives the
// schema from a Go struct type, runs the orchestrator in core/structured,
// and binds the outcome into an explicit, once-computed [Result]:
//
//	type Character struct {
//	    Name string `json:"name"`
//	    Mood string `json:"mood" jsonschema:"enum=happy,enum=grumpy"`
//	}
//
//	res, err := structo.Call[Character](ctx, provider,
//	    "Who lives in the swamp?",
//	    structo.WithRetryCount(2),
//	)
//	if err != nil {
//	    return err
//	}
//	character, err := res.Value()
//
// Callers needing an explicit schema or the untyped envelope use
// core/structured directly.
package structo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/leofalp/structo/core/structured"
	"github.com/leofalp/structo/providers/ai"
	"github.com/leofalp/structo/schema"
	"github.com/leofalp/structo/validate"
)

// Option customises a single [Call].
type Option func(*structured.Args)

// WithRetryCount sets the number of additional attempts after the first.
func WithRetryCount(n int) Option {
	return func(a *structured.Args) { a.RetryCount = n }
}

// WithBackoffFactor sets the exponential growth factor for inter-attempt
// delays.
func WithBackoffFactor(factor float64) Option {
	return func(a *structured.Args) { a.BackoffFactor = factor }
}

// WithAttachments forwards additional modalities (images, ...) to the
// provider alongside every prompt.
func WithAttachments(attachments ...ai.Attachment) Option {
	return func(a *structured.Args) { a.Attachments = attachments }
}

// WithValidator replaces the default JSON-Schema validator.
func WithValidator(v validate.Validator) Option {
	return func(a *structured.Args) { a.Validator = v }
}

// WithLogger enables per-attempt structured logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *structured.Args) { a.Logger = logger }
}

// WithSleep replaces the backoff timer, mainly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(a *structured.Args) { a.Sleep = sleep }
}

// Result binds a finished call to the target type T. All projections read
// the same already-computed state; nothing is re-invoked on access.
type Result[T any] struct {
	data     T
	envelope *structured.Envelope
}

// Call runs one structured call against provider, deriving the schema from
// T via [schema.For]. It returns an error for caller bugs (unsupported T,
// missing provider) and context cancellation; ordinary extraction or
// validation failure is reported through the result instead.
func Call[T any](ctx context.Context, provider ai.Provider, input string, opts ...Option) (*Result[T], error) {
	s, err := schema.For[T]()
	if err != nil {
		return nil, err
	}

	args := structured.Args{
		Input:    input,
		Schema:   s,
		Provider: provider,
	}
	for _, opt := range opts {
		opt(&args)
	}

	envelope, err := structured.Call(ctx, args)
	if err != nil {
		return nil, err
	}

	result := &Result[T]{envelope: envelope}
	if envelope.Valid {
		encoded, err := json.Marshal(envelope.Structured)
		if err != nil {
			return nil, fmt.Errorf("structo: failed to encode validated value: %w", err)
		}
		if err := json.Unmarshal(encoded, &result.data); err != nil {
			return nil, fmt.Errorf("structo: failed to decode validated value into %T: %w", result.data, err)
		}
	}

	return result, nil
}

// Value returns the typed value, or an error when the call never produced a
// valid one.
func (r *Result[T]) Value() (T, error) {
	if !r.envelope.Valid {
		var zero T
		return zero, fmt.Errorf("structo: no valid value after %d attempt(s): %s", r.envelope.Attempts, firstError(r.envelope))
	}
	return r.data, nil
}

// SafeValue returns the typed value, or fallback when the call failed.
func (r *Result[T]) SafeValue(fallback T) T {
	if !r.envelope.Valid {
		return fallback
	}
	return r.data
}

// Raw returns the provider's exact output text for the reflected attempt.
func (r *Result[T]) Raw() string {
	return r.envelope.Raw
}

// Envelope exposes the underlying untyped envelope (validity, errors,
// attempt count, cost).
func (r *Result[T]) Envelope() *structured.Envelope {
	return r.envelope
}

func firstError(envelope *structured.Envelope) string {
	if len(envelope.Errors) == 0 {
		return "unknown failure"
	}
	return envelope.Errors[0].String()
}
