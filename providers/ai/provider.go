package ai

import "context"

// Provider is the single collaborator interface between the structured-call
// core and an external LLM. Implementations own transport, authentication,
// and timeout policy; the core only assembles the prompt and consumes the
// returned text. A failed call is signalled through the error return and is
// treated by the orchestrator as one consumed attempt.
type Provider interface {
	// Generate sends a fully assembled prompt to the model and returns its
	// raw text output. Implementations should honour ctx cancellation.
	Generate(ctx context.Context, request Request) (*Response, error)
}

// GenerateFunc adapts a plain function to the [Provider] interface, the
// common case for tests and for callers wrapping an existing client.
type GenerateFunc func(ctx context.Context, request Request) (*Response, error)

// Generate implements [Provider].
func (f GenerateFunc) Generate(ctx context.Context, request Request) (*Response, error) {
	return f(ctx, request)
}
