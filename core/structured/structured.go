package structured

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leofalp/structo/core/compact"
	"github.com/leofalp/structo/core/extract"
	"github.com/leofalp/structo/providers/ai"
	"github.com/leofalp/structo/schema"
	"github.com/leofalp/structo/validate"
)

// Args configures a single structured call. Input, Schema and Provider are
// required; everything else has a usable zero value.
type Args struct {
	// Input is the caller's context text, embedded verbatim in every prompt.
	Input string

	// Schema describes the expected output shape. It is read, never written.
	Schema *schema.Schema

	// Provider performs the actual model invocation.
	Provider ai.Provider

	// Attachments is the opaque multimodal side-channel forwarded to the
	// provider with every attempt. The core does not inspect it.
	Attachments []ai.Attachment

	// RetryCount is the number of additional attempts after the first, so
	// the provider is invoked at most RetryCount+1 times. Default: 0.
	RetryCount int

	// BackoffFactor scales the inter-attempt delay exponentially: attempt n
	// (n >= 2) waits baseDelay * BackoffFactor^(n-2). Default: 2.
	BackoffFactor float64

	// Validator checks extracted values against Schema. Nil selects
	// [validate.SchemaValidator].
	Validator validate.Validator

	// Logger receives one structured entry per attempt. Nil discards.
	Logger *slog.Logger

	// Sleep waits out the inter-attempt backoff delay. Nil selects a real
	// context-aware timer; tests substitute a recorder or a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Envelope is the uniform result of a structured call, success or failure.
// It always reflects the attempt that produced the returned state: the first
// fully valid attempt, or the last attempt when all were exhausted. Earlier
// attempts are never returned stale.
type Envelope struct {
	// Structured is the extracted JSON value, or nil when no syntactically
	// valid candidate could be isolated from the provider output.
	Structured any `json:"structured"`

	// Raw is the provider's exact output text for the reflected attempt,
	// byte-for-byte, regardless of extraction success.
	Raw string `json:"raw"`

	// Valid reports whether Structured passed schema validation.
	Valid bool `json:"valid"`

	// Errors lists the failures of the reflected attempt: validation errors,
	// a synthetic extraction-failure entry, or the provider fault. Empty on
	// success.
	Errors []validate.Error `json:"errors"`

	// Attempts is the ordinal of the reflected attempt, starting at 1.
	Attempts int `json:"attempts"`

	// Cost is the provider-reported cost of the reflected attempt, passed
	// through unmodified, or nil when the provider did not report one.
	Cost *ai.Cost `json:"cost,omitempty"`
}

// Call drives the full generate-extract-validate cycle against the provider,
// retrying up to Args.RetryCount additional times with exponential backoff
// when an attempt fails. Extraction failure, validation failure and a
// provider error are all retryable; attempts run strictly sequentially.
//
// Call resolves with a non-valid envelope rather than an error for ordinary
// runtime failures. It returns an error only for caller bugs (missing
// provider or schema, a validator that cannot run) and for context
// cancellation during backoff.
func Call(ctx context.Context, args Args) (*Envelope, error) {
	if args.Provider == nil {
		return nil, ErrNoProvider
	}
	if args.Schema == nil {
		return nil, ErrNoSchema
	}

	factor := args.BackoffFactor
	if factor <= 0 {
		factor = defaultBackoffFactor
	}
	validator := args.Validator
	if validator == nil {
		validator = validate.New()
	}
	logger := args.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sleep := args.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	compacted := compact.Compact(args.Schema)
	totalAttempts := args.RetryCount + 1
	if totalAttempts < 1 {
		totalAttempts = 1
	}

	last := &Envelope{}
	var prior *attemptFailure

	for attempt := 1; attempt <= totalAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, backoffDelay(factor, attempt)); err != nil {
				return nil, err
			}
		}

		prompt := buildPrompt(args.Input, compacted, prior)
		start := time.Now()

		response, err := args.Provider.Generate(ctx, ai.Request{
			Prompt:      prompt,
			Attachments: args.Attachments,
		})
		if err != nil {
			reason := fmt.Sprintf("provider call failed: %v", err)
			last = &Envelope{
				Errors:   []validate.Error{{Message: reason}},
				Attempts: attempt,
			}
			prior = &attemptFailure{reason: reason}
			logger.WarnContext(ctx, "structured attempt failed",
				slog.Int("attempt", attempt),
				slog.String("stage", "provider"),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()),
			)
			continue
		}

		raw := response.Text

		value, ok := extract.Extract(raw)
		if !ok {
			last = &Envelope{
				Raw:      raw,
				Errors:   []validate.Error{{Message: extractionFailureMessage}},
				Attempts: attempt,
				Cost:     response.Cost,
			}
			prior = &attemptFailure{raw: raw, reason: extractionFailureMessage}
			logger.WarnContext(ctx, "structured attempt failed",
				slog.Int("attempt", attempt),
				slog.String("stage", "extract"),
				slog.Duration("duration", time.Since(start)),
			)
			continue
		}

		valid, validationErrors, err := validator.Validate(args.Schema, value)
		if err != nil {
			return nil, fmt.Errorf("structo: validator failed: %w", err)
		}
		if valid {
			logger.InfoContext(ctx, "structured attempt succeeded",
				slog.Int("attempt", attempt),
				slog.Duration("duration", time.Since(start)),
			)
			return &Envelope{
				Structured: value,
				Raw:        raw,
				Valid:      true,
				Errors:     []validate.Error{},
				Attempts:   attempt,
				Cost:       response.Cost,
			}, nil
		}

		last = &Envelope{
			Structured: value,
			Raw:        raw,
			Errors:     validationErrors,
			Attempts:   attempt,
			Cost:       response.Cost,
		}
		prior = &attemptFailure{raw: raw, reason: summarize(validationErrors)}
		logger.WarnContext(ctx, "structured attempt failed",
			slog.Int("attempt", attempt),
			slog.String("stage", "validate"),
			slog.Duration("duration", time.Since(start)),
			slog.Int("validation_errors", len(validationErrors)),
		)
	}

	logger.WarnContext(ctx, "structured call exhausted",
		slog.Int("attempts", totalAttempts),
	)
	return last, nil
}

// summarize joins validation failures into a single feedback line for the
// follow-up prompt.
func summarize(errs []validate.Error) string {
	if len(errs) == 0 {
		return "output did not match the expected shape"
	}
	s := "output did not match the expected shape:"
	for _, e := range errs {
		s += " " + e.String() + ";"
	}
	return s[:len(s)-1]
}
