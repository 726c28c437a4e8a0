package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/structo/providers/ai"
	"github.com/leofalp/structo/schema"
	"github.com/leofalp/structo/validate"
)

// mockProvider implements ai.Provider with a pluggable function.
type mockProvider struct {
	generateFunc func(ctx context.Context, request ai.Request) (*ai.Response, error)
}

func (m *mockProvider) Generate(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return m.generateFunc(ctx, request)
}

// noSleep replaces the backoff timer in tests.
func noSleep(ctx context.Context, d time.Duration) error { return nil }

func characterSchema() *schema.Schema {
	return schema.Object(
		schema.Prop("character", schema.String()),
	)
}

func TestCall_SuccessFirstAttempt(t *testing.T) {
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			return &ai.Response{
				Text: "Here you go:\n```json\n{\"character\": \"Shrek\"}\n```\nEnjoy!",
				Cost: &ai.Cost{Amount: 0.0003, Currency: "USD"},
			}, nil
		},
	}

	env, err := Call(context.Background(), Args{
		Input:    "Who lives in the swamp?",
		Schema:   characterSchema(),
		Provider: provider,
		Sleep:    noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if !env.Valid {
		t.Errorf("Valid = false, errors: %v", env.Errors)
	}
	if env.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", env.Attempts)
	}
	if len(env.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", env.Errors)
	}

	structured, ok := env.Structured.(map[string]any)
	if !ok || structured["character"] != "Shrek" {
		t.Errorf("Structured = %v, want character Shrek", env.Structured)
	}

	wantRaw := "Here you go:\n```json\n{\"character\": \"Shrek\"}\n```\nEnjoy!"
	if env.Raw != wantRaw {
		t.Errorf("Raw = %q, want the exact provider output", env.Raw)
	}

	if env.Cost == nil || env.Cost.Amount != 0.0003 {
		t.Errorf("Cost = %v, want pass-through of provider cost", env.Cost)
	}
}

func TestCall_ProviderFailsOnceThenSucceeds(t *testing.T) {
	calls := 0
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("upstream 503")
			}
			return &ai.Response{Text: `{"character":"Shrek"}`}, nil
		},
	}

	env, err := Call(context.Background(), Args{
		Input:      "Who lives in the swamp?",
		Schema:     characterSchema(),
		Provider:   provider,
		RetryCount: 1,
		Sleep:      noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if !env.Valid {
		t.Errorf("Valid = false, errors: %v", env.Errors)
	}
	if env.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", env.Attempts)
	}
	if calls != 2 {
		t.Errorf("provider invoked %d times, want 2", calls)
	}
}

func TestCall_AllAttemptsExhausted(t *testing.T) {
	calls := 0
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			calls++
			// Never valid: wrong type for the character field, and different
			// every attempt so last-attempt retention is observable.
			return &ai.Response{Text: fmt.Sprintf(`{"character": %d}`, calls)}, nil
		},
	}

	env, err := Call(context.Background(), Args{
		Input:      "Who lives in the swamp?",
		Schema:     characterSchema(),
		Provider:   provider,
		RetryCount: 2,
		Sleep:      noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if env.Valid {
		t.Error("Valid = true, want false")
	}
	if env.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", env.Attempts)
	}
	if calls != 3 {
		t.Errorf("provider invoked %d times, want 3", calls)
	}
	if len(env.Errors) == 0 {
		t.Error("Errors empty, want validation failures from the last attempt")
	}
	if env.Raw != `{"character": 3}` {
		t.Errorf("Raw = %q, want the LAST attempt's output", env.Raw)
	}
	structured, ok := env.Structured.(map[string]any)
	if !ok || structured["character"] != float64(3) {
		t.Errorf("Structured = %v, want the last attempt's value", env.Structured)
	}
}

func TestCall_ExtractionFailure(t *testing.T) {
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			return &ai.Response{Text: "I'm sorry, I cannot answer that."}, nil
		},
	}

	env, err := Call(context.Background(), Args{
		Input:    "Who lives in the swamp?",
		Schema:   characterSchema(),
		Provider: provider,
		Sleep:    noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if env.Valid {
		t.Error("Valid = true, want false")
	}
	if env.Structured != nil {
		t.Errorf("Structured = %v, want nil", env.Structured)
	}
	if env.Raw != "I'm sorry, I cannot answer that." {
		t.Errorf("Raw = %q, want exact provider output even on extraction failure", env.Raw)
	}
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0].Message, "no JSON value") {
		t.Errorf("Errors = %v, want synthetic extraction-failure error", env.Errors)
	}
}

func TestCall_TerminalProviderFailure(t *testing.T) {
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			return nil, errors.New("connection refused")
		},
	}

	env, err := Call(context.Background(), Args{
		Input:      "Who lives in the swamp?",
		Schema:     characterSchema(),
		Provider:   provider,
		RetryCount: 1,
		Sleep:      noSleep,
	})
	if err != nil {
		t.Fatalf("Call() should not error for runtime provider failures, got: %v", err)
	}

	if env.Valid {
		t.Error("Valid = true, want false")
	}
	if env.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2 (provider faults consume attempts)", env.Attempts)
	}
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0].Message, "connection refused") {
		t.Errorf("Errors = %v, want the provider fault surfaced", env.Errors)
	}
}

func TestCall_BackoffDelays(t *testing.T) {
	tests := []struct {
		name       string
		factor     float64
		retryCount int
		want       []time.Duration
	}{
		{
			name:       "default factor 2",
			factor:     0, // zero selects the default
			retryCount: 3,
			want:       []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
		},
		{
			name:       "factor 3",
			factor:     3,
			retryCount: 3,
			want:       []time.Duration{time.Second, 3 * time.Second, 9 * time.Second},
		},
		{
			name:       "no retries no sleeps",
			factor:     2,
			retryCount: 0,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{
				generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
					return &ai.Response{Text: "never json"}, nil
				},
			}

			var delays []time.Duration
			recorder := func(ctx context.Context, d time.Duration) error {
				delays = append(delays, d)
				return nil
			}

			_, err := Call(context.Background(), Args{
				Input:         "x",
				Schema:        characterSchema(),
				Provider:      provider,
				RetryCount:    tt.retryCount,
				BackoffFactor: tt.factor,
				Sleep:         recorder,
			})
			if err != nil {
				t.Fatalf("Call() error: %v", err)
			}

			if len(delays) != len(tt.want) {
				t.Fatalf("got %d sleeps %v, want %d", len(delays), delays, len(tt.want))
			}
			for i, want := range tt.want {
				if delays[i] != want {
					t.Errorf("delay[%d] = %v, want %v", i, delays[i], want)
				}
			}
		})
	}
}

func TestCall_PromptContents(t *testing.T) {
	var prompts []string
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			prompts = append(prompts, request.Prompt)
			return &ai.Response{Text: `{"character": 42}`}, nil
		},
	}

	_, err := Call(context.Background(), Args{
		Input:      "Who lives in the swamp?",
		Schema:     characterSchema(),
		Provider:   provider,
		RetryCount: 1,
		Sleep:      noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if len(prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(prompts))
	}

	first := prompts[0]
	if !strings.Contains(first, "Who lives in the swamp?") {
		t.Error("first prompt should embed the input context")
	}
	if !strings.Contains(first, "{ character: string }") {
		t.Errorf("first prompt should embed the compacted schema, got:\n%s", first)
	}
	if strings.Contains(first, "previous output") {
		t.Error("first prompt must not carry retry feedback")
	}

	second := prompts[1]
	if !strings.Contains(second, `{"character": 42}`) {
		t.Errorf("retry prompt should echo the previous raw output, got:\n%s", second)
	}
	if !strings.Contains(second, "{ character: string }") {
		t.Error("retry prompt should still embed the compacted schema")
	}
}

func TestCall_AttachmentsForwarded(t *testing.T) {
	attachment := ai.Attachment{MIMEType: "image/png", Data: []byte{1, 2, 3}}

	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			if len(request.Attachments) != 1 || request.Attachments[0].MIMEType != "image/png" {
				t.Errorf("attachments not forwarded: %v", request.Attachments)
			}
			return &ai.Response{Text: `{"character":"Shrek"}`}, nil
		},
	}

	_, err := Call(context.Background(), Args{
		Input:       "describe",
		Schema:      characterSchema(),
		Provider:    provider,
		Attachments: []ai.Attachment{attachment},
		Sleep:       noSleep,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
}

func TestCall_ConfigurationErrors(t *testing.T) {
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			return &ai.Response{Text: "{}"}, nil
		},
	}

	if _, err := Call(context.Background(), Args{Schema: characterSchema()}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("missing provider: err = %v, want ErrNoProvider", err)
	}

	if _, err := Call(context.Background(), Args{Provider: provider}); !errors.Is(err, ErrNoSchema) {
		t.Errorf("missing schema: err = %v, want ErrNoSchema", err)
	}
}

func TestCall_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			cancel() // fail the first attempt and cancel before the backoff
			return &ai.Response{Text: "not json"}, nil
		},
	}

	_, err := Call(ctx, Args{
		Input:      "x",
		Schema:     characterSchema(),
		Provider:   provider,
		RetryCount: 1,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type failingValidator struct{}

func (failingValidator) Validate(s *schema.Schema, value any) (bool, []validate.Error, error) {
	return false, nil, errors.New("compiler exploded")
}

func TestCall_ValidatorFailureIsCallerError(t *testing.T) {
	provider := &mockProvider{
		generateFunc: func(ctx context.Context, request ai.Request) (*ai.Response, error) {
			return &ai.Response{Text: `{"character":"Shrek"}`}, nil
		},
	}

	_, err := Call(context.Background(), Args{
		Input:     "x",
		Schema:    characterSchema(),
		Provider:  provider,
		Validator: failingValidator{},
		Sleep:     noSleep,
	})
	if err == nil || !strings.Contains(err.Error(), "validator failed") {
		t.Errorf("err = %v, want validator failure", err)
	}
}
