package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/leofalp/structo/internal/utils"
	"github.com/leofalp/structo/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	defaultModel            = "gpt-4o-mini"
	chatCompletionsEndpoint = "/chat/completions"
)

// Provider implements [ai.Provider] against the OpenAI chat-completions API
// and any OpenAI-compatible endpoint (set a custom base URL).
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New creates a provider configured from the environment: OPENAI_API_KEY,
// OPENAI_API_BASE_URL and OPENAI_MODEL, with sensible defaults for the
// latter two.
func New() *Provider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key used for authenticating requests.
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the default base URL for API requests.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	return p
}

// WithModel sets the model identifier sent with every request.
func (p *Provider) WithModel(model string) *Provider {
	p.model = model
	return p
}

// WithHTTPClient sets the HTTP client used for outbound requests. Timeout
// policy belongs here: the structured-call core does not enforce one.
func (p *Provider) WithHTTPClient(client *http.Client) *Provider {
	p.client = client
	return p
}

// Generate implements [ai.Provider].
func (p *Provider) Generate(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openai: API key is not set")
	}

	wireReq := chatCompletionsRequest{
		Model:    p.model,
		Messages: []chatMessage{userMessage(request)},
	}

	httpResponse, resp, err := utils.DoPostSync[chatCompletionsResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, wireReq)
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("openai: empty response: %s", httpResponse.Status)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	return &ai.Response{Text: resp.Choices[0].Message.Content}, nil
}
