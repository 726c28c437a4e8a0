package ai

import "fmt"

// Request carries one fully assembled prompt to a provider.
type Request struct {
	// Prompt is the complete text prompt, including any schema embedding
	// added by the orchestrator.
	Prompt string `json:"prompt"`

	// Attachments is an opaque side-channel for additional modalities
	// (images, audio). The structured-call core passes it through untouched;
	// only the provider implementation interprets it.
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a single non-text input passed alongside the prompt. Either
// URL or Data is set; MIMEType describes Data when present.
type Attachment struct {
	MIMEType string `json:"mime_type,omitempty"`
	Data     []byte `json:"data,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Response is the raw outcome of one provider invocation.
type Response struct {
	// Text is the model's raw text output, byte-for-byte.
	Text string `json:"text"`

	// Cost optionally reports what the invocation cost. Providers that do
	// not track cost leave it nil; the orchestrator passes it through to the
	// envelope unmodified.
	Cost *Cost `json:"cost,omitempty"`
}

// Cost is a provider-reported price for a single invocation.
type Cost struct {
	// Amount is the cost value for this invocation.
	Amount float64 `json:"amount"`

	// Currency is the currency or unit for the cost (e.g. "USD", "credits").
	Currency string `json:"currency,omitempty"`
}

// String returns a formatted representation of the cost.
func (c Cost) String() string {
	currency := c.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.6f %s", c.Amount, currency)
}
