package openai

import (
	"encoding/base64"
	"fmt"

	"github.com/leofalp/structo/providers/ai"
)

// Wire types for the chat-completions endpoint. Only the fields this
// provider actually sends and reads are modelled.

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage carries either a plain string content or a list of multimodal
// parts, mirroring the API's polymorphic content field.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatCompletionsResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// userMessage converts an [ai.Request] into a single user message. With no
// attachments the content stays a plain string; attachments switch it to the
// multimodal part list, with byte attachments inlined as data URLs.
func userMessage(request ai.Request) chatMessage {
	if len(request.Attachments) == 0 {
		return chatMessage{Role: "user", Content: request.Prompt}
	}

	parts := []contentPart{{Type: "text", Text: request.Prompt}}
	for _, att := range request.Attachments {
		url := att.URL
		if url == "" && len(att.Data) > 0 {
			url = fmt.Sprintf("data:%s;base64,%s", att.MIMEType, base64.StdEncoding.EncodeToString(att.Data))
		}
		if url == "" {
			continue
		}
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURLPart{URL: url}})
	}

	return chatMessage{Role: "user", Content: parts}
}
