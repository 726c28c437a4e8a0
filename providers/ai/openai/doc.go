// Package openai provides an [ai.Provider] backed by the OpenAI
// chat-completions API. It also works with OpenAI-compatible servers
// (OpenRouter, vLLM, Ollama's compatibility endpoint) via WithBaseURL.
package openai
