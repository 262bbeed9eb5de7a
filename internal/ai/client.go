package ai

import (
	"context"
	"errors"
	"fmt"

	"hotel-concierge-platform/models"
)

// ErrUnavailable signals that the provider cannot serve the request right
// now (circuit open, quota, transport failure). Callers degrade to a
// fallback reply instead of surfacing a server error to the widget.
var ErrUnavailable = errors.New("ai provider unavailable")

// Turn is one prior exchange entry sent as conversation history.
type Turn struct {
	Role    string
	Content string
}

// Request carries everything a provider call needs. History is the widget's
// transcript up to, but not including, Message.
type Request struct {
	Model        string
	SystemPrompt string
	Temperature  float64
	History      []Turn
	Message      string
	Context      []string
}

// Reply is a provider response plus its reported token cost.
type Reply struct {
	Text       string
	TokensUsed int
}

// Responder generates one assistant reply per call. Implementations own
// their rate limiting and circuit breaking.
type Responder interface {
	Generate(ctx context.Context, req Request) (*Reply, error)
	Close() error
}

// ProviderKeys holds the per-provider API credentials from configuration.
type ProviderKeys struct {
	OpenAI   string
	Gemini   string
	DeepSeek string
}

// NewResponder builds the client for a tenant's configured chat provider.
func NewResponder(settings models.AISettings, keys ProviderKeys) (Responder, error) {
	switch settings.ChatProvider {
	case "gemini":
		if keys.Gemini == "" {
			return nil, fmt.Errorf("gemini selected but GEMINI_API_KEY is empty")
		}
		return NewGeminiClient(keys.Gemini)
	case "openai":
		if keys.OpenAI == "" {
			return nil, fmt.Errorf("openai selected but OPENAI_API_KEY is empty")
		}
		return NewOpenAICompatClient("openai", "https://api.openai.com/v1", keys.OpenAI), nil
	case "deepseek":
		if keys.DeepSeek == "" {
			return nil, fmt.Errorf("deepseek selected but DEEPSEEK_API_KEY is empty")
		}
		return NewOpenAICompatClient("deepseek", "https://api.deepseek.com/v1", keys.DeepSeek), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", settings.ChatProvider)
	}
}
