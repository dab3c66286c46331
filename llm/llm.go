package llm

import (
	"context"
	"fmt"
)

// Message is one entry in an ordered chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SamplingParams are passed through to the provider unvalidated; the
// provider may reject out-of-range values.
type SamplingParams struct {
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

// TokenUsage mirrors the provider's usage accounting.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the text outcome of a single chat or vision call.
type Completion struct {
	Text  string
	Usage TokenUsage
}

// ChatClient abstracts a chat/vision completion provider. Single network
// attempt per call; no internal retry. Implementations must be
// concurrency-safe if used across goroutines.
type ChatClient interface {
	// CompleteChat sends an ordered message list to the given model.
	CompleteChat(ctx context.Context, model string, messages []Message, params SamplingParams) (*Completion, error)
	// CompleteVision sends a single-turn request combining instruction
	// text and an image reference.
	CompleteVision(ctx context.Context, model, prompt, imageURL string, params SamplingParams) (*Completion, error)
	// ProviderName returns a short provider label to persist in the audit
	// trail (e.g., "openai", "stub").
	ProviderName() string
}

// Translator abstracts a text translation provider. An empty
// sourceLanguage requests auto-detection.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (string, error)
}

// ProviderError is returned when an upstream model or translation call
// fails (transport, quota, malformed response).
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
