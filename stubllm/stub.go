package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"property-ai-service/llm"
)

// Client is a deterministic, no-network provider stub intended for CI,
// local runs without API keys, and end-to-end tests. Responses are stable
// per-input so downstream parsing + audit writes exercise the full
// pipeline.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) ProviderName() string { return "stub" }

func (c *Client) CompleteChat(ctx context.Context, model string, messages []llm.Message, params llm.SamplingParams) (*llm.Completion, error) {
	var joined string
	for _, m := range messages {
		joined += m.Role + ":" + m.Content + "\n"
	}
	short := shortHash(joined)

	text := fmt.Sprintf("Stub completion %s for model %s. Estimated at $350,000 to $400,000 based on the supplied inputs.", short, model)
	return &llm.Completion{
		Text: text,
		Usage: llm.TokenUsage{
			PromptTokens:     len(joined) / 4,
			CompletionTokens: len(text) / 4,
			TotalTokens:      (len(joined) + len(text)) / 4,
		},
	}, nil
}

func (c *Client) CompleteVision(ctx context.Context, model, prompt, imageURL string, params llm.SamplingParams) (*llm.Completion, error) {
	short := shortHash(prompt + imageURL)

	text := fmt.Sprintf("Stub image analysis %s: well-maintained interior with modern finishes.", short)
	return &llm.Completion{
		Text: text,
		Usage: llm.TokenUsage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(text) / 4,
			TotalTokens:      (len(prompt) + len(text)) / 4,
		},
	}, nil
}

// Translator is a no-network translation stub. It tags the input with the
// target language so callers can assert the call happened.
type Translator struct{}

func NewTranslator() *Translator { return &Translator{} }

func (t *Translator) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (string, error) {
	return fmt.Sprintf("[%s] %s", targetLanguage, text), nil
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:4])
}
