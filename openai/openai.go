package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"property-ai-service/llm"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// Message is a chat message whose content is either a plain string or, for
// vision calls, a list of typed content parts.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ImageContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature,omitempty"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	PresencePenalty  float64   `json:"presence_penalty,omitempty"`
	FrequencyPenalty float64   `json:"frequency_penalty,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Client represents an OpenAI API client
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient creates a new OpenAI client
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// ProviderName identifies this provider in saved interactions
func (c *Client) ProviderName() string {
	return "openai"
}

// CompleteChat sends an ordered message list to the chat completions API.
func (c *Client) CompleteChat(ctx context.Context, model string, messages []llm.Message, params llm.SamplingParams) (*llm.Completion, error) {
	reqMessages := make([]Message, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, Message{Role: m.Role, Content: m.Content})
	}
	return c.complete(ctx, ChatRequest{
		Model:            model,
		Messages:         reqMessages,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		PresencePenalty:  params.PresencePenalty,
		FrequencyPenalty: params.FrequencyPenalty,
	})
}

// CompleteVision sends a single-turn request with a text part and an
// image-url part in one user message.
func (c *Client) CompleteVision(ctx context.Context, model, prompt, imageURL string, params llm.SamplingParams) (*llm.Completion, error) {
	textPrompt := TextContent{
		Type: "text",
		Text: prompt,
	}

	imagePrompt := ImageContent{
		Type: "image_url",
		ImageURL: ImageURL{
			URL: imageURL,
		},
	}

	return c.complete(ctx, ChatRequest{
		Model: model,
		Messages: []Message{
			{
				Role: "user",
				Content: []any{
					textPrompt,
					imagePrompt,
				},
			},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
}

func (c *Client) complete(ctx context.Context, reqBody ChatRequest) (*llm.Completion, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Message: "failed to send request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Message: string(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Message: "failed to parse response", Err: err}
	}

	if len(chatResp.Choices) == 0 {
		return nil, &llm.ProviderError{Provider: "openai", Message: "no choices in response"}
	}

	text, err := contentToString(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &llm.Completion{
		Text: text,
		Usage: llm.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

// contentToString extracts the text content from the response. If content
// is not a string, it is marshaled back to JSON.
func contentToString(content any) (string, error) {
	if contentStr, ok := content.(string); ok {
		return contentStr, nil
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal content: %w", err)
	}

	return string(contentJSON), nil
}
