package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"property-ai-service/llm"
)

const translateEndpoint = "https://translation.googleapis.com/language/translate/v2"

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

// Client is a Google Translate v2 REST client.
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient creates a new Google Translate client
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Translate translates text to the target language. An empty
// sourceLanguage lets the API auto-detect the source.
func (c *Client) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (string, error) {
	reqBody := translateRequest{
		Q:      []string{text},
		Target: targetLanguage,
		Source: sourceLanguage,
		Format: "text",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, translateEndpoint+"?key="+c.apiKey, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "failed to send request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &llm.ProviderError{Provider: "google_translate", StatusCode: resp.StatusCode, Message: string(body)}
	}

	var transResp translateResponse
	if err := json.Unmarshal(body, &transResp); err != nil {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "failed to parse response", Err: err}
	}

	if len(transResp.Data.Translations) == 0 {
		return "", &llm.ProviderError{Provider: "google_translate", Message: "no translations in response"}
	}

	return transResp.Data.Translations[0].TranslatedText, nil
}
