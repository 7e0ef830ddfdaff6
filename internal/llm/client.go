// Package llm wraps an OpenAI-compatible chat completions API used for
// article generation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client handles communication with the completion provider
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	stubMode   bool
}

// NewClient creates a new completion client with the given configuration
func NewClient(baseURL, apiKey, model string, stubMode bool) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		stubMode:   stubMode,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Message is a single chat turn sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends a system+user prompt pair and returns the model's reply.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.stubMode {
		// Canned markdown article for development without provider credentials
		time.Sleep(500 * time.Millisecond)
		return "## Introduction\n\nThis is stubbed article content.\n\n" +
			"| Option | Verdict |\n|---|---|\n| First | Good |\n| Second | Better |\n\n" +
			"## Conclusion\n\nStubbed closing thoughts.", nil
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion provider returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
