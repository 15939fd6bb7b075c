// Package llm routes decision-context packs to a pool of external reasoning
// workers and parses their structured verdicts. Workers are OpenAI-compatible
// chat-completion servers (LM Studio and friends).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photon-trading-bot/internal/settings"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents an OpenAI-compatible chat completions request
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat asks the server for a JSON object response
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatResponse represents an OpenAI-compatible chat completions response
type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client is the HTTP client shared by all advisory workers. Per-worker
// timeouts come from the endpoint settings, so the client itself carries
// no timeout.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new advisory client
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// Complete sends one system+user exchange to the given endpoint and returns
// the assistant message content. The endpoint's timeout bounds the call.
func (c *Client) Complete(ctx context.Context, ep settings.LLMEndpoint, system, user string) (string, error) {
	timeout := time.Duration(ep.TimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqBody := ChatRequest{
		Model: ep.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.2,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := strings.TrimRight(ep.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+ep.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: call %s: %w", ep.BaseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: %s returned status %d", ep.BaseURL, resp.StatusCode)
	}

	var parsed ChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm: parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: server error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
