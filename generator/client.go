// Package generator invokes the hosted generation model. The model is
// treated as an opaque, non-deterministic function: one call, no retries,
// failures surface as typed errors carrying the upstream detail.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/recast/config"
	"github.com/use-agent/recast/models"
)

// Client is a lightweight OpenAI-compatible chat-completions client.
// It uses net/http directly — no third-party SDK needed. The credential and
// model settings are injected once at construction, never read per call, so
// the client is independently testable with a fake key and a stub server.
type Client struct {
	httpClient *http.Client
	cfg        config.LLMConfig
}

// NewClient creates a generator client. Pass nil to use a default
// http.Client with the configured timeout.
func NewClient(cfg config.LLMConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Generate sends the assembled prompt to the model and returns its HTML
// output with markdown code fences stripped.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", models.NewCloneError(
			models.ErrCodeGenerationAuth,
			"generation API key not configured",
			nil,
		)
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewCloneError(models.ErrCodeGeneration, "generation request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewCloneError(models.ErrCodeGeneration, "failed to read generation response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyGenerationError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewCloneError(models.ErrCodeGeneration, "failed to parse generation response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", models.NewCloneError(models.ErrCodeGeneration, "model returned no choices", nil)
	}

	html := stripFences(chatResp.Choices[0].Message.Content)
	if html == "" {
		return "", models.NewCloneError(models.ErrCodeGeneration, "model returned an empty document", nil)
	}

	return html, nil
}

// stripFences removes markdown code fences the model sometimes wraps its
// output in, returning the bare HTML.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```html") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```html"))
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// classifyGenerationError maps upstream HTTP status codes to typed errors.
func classifyGenerationError(statusCode int, body []byte) *models.CloneError {
	var errResp chatErrorResponse
	msg := "generation API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewCloneError(models.ErrCodeGenerationAuth, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewCloneError(models.ErrCodeGenerationRate, msg, nil)
	default:
		return models.NewCloneError(models.ErrCodeGeneration, fmt.Sprintf("generation API returned %d: %s", statusCode, msg), nil)
	}
}
