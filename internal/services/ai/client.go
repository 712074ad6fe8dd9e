// Package ai provides the chat-completions client that answers questions about match stats.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/riftrewind/internal/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("AI API key not configured")

// Client is a client for an OpenAI-compatible chat completions API.
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a new AI client.
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		apiKey:    cfg.AIAPIKey,
		apiURL:    cfg.AIAPIURL,
		model:     cfg.AIModel,
		maxTokens: cfg.AIMaxTokens,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AIAPIKey}),
			},
		},
	}

	if len(c.apiKey) >= 4 {
		log.Printf("✅ Loaded AI API Key: %s*** (length: %d)", c.apiKey[:4], len(c.apiKey))
	} else {
		log.Println("⚠️ AI API Key is missing!")
	}

	log.Printf("📡 AI API URL: %s", c.apiURL)
	log.Printf("🤖 AI Model: %s", c.model)

	return c
}

// Ask answers question using the player's stats CSV as context.
func (c *Client) Ask(ctx context.Context, statsCSV, question string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildUserPrompt(statsCSV, question)},
		},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
		TopP:        1,
	}

	answer, err := c.makeAPIRequest(ctx, payload)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Got answer from AI (%d chars)", len(answer))
	return answer, nil
}

// makeAPIRequest makes the API request to the AI service.
func (c *Client) makeAPIRequest(ctx context.Context, payload ChatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI API Error: %d - %s", resp.StatusCode, string(respBody))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
