// Package gateway calls the lookup, process and ask endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/domain"
)

// Fallback messages used when a failed response carries no "error" field.
const (
	LookupFallback  = "Failed to fetch summoner data"
	ProcessFallback = "Failed to process matches"
	AskFallback     = "Failed to get an answer"
)

// Gateway is a client for the three backend endpoints.
// Each endpoint is optional; only the operations whose endpoint is set work.
type Gateway struct {
	lookupURL  string
	processURL string
	askURL     string
	httpClient *http.Client
}

// New creates a Gateway from cfg. httpClient may be nil.
func New(cfg *config.Config, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Gateway{
		lookupURL:  cfg.LookupEndpoint,
		processURL: cfg.ProcessEndpoint,
		askURL:     cfg.AskEndpoint,
		httpClient: httpClient,
	}
}

// Lookup fetches a player's profile and recent matches.
func (g *Gateway) Lookup(ctx context.Context, req domain.LookupRequest) (*domain.LookupResult, error) {
	if g.lookupURL == "" {
		return nil, &ConfigurationError{Operation: "lookup", Setting: "LOOKUP_ENDPOINT"}
	}
	return post[domain.LookupResult](ctx, g.httpClient, "lookup", g.lookupURL, req, LookupFallback)
}

// Process asks the backend to compute stats for a player.
func (g *Gateway) Process(ctx context.Context, stableID string) (*domain.AggregateResult, error) {
	if g.processURL == "" {
		return nil, &ConfigurationError{Operation: "process", Setting: "PROCESS_ENDPOINT"}
	}
	req := domain.ProcessRequest{StableID: stableID}
	return post[domain.AggregateResult](ctx, g.httpClient, "process", g.processURL, req, ProcessFallback)
}

// Ask sends a question about a player's processed stats.
func (g *Gateway) Ask(ctx context.Context, stableID, question string) (*domain.QAExchange, error) {
	if g.askURL == "" {
		return nil, &ConfigurationError{Operation: "ask", Setting: "ASK_ENDPOINT"}
	}
	req := domain.AskRequest{StableID: stableID, Question: question}
	return post[domain.QAExchange](ctx, g.httpClient, "ask", g.askURL, req, AskFallback)
}

// post sends body as JSON and decodes the unwrapped response into T.
func post[T any](ctx context.Context, client *http.Client, op, url string, body interface{}, fallback string) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: err}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	out, err := Decode[T](raw, ok, fallback)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.StatusCode == 0 {
			remote.StatusCode = resp.StatusCode
		}
		return nil, err
	}
	return &out, nil
}
