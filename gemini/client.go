// Package gemini is a thin client for the Google Generative Language API.
// It speaks the v1beta generateContent wire format directly and layers a
// model-fallback loop on top: unknown models are skipped, rate limits are
// retried with backoff, and anything else moves on to the next candidate.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoAPIKey is returned by Generate when the client was built without
// credentials.
var ErrNoAPIKey = errors.New("gemini: missing API key")

// Config wires a Client. Zero values get sensible defaults from
// defaults(); APIKey is the only mandatory field.
type Config struct {
	APIKey string
	// Model is the preferred model. Fallbacks are tried in order after it.
	Model     string
	Fallbacks []string
	BaseURL   string
	// MaxAttempts bounds rate-limit retries per model.
	MaxAttempts int
	// Backoff holds the pause before each rate-limit retry; the last entry
	// repeats when attempts outnumber entries.
	Backoff []time.Duration
	Timeout time.Duration
	Logger  *slog.Logger
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.Fallbacks == nil {
		c.Fallbacks = []string{"gemini-1.5-pro", "gemini-1.0-pro", "gemini-pro"}
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff == nil {
		c.Backoff = []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	}
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client calls the generateContent endpoint with model fallback.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Client from cfg, filling in defaults.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ModelOrder returns the preferred model followed by the fallbacks, with
// duplicates removed.
func (c *Client) ModelOrder() []string {
	seen := make(map[string]bool, 1+len(c.cfg.Fallbacks))
	order := make([]string, 0, 1+len(c.cfg.Fallbacks))
	for _, m := range append([]string{c.cfg.Model}, c.cfg.Fallbacks...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		order = append(order, m)
	}
	return order
}

// Generate runs parts through the first model that answers. Rate-limited
// calls are retried on the same model up to MaxAttempts times, honoring a
// provider-supplied retry delay when one is present; unknown models and
// other failures advance to the next candidate immediately. When every
// model fails, the returned error names the last model and status.
func (c *Client) Generate(ctx context.Context, parts []Part, gen *GenerationConfig) (*Result, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	var (
		lastErr   error
		lastModel string
	)
	for _, model := range c.ModelOrder() {
		lastModel = model
		for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
			text, err := c.generateOnce(ctx, model, parts, gen)
			if err == nil {
				return &Result{Text: text, Model: model}, nil
			}
			lastErr = err

			kind := Classify(err)
			c.logger.Warn("generation attempt failed",
				"model", model, "attempt", attempt, "kind", kind.String(), "err", err)

			if kind != KindRateLimited || attempt == c.cfg.MaxAttempts {
				break
			}
			delay := retryAfter(err)
			if delay <= 0 {
				delay = c.backoff(attempt)
			}
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	status := "unknown"
	var ae *APIError
	if errors.As(lastErr, &ae) {
		status = strconv.Itoa(ae.StatusCode)
	}
	return nil, fmt.Errorf("gemini: all models failed; last error (status %s) on %s: %w", status, lastModel, lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	if len(c.cfg.Backoff) == 0 {
		return 2 * time.Second
	}
	idx := attempt - 1
	if idx >= len(c.cfg.Backoff) {
		idx = len(c.cfg.Backoff) - 1
	}
	return c.cfg.Backoff[idx]
}

func (c *Client) generateOnce(ctx context.Context, model string, parts []Part, gen *GenerationConfig) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []Content{{Role: "user", Parts: parts}},
		GenerationConfig: gen,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: call %s: %w", model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: read response from %s: %w", model, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiErrorFrom(model, resp, raw)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response from %s: %w", model, err)
	}
	if parsed.Error != nil {
		return "", &APIError{
			Model:      model,
			StatusCode: parsed.Error.Code,
			Status:     parsed.Error.Status,
			Message:    parsed.Error.Message,
			RetryAfter: retryInfoDelay(parsed.Error.Details),
		}
	}
	text := collectText(parsed)
	if text == "" {
		return "", fmt.Errorf("gemini: %s returned no completion", model)
	}
	return text, nil
}

func apiErrorFrom(model string, resp *http.Response, raw []byte) *APIError {
	ae := &APIError{
		Model:      model,
		StatusCode: resp.StatusCode,
		Message:    string(raw),
	}
	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil {
		ae.Status = parsed.Error.Status
		ae.Message = parsed.Error.Message
		ae.RetryAfter = retryInfoDelay(parsed.Error.Details)
	}
	if ae.RetryAfter == 0 {
		if v := resp.Header.Get("Retry-After"); v != "" {
			ae.RetryAfter = parseRetryDelay(v)
		}
	}
	return ae
}

func collectText(resp generateResponse) string {
	var buf bytes.Buffer
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			buf.WriteString(part.Text)
		}
	}
	return buf.String()
}
