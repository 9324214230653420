package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfig holds configuration for the HTTP ledger client.
type HTTPConfig struct {
	// BaseURL is the ledger endpoint, e.g. "http://localhost:8090".
	BaseURL string

	// MaxRetries is the retry budget for write calls on transport failures.
	// Defaults to 3 if zero. Read calls fail fast and are never retried.
	MaxRetries int

	// BaseRetryDelay is the initial backoff delay. Defaults to 500ms.
	BaseRetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff. Defaults to 10s.
	MaxRetryDelay time.Duration

	// Timeout is the per-call deadline. Defaults to 15s.
	Timeout time.Duration

	// HTTPClient allows injecting a custom client (useful for testing).
	HTTPClient *http.Client
}

// HTTPClient talks JSON over HTTP to the wager ledger.
// It implements Client.
type HTTPClient struct {
	config HTTPConfig
	http   *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a ledger client with the given configuration.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = 500 * time.Millisecond
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = 10 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPClient{config: cfg, http: httpClient}
}

// CreateGame registers a new wagered game.
func (c *HTTPClient) CreateGame(ctx context.Context, player string) (string, error) {
	var out struct {
		GameID string `json:"gameId"`
	}
	body := map[string]string{"player": player}
	if err := c.doWrite(ctx, "POST", "/games", body, &out); err != nil {
		return "", err
	}
	return out.GameID, nil
}

// ActiveGame returns the player's pending game, if any.
// A notFound rejection maps to (.., false, nil): no active game is a
// normal answer, not an error.
func (c *HTTPClient) ActiveGame(ctx context.Context, player string) (string, bool, error) {
	var out GameStatus
	path := "/games/active?player=" + url.QueryEscape(player)
	err := c.do(ctx, "GET", path, nil, &out)
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return out.GameID, true, nil
}

// GameStatus returns the ledger's record for a game. Fails fast.
func (c *HTTPClient) GameStatus(ctx context.Context, gameID string) (GameStatus, error) {
	var out GameStatus
	err := c.do(ctx, "GET", "/games/"+url.PathEscape(gameID), nil, &out)
	return out, err
}

// SetResult requests the pending -> won|lost transition. Retried on
// transport failures; the ledger's idempotent transition makes duplicate
// deliveries safe.
func (c *HTTPClient) SetResult(ctx context.Context, gameID string, won bool) error {
	body := map[string]bool{"won": won}
	return c.doWrite(ctx, "POST", "/games/"+url.PathEscape(gameID)+"/result", body, nil)
}

// Claim requests the won -> claimed transition.
func (c *HTTPClient) Claim(ctx context.Context, gameID, player string) (float64, error) {
	var out struct {
		Reward float64 `json:"reward"`
	}
	body := map[string]string{"player": player}
	if err := c.doWrite(ctx, "POST", "/games/"+url.PathEscape(gameID)+"/claim", body, &out); err != nil {
		return 0, err
	}
	return out.Reward, nil
}

// doWrite sends a request with retry on transport failures.
// Policy rejections (APIError) are never retried.
func (c *HTTPClient) doWrite(ctx context.Context, method, path string, body, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay(attempt)):
			case <-ctx.Done():
				return &UnavailableError{Err: ctx.Err()}
			}
		}

		err := c.do(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsUnavailable(err) {
			return err
		}
	}
	return lastErr
}

// retryDelay computes exponential backoff capped at MaxRetryDelay.
func (c *HTTPClient) retryDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.config.BaseRetryDelay) * math.Pow(2, float64(attempt-1)))
	if delay > c.config.MaxRetryDelay {
		delay = c.config.MaxRetryDelay
	}
	return delay
}

// do sends a single request and decodes the response or error envelope.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ledger: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("ledger: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UnavailableError{Err: err}
	}

	if resp.StatusCode >= 500 {
		return &UnavailableError{Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Code != "" {
			return &apiErr
		}
		return &UnavailableError{Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("ledger: decode response: %w", err)
		}
	}
	return nil
}
