package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"
)

// HTTPClient is the base implementation shared by HTTP backend
// adapters. It provides connection pooling, bounded retries with
// exponential backoff for transient errors, failure classification
// into GenerationError kinds, and health bookkeeping.
//
// Concrete adapters (openai, anthropic, generic) embed this struct and
// implement the Client interface on top of it.
type HTTPClient struct {
	config Config
	client *http.Client

	healthMu sync.RWMutex
	health   Health
}

// NewHTTPClient creates a base HTTP client with connection pooling.
func NewHTTPClient(config Config) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		health: Health{
			Healthy:   true, // start optimistic
			LastCheck: time.Now(),
		},
	}
}

// Name returns the backend's configured name.
func (c *HTTPClient) Name() string {
	return c.config.Name
}

// Config returns the backend configuration.
func (c *HTTPClient) Config() Config {
	return c.config
}

// Healthy returns the current health verdict.
func (c *HTTPClient) Healthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health.Healthy
}

// Health returns a snapshot of the health bookkeeping.
func (c *HTTPClient) Health() Health {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health
}

// updateHealth records the outcome of a request or health check.
func (c *HTTPClient) updateHealth(success bool, err error) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	c.health.LastCheck = time.Now()

	if success {
		c.health.Healthy = true
		c.health.ConsecutiveFailures = 0
		c.health.LastError = nil
		return
	}

	c.health.ConsecutiveFailures++
	c.health.LastError = err

	// Three consecutive failures flip the verdict.
	if c.health.ConsecutiveFailures >= 3 {
		c.health.Healthy = false
		slog.Warn("backend marked unhealthy",
			"backend", c.config.Name,
			"consecutive_failures", c.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// recordRequest updates request counters.
func (c *HTTPClient) recordRequest(success bool) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	c.health.TotalRequests++
	if !success {
		c.health.FailedRequests++
	}
}

// DoJSON performs a JSON request with retries and decodes the response
// into respBody. Transient failures (network errors, 5xx) are retried
// up to MaxRetries with exponential backoff; auth rejections, rate
// limits and bad requests fail immediately with the matching
// GenerationError kind.
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	responseBytes, err := c.doRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &GenerationError{
				Kind:    KindParse,
				Backend: c.config.Name,
				Message: "failed to decode response body",
				Cause:   err,
			}
		}
	}

	return nil
}

// doRequest performs the HTTP request with retry logic and returns the
// response body on success.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			slog.Debug("retrying backend request",
				"backend", c.config.Name,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				return nil, c.timeoutError(ctx.Err())
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if req.Header.Get("Content-Type") == "" && body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.recordRequest(false)
			if ctx.Err() != nil {
				c.updateHealth(false, err)
				return nil, c.timeoutError(ctx.Err())
			}
			// Network error or client-side timeout: retryable.
			lastErr = err
			slog.Warn("backend request failed, will retry",
				"backend", c.config.Name,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		responseBytes, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				c.recordRequest(false)
				return nil, &GenerationError{
					Kind:    KindParse,
					Backend: c.config.Name,
					Message: "failed to read response body",
					Cause:   readErr,
				}
			}
			c.recordRequest(true)
			c.updateHealth(true, nil)
			return responseBytes, nil
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			c.recordRequest(false)
			c.updateHealth(false, fmt.Errorf("authentication failed"))
			return nil, &GenerationError{
				Kind:    KindAuth,
				Backend: c.config.Name,
				Message: string(responseBytes),
			}

		case http.StatusTooManyRequests:
			c.recordRequest(false)
			return nil, &GenerationError{
				Kind:    KindRateLimit,
				Backend: c.config.Name,
				Message: string(responseBytes),
			}

		case http.StatusBadRequest:
			c.recordRequest(false)
			return nil, &GenerationError{
				Kind:    KindBadRequest,
				Backend: c.config.Name,
				Message: string(responseBytes),
			}

		default:
			// 5xx and anything unexpected: retryable.
			c.recordRequest(false)
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(responseBytes))
			slog.Warn("backend returned error status, will retry",
				"backend", c.config.Name,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	c.updateHealth(false, lastErr)
	return nil, &GenerationError{
		Kind:    KindUnavailable,
		Backend: c.config.Name,
		Message: fmt.Sprintf("all %d attempts failed", c.config.MaxRetries+1),
		Cause:   lastErr,
	}
}

// timeoutError builds the timeout GenerationError for a context error.
func (c *HTTPClient) timeoutError(cause error) error {
	return &GenerationError{
		Kind:    KindTimeout,
		Backend: c.config.Name,
		Message: fmt.Sprintf("request exceeded %s", c.config.Timeout),
		Cause:   cause,
	}
}

// Ping performs a single GET without retries, for health checks.
func (c *HTTPClient) Ping(ctx context.Context, url string, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.updateHealth(false, err)
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("health check returned status %d", resp.StatusCode)
		c.updateHealth(false, err)
		return err
	}

	c.updateHealth(true, nil)
	return nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	slog.Debug("backend closed", "backend", c.config.Name)
	return nil
}
