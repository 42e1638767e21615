// Package reddit provides an authenticated read-only client for the Reddit
// data API: listing pagination, subreddit probing and comment tree fetches.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NagyLevin/Redditscrape/internal/config"
	"github.com/NagyLevin/Redditscrape/internal/logger"
	"github.com/NagyLevin/Redditscrape/internal/models"
)

const (
	defaultBaseURL = "https://oauth.reddit.com"
	tokenURL       = "https://www.reddit.com/api/v1/access_token"

	// Responses larger than this are cut off rather than buffered.
	maxBodyBytes = 10 << 20
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// APIError is a non-2xx answer from the Reddit API.
type APIError struct {
	Path       string
	Reason     string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %d (%s): %s", ErrUnexpectedStatusCode, e.StatusCode, e.Reason, e.Path)
	}

	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatusCode, e.StatusCode, e.Path)
}

// Session is an authenticated handle on the Reddit read API. Its lifecycle
// is owned by the caller; nothing here is process-global.
type Session struct {
	client    *http.Client
	userAgent string
	baseURL   string
	retry     *config.RetryPolicy
	log       *logger.Logger
}

// NewSessionWithClient builds a session around an already-authenticated
// HTTP client. baseURL "" means the production API.
func NewSessionWithClient(client *http.Client, userAgent, baseURL string, retry *config.RetryPolicy, log *logger.Logger) *Session {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Session{
		client:    client,
		userAgent: userAgent,
		baseURL:   baseURL,
		retry:     retry,
		log:       log,
	}
}

// SmokeTest performs a minimal read-scope probe.
func (s *Session) SmokeTest(ctx context.Context) error {
	var lst listing

	q := url.Values{"limit": {"1"}, "raw_json": {"1"}}
	if err := s.getJSON(ctx, "/r/popular/new", q, &lst); err != nil {
		return fmt.Errorf("smoke test failed: %w", err)
	}

	return nil
}

// getJSON performs a GET with retry and decodes the JSON response into out.
func (s *Session) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error

	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := s.retry.GetRetryDelay(attempt)
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		target := s.baseURL + path
		if len(query) > 0 {
			target += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, s.retry.MaxAttempts, err)

			continue
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := newAPIError(resp, path)

			if closeErr := resp.Body.Close(); closeErr != nil {
				s.log.Warn("failed to close response body", "error", closeErr)
			}

			if !isRetryableStatus(resp.StatusCode) {
				return apiErr
			}

			lastErr = apiErr

			continue
		}

		decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out)

		if closeErr := resp.Body.Close(); closeErr != nil {
			s.log.Warn("failed to close response body", "error", closeErr)
		}

		if decodeErr != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", decodeErr)

			continue
		}

		return nil
	}

	return lastErr
}

// newAPIError reads the error body, which usually carries a reason such as
// "private" or "quarantined".
func newAPIError(resp *http.Response, path string) *APIError {
	var body struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}

	// Best effort; an unreadable body still yields a usable status error.
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body)

	reason := body.Reason
	if reason == "" {
		reason = body.Message
	}

	return &APIError{
		Path:       path,
		Reason:     reason,
		StatusCode: resp.StatusCode,
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}

// scrubDeleted maps the API's "[deleted]" author sentinel to an absent
// author, matching the nullable-author data model. The input record is
// treated as immutable; scrubbing produces a copy.
func scrubDeleted(rec models.RawRecord) models.RawRecord {
	if author, ok := rec["author"].(string); !ok || author != "[deleted]" {
		return rec
	}

	out := make(models.RawRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	out["author"] = nil

	return out
}
