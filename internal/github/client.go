package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/logging"
)

// APIError is a non-2xx response from the GitHub API. Status code and
// response body are carried verbatim so callers can surface them unchanged.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: upstream returned %d: %s", e.StatusCode, e.Body)
}

// Client is a thin GitHub REST client. It owns the single credential and
// the shared connection pool; everything above it decides what to call.
type Client struct {
	base       string
	apiVersion string
	userAgent  string
	http       *http.Client
	log        *logging.Logger
}

// New builds a client from config. The token is fixed for the lifetime of
// the client.
func New(cfg config.GitHubConfig, log *logging.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: no token configured (set github.token or GITHUB_TOKEN)")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("github: invalid base URL %q", cfg.BaseURL)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	hc := &http.Client{
		Transport: &oauth2.Transport{Source: src},
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	return &Client{
		base:       base,
		apiVersion: cfg.APIVersion,
		userAgent:  cfg.UserAgent,
		http:       hc,
		log:        log,
	}, nil
}

// Do performs a single API call. path must start with "/". A nil body sends
// no payload. Non-2xx responses return *APIError; the returned status code
// is set whenever a response was received.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, int, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("github: failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("github: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.apiVersion != "" {
		req.Header.Set("X-GitHub-Api-Version", c.apiVersion)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("github: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("github: failed to read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, resp.StatusCode, nil
}
