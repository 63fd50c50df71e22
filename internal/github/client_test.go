package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/logging"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.GitHubConfig{
		Token:          "test-token",
		BaseURL:        srv.URL,
		APIVersion:     "2022-11-28",
		UserAgent:      "octomcp-test",
		TimeoutSeconds: 5,
	}, logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	return c
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(config.GitHubConfig{BaseURL: "https://api.github.com"}, logging.New(io.Discard, "silent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(config.GitHubConfig{Token: "x", BaseURL: "not a url"}, logging.New(io.Discard, "silent"))
	require.Error(t, err)
}

func TestDoSendsHeaders(t *testing.T) {
	var got http.Header
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	})

	_, status, err := c.Do(context.Background(), "GET", "/user", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bearer test-token", got.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", got.Get("Accept"))
	assert.Equal(t, "2022-11-28", got.Get("X-GitHub-Api-Version"))
	assert.Equal(t, "octomcp-test", got.Get("User-Agent"))
}

func TestDoSendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number":1}`))
	})

	raw, status, err := c.Do(context.Background(), "POST", "/repos/o/r/issues", nil, map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "x", gotBody["title"])
	assert.JSONEq(t, `{"number":1}`, string(raw))
}

func TestDoEncodesQuery(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	q := url.Values{}
	q.Set("labels", "bug,priority-high")
	q.Set("state", "open")
	_, _, err := c.Do(context.Background(), "GET", "/repos/o/r/issues", q, nil)
	require.NoError(t, err)
	assert.Equal(t, "bug,priority-high", gotQuery.Get("labels"))
	assert.Equal(t, "open", gotQuery.Get("state"))
}

func TestDoAPIErrorKeepsBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Head branch was modified"}`))
	})

	_, status, err := c.Do(context.Background(), "PUT", "/repos/o/r/pulls/1/merge", nil, map[string]any{})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, status)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.JSONEq(t, `{"message":"Head branch was modified"}`, apiErr.Body)
}

func TestDoContextCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.Do(ctx, "GET", "/user", nil, nil)
	require.Error(t, err)
}
