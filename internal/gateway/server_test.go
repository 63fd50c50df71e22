package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/github"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/mcp"
	"github.com/soyeahso/octomcp/internal/tools"
)

func testGateway(t *testing.T, upstream http.Handler) *Server {
	t.Helper()
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	lg := logging.New(io.Discard, "silent")
	client, err := github.New(config.GitHubConfig{
		Token: "test-token", BaseURL: up.URL, TimeoutSeconds: 5,
	}, lg)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Gateway.Auth = config.GatewayAuth{Mode: "token", Token: "gw-secret"}

	dispatcher := tools.NewDispatcher(tools.NewRegistry(), client, nil, lg)
	return New(cfg, dispatcher, lg)
}

func emptyUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
}

func TestResolveBindAddr(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GatewayConfig
		want string
	}{
		{"loopback", config.GatewayConfig{Bind: "loopback", Port: 18990}, "127.0.0.1:18990"},
		{"lan", config.GatewayConfig{Bind: "lan", Port: 8080}, "0.0.0.0:8080"},
		{"custom", config.GatewayConfig{Bind: "custom", CustomBindHost: "10.0.0.5", Port: 9000}, "10.0.0.5:9000"},
		{"custom without host", config.GatewayConfig{Bind: "custom", Port: 9000}, "0.0.0.0:9000"},
		{"unknown falls back to loopback", config.GatewayConfig{Bind: "", Port: 1}, "127.0.0.1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveBindAddr(tt.cfg))
		})
	}
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	s := testGateway(t, emptyUpstream())
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["ok"])
}

func TestToolsRequiresAuth(t *testing.T) {
	s := testGateway(t, emptyUpstream())

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/tools", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer gw-secret")
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Tools []json.RawMessage `json:"tools"`
			Count int               `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 33, got.Count)
		assert.Len(t, got.Tools, 33)
	})

	t.Run("query param token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/tools?token=gw-secret", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCallEndpoint(t *testing.T) {
	s := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/issues", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number":7}`))
	}))

	body := bytes.NewBufferString(`{"name":"create_issue","arguments":{"owner":"o","repo":"r","title":"x"}}`)
	req := httptest.NewRequest("POST", "/v1/call", body)
	req.Header.Set("Authorization", "Bearer gw-secret")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.JSONEq(t, `{"number":7}`, string(got.Result))
}

func TestCallEndpointErrors(t *testing.T) {
	s := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"conflict"}`))
	}))

	call := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/v1/call", bytes.NewBufferString(payload))
		req.Header.Set("Authorization", "Bearer gw-secret")
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)
		return rec
	}

	t.Run("unknown tool is 404", func(t *testing.T) {
		rec := call(`{"name":"frobnicate"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("validation error is 400", func(t *testing.T) {
		rec := call(`{"name":"create_issue","arguments":{"owner":"o"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var got struct {
			Error map[string]any `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "missing_argument", got.Error["kind"])
		assert.NotEmpty(t, got.Error["message"])
		// upstream fields must not leak into validation errors
		assert.NotContains(t, got.Error, "status")
		assert.NotContains(t, got.Error, "body")
	})

	t.Run("upstream failure is 502 with verbatim body", func(t *testing.T) {
		rec := call(`{"name":"merge_pull_request","arguments":{"owner":"o","repo":"r","pull_number":1}}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var got struct {
			Error struct {
				Kind   string `json:"kind"`
				Status int    `json:"status"`
				Body   string `json:"body"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "upstream_failure", got.Error.Kind)
		assert.Equal(t, http.StatusConflict, got.Error.Status)
		assert.JSONEq(t, `{"message":"conflict"}`, got.Error.Body)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/call", nil)
		req.Header.Set("Authorization", "Bearer gw-secret")
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleFrame(t *testing.T) {
	s := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"octocat"}`))
	}))
	ctx := context.Background()

	t.Run("initialize", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
		require.NotNil(t, resp)
		init, ok := resp.Result.(mcp.InitializeResult)
		require.True(t, ok)
		assert.Equal(t, "2024-11-05", init.ProtocolVersion)
	})

	t.Run("tools list", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
		require.NotNil(t, resp)
		list, ok := resp.Result.(mcp.ListToolsResult)
		require.True(t, ok)
		assert.Len(t, list.Tools, 33)
	})

	t.Run("tools call", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_me"}}`))
		require.NotNil(t, resp)
		tr, ok := resp.Result.(mcp.ToolResult)
		require.True(t, ok)
		assert.False(t, tr.IsError)
		assert.JSONEq(t, `{"login":"octocat"}`, tr.Content[0].Text)
	})

	t.Run("tool error frame", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_issue","arguments":{}}}`))
		require.NotNil(t, resp)
		tr, ok := resp.Result.(mcp.ToolResult)
		require.True(t, ok)
		assert.True(t, tr.IsError)
	})

	t.Run("notification returns nil", func(t *testing.T) {
		assert.Nil(t, s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{"jsonrpc":"2.0","id":5,"method":"prompts/list"}`))
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, -32601, resp.Error.Code)
	})

	t.Run("parse error", func(t *testing.T) {
		resp := s.handleFrame(ctx, []byte(`{broken`))
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, -32700, resp.Error.Code)
	})
}

func TestHTTPStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, httpStatusFor(&tools.Error{Kind: tools.KindUnknownTool}))
	assert.Equal(t, http.StatusBadGateway, httpStatusFor(&tools.Error{Kind: tools.KindUpstreamFailure}))
	assert.Equal(t, http.StatusBadGateway, httpStatusFor(&tools.Error{Kind: tools.KindUpstreamAmbiguous}))
	assert.Equal(t, http.StatusBadRequest, httpStatusFor(&tools.Error{Kind: tools.KindTypeMismatch}))
	assert.Equal(t, http.StatusBadRequest, httpStatusFor(&tools.Error{Kind: tools.KindAmbiguousRequest}))
}
