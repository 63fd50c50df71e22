package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/github"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/store"
)

func testDispatcher(t *testing.T, handler http.Handler) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	lg := logging.New(io.Discard, "silent")
	client, err := github.New(config.GitHubConfig{
		Token:          "test-token",
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
	}, lg)
	require.NoError(t, err)

	return NewDispatcher(NewRegistry(), client, nil, lg)
}

func TestDispatchUnknownTool(t *testing.T) {
	called := false
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, terr := d.Dispatch(context.Background(), "frobnicate", map[string]any{})
	require.NotNil(t, terr)
	assert.Equal(t, KindUnknownTool, terr.Kind)
	assert.False(t, called, "unknown tool must not reach upstream")
}

func TestDispatchValidationStopsBeforeUpstream(t *testing.T) {
	called := false
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, terr := d.Dispatch(context.Background(), "create_issue", map[string]any{"owner": "o"})
	require.NotNil(t, terr)
	assert.Equal(t, KindMissingArgument, terr.Kind)
	assert.False(t, called, "invalid arguments must not reach upstream")
}

func TestDispatchCreateIssue(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/o/r/issues", r.URL.Path)
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "crash", body["title"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number":42,"title":"crash"}`))
	}))

	raw, terr := d.Dispatch(context.Background(), "create_issue", map[string]any{
		"owner": "o", "repo": "r", "title": "crash",
	})
	require.Nil(t, terr)
	assert.JSONEq(t, `{"number":42,"title":"crash"}`, string(raw))
}

func TestDispatchUpstreamFailure(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Head branch was modified"}`))
	}))

	_, terr := d.Dispatch(context.Background(), "merge_pull_request", map[string]any{
		"owner": "o", "repo": "r", "pull_number": float64(1),
	})
	require.NotNil(t, terr)
	assert.Equal(t, KindUpstreamFailure, terr.Kind)
	assert.Equal(t, http.StatusConflict, terr.Status)
	assert.JSONEq(t, `{"message":"Head branch was modified"}`, terr.Body)
}

func TestDispatchListProjection(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bug,ux", r.URL.Query().Get("labels"))
		w.Write([]byte(`[{"number":1}]`))
	}))

	raw, terr := d.Dispatch(context.Background(), "list_issues", map[string]any{
		"owner": "o", "repo": "r", "labels": []any{"bug", "ux"},
	})
	require.Nil(t, terr)
	assert.JSONEq(t, `{"items":[{"number":1}],"count":1}`, string(raw))
}

func TestDispatchPullRequestStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":5,"title":"x","state":"open","mergeable":true,"head":{"ref":"f","sha":"abc123"},"base":{"ref":"main"}}`))
	})
	mux.HandleFunc("/repos/o/r/commits/abc123/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state":"success","total_count":1}`))
	})
	d := testDispatcher(t, mux)

	raw, terr := d.Dispatch(context.Background(), "get_pull_request_status", map[string]any{
		"owner": "o", "repo": "r", "pull_number": float64(5),
	})
	require.Nil(t, terr)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "abc123", got["head_sha"])
	require.Contains(t, got, "status")
	assert.Equal(t, "success", got["status"].(map[string]any)["state"])
}

func TestDispatchPullRequestStatusSubFetchFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":5,"head":{"sha":"abc123"},"base":{"ref":"main"}}`))
	})
	mux.HandleFunc("/repos/o/r/commits/abc123/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	d := testDispatcher(t, mux)

	raw, terr := d.Dispatch(context.Background(), "get_pull_request_status", map[string]any{
		"owner": "o", "repo": "r", "pull_number": float64(5),
	})
	require.Nil(t, terr, "status sub-fetch failure must not fail the call")

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.NotContains(t, got, "status")
}

func TestDispatchPullRequestStatusNoHeadSHA(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":5}`))
	}))

	_, terr := d.Dispatch(context.Background(), "get_pull_request_status", map[string]any{
		"owner": "o", "repo": "r", "pull_number": float64(5),
	})
	require.NotNil(t, terr)
	assert.Equal(t, KindUpstreamAmbiguous, terr.Kind)
}

func TestDispatchPushFiles(t *testing.T) {
	var refUpdate map[string]any
	blobs := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":{"sha":"head111"}}`))
	})
	mux.HandleFunc("/repos/o/r/git/blobs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "base64", body["encoding"])
		blobs++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"sha":"blob%d"}`, blobs)
	})
	mux.HandleFunc("/repos/o/r/git/trees", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BaseTree string           `json:"base_tree"`
			Tree     []map[string]any `json:"tree"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "head111", body.BaseTree)
		assert.Len(t, body.Tree, 2)
		assert.Equal(t, "100644", body.Tree[0]["mode"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sha":"tree222"}`))
	})
	mux.HandleFunc("/repos/o/r/git/commits", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "add two files", body["message"])
		assert.Equal(t, "tree222", body["tree"])
		assert.Equal(t, []any{"head111"}, body["parents"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sha":"commit333","message":"add two files"}`))
	})
	mux.HandleFunc("/repos/o/r/git/refs/heads/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		json.NewDecoder(r.Body).Decode(&refUpdate)
		w.Write([]byte(`{"object":{"sha":"commit333"}}`))
	})

	d := testDispatcher(t, mux)
	raw, terr := d.Dispatch(context.Background(), "push_files", map[string]any{
		"owner": "o", "repo": "r", "branch": "main", "message": "add two files",
		"files": []any{
			map[string]any{"path": "a.txt", "content": "aaa"},
			map[string]any{"path": "b.txt", "content": "bbb"},
		},
	})
	require.Nil(t, terr)
	assert.Equal(t, 2, blobs)
	assert.Equal(t, "commit333", refUpdate["sha"])

	var commit map[string]any
	require.NoError(t, json.Unmarshal(raw, &commit))
	assert.Equal(t, "commit333", commit["sha"])
}

func TestDispatchPushFilesBadInput(t *testing.T) {
	called := false
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("empty files", func(t *testing.T) {
		_, terr := d.Dispatch(context.Background(), "push_files", map[string]any{
			"owner": "o", "repo": "r", "branch": "main", "message": "m", "files": []any{},
		})
		require.NotNil(t, terr)
		assert.Equal(t, KindInvalidArgument, terr.Kind)
	})

	t.Run("file without content", func(t *testing.T) {
		_, terr := d.Dispatch(context.Background(), "push_files", map[string]any{
			"owner": "o", "repo": "r", "branch": "main", "message": "m",
			"files": []any{map[string]any{"path": "a.txt"}},
		})
		require.NotNil(t, terr)
		assert.Equal(t, KindInvalidArgument, terr.Kind)
	})

	assert.False(t, called, "invalid files must not reach upstream")
}

func TestDispatchPushFilesNoRefSHA(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, terr := d.Dispatch(context.Background(), "push_files", map[string]any{
		"owner": "o", "repo": "r", "branch": "main", "message": "m",
		"files": []any{map[string]any{"path": "a.txt", "content": "aaa"}},
	})
	require.NotNil(t, terr)
	assert.Equal(t, KindUpstreamAmbiguous, terr.Kind)
}

func TestDispatchRecordsAudit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"octocat"}`))
	}))
	t.Cleanup(srv.Close)

	lg := logging.New(io.Discard, "silent")
	client, err := github.New(config.GitHubConfig{
		Token: "test-token", BaseURL: srv.URL, TimeoutSeconds: 5,
	}, lg)
	require.NoError(t, err)

	db, err := store.Open(":memory:", lg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	audit := store.NewAuditLog(db, lg)
	d := NewDispatcher(NewRegistry(), client, audit, lg)

	_, terr := d.Dispatch(context.Background(), "get_me", map[string]any{})
	require.Nil(t, terr)
	_, terr = d.Dispatch(context.Background(), "create_issue", map[string]any{"owner": "o"})
	require.NotNil(t, terr)

	invs, err := audit.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, invs, 2)

	byTool := map[string]store.Invocation{}
	for _, inv := range invs {
		byTool[inv.Tool] = inv
	}
	assert.True(t, byTool["get_me"].OK)
	assert.False(t, byTool["create_issue"].OK)
	assert.Equal(t, "missing_argument", byTool["create_issue"].ErrorKind)
}

func TestDispatchEmptyBodyProjection(t *testing.T) {
	d := testDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	raw, terr := d.Dispatch(context.Background(), "delete_branch", map[string]any{
		"owner": "o", "repo": "r", "branch": "stale",
	})
	require.Nil(t, terr)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}
