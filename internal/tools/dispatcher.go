package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/octomcp/internal/github"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/store"
)

// Dispatcher runs tool invocations end to end: lookup, validation, request
// building, the upstream call(s), and response projection. It holds no
// per-invocation state, so a single dispatcher serves any number of
// concurrent callers.
type Dispatcher struct {
	reg    *Registry
	client *github.Client
	audit  *store.AuditLog // optional
	log    *logging.Logger
}

// NewDispatcher creates a dispatcher. audit may be nil to disable the
// invocation log.
func NewDispatcher(reg *Registry, client *github.Client, audit *store.AuditLog, log *logging.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, client: client, audit: audit, log: log.Sub("dispatch")}
}

// Registry exposes the tool table for transports that list tools.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Dispatch executes one tool call. The returned *Error is nil on success.
// Failures never retry: the caller sees exactly one upstream attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs map[string]any) (json.RawMessage, *Error) {
	start := time.Now()
	result, terr := d.dispatch(ctx, name, rawArgs)
	elapsed := time.Since(start)

	if terr != nil {
		d.log.Warn().Str("tool", name).Str("kind", string(terr.Kind)).Int("status", terr.Status).
			Dur("elapsed", elapsed).Msg("tool call failed")
	} else {
		d.log.Info().Str("tool", name).Dur("elapsed", elapsed).Msg("tool call ok")
	}

	if d.audit != nil {
		inv := store.Invocation{
			ID:         uuid.NewString(),
			Tool:       name,
			OK:         terr == nil,
			DurationMS: elapsed.Milliseconds(),
		}
		if terr != nil {
			inv.ErrorKind = string(terr.Kind)
			inv.Status = terr.Status
		}
		if err := d.audit.Record(ctx, inv); err != nil {
			d.log.Error().Err(err).Msg("failed to record invocation")
		}
	}

	return result, terr
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, rawArgs map[string]any) (json.RawMessage, *Error) {
	tool, ok := d.reg.Lookup(name)
	if !ok {
		return nil, errUnknownTool(name)
	}

	args, verr := Validate(tool.InputSchema, rawArgs)
	if verr != nil {
		return nil, verr
	}

	// composite tools span several upstream calls and have no builder
	switch name {
	case "get_pull_request_status":
		return d.pullRequestStatus(ctx, args)
	case "push_files":
		return d.pushFiles(ctx, args)
	}

	req, berr := Build(name, args)
	if berr != nil {
		return nil, berr
	}

	var body any
	if req.Body != nil {
		body = req.Body
	}
	raw, _, err := d.client.Do(ctx, req.Method, req.Path, req.Query, body)
	if err != nil {
		return nil, upstreamError(err)
	}

	return Project(name, raw)
}

// pullRequestStatus fetches the pull request and then the combined commit
// status of its head. The status sub-fetch is optional: if it fails the
// field is omitted from the result rather than failing the whole call.
func (d *Dispatcher) pullRequestStatus(ctx context.Context, args Args) (json.RawMessage, *Error) {
	prPath := repoPath(args, "/pulls/%d", args.Int("pull_number"))
	prRaw, _, err := d.client.Do(ctx, "GET", prPath, nil, nil)
	if err != nil {
		return nil, upstreamError(err)
	}

	var head struct {
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	}
	if err := json.Unmarshal(prRaw, &head); err != nil || head.Head.SHA == "" {
		return nil, errUpstreamAmbiguous("pull request response carries no head sha")
	}

	var status json.RawMessage
	statusPath := repoPath(args, "/commits/%s", url.PathEscape(head.Head.SHA))
	statusRaw, _, err := d.client.Do(ctx, "GET", statusPath+"/status", nil, nil)
	if err != nil {
		d.log.Debug().Err(err).Msg("combined status unavailable, omitting")
	} else {
		status = statusRaw
	}

	return projectPullStatus(prRaw, status)
}

// pushFiles commits several files to a branch atomically via the git data
// API: resolve the branch head, create one blob per file, build a tree on
// the head, commit it, then fast-forward the ref. Any failed step aborts
// the sequence; nothing moves the ref until the commit exists.
func (d *Dispatcher) pushFiles(ctx context.Context, args Args) (json.RawMessage, *Error) {
	files := args.Objects("files")
	if len(files) == 0 {
		return nil, errInvalid(`argument "files": at least one file is required`)
	}
	for _, f := range files {
		path, _ := f["path"].(string)
		if _, ok := f["content"].(string); path == "" || !ok {
			return nil, errInvalid(`argument "files": every file needs a path and content`)
		}
	}

	branch := escapeRef(args.String("branch"))
	refRaw, _, err := d.client.Do(ctx, "GET", repoPath(args, "/git/ref/heads/%s", branch), nil, nil)
	if err != nil {
		return nil, upstreamError(err)
	}
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := json.Unmarshal(refRaw, &ref); err != nil || ref.Object.SHA == "" {
		return nil, errUpstreamAmbiguous("ref response carries no object sha")
	}
	headSHA := ref.Object.SHA

	entries := make([]map[string]any, 0, len(files))
	for _, f := range files {
		content, _ := f["content"].(string)
		blobRaw, _, err := d.client.Do(ctx, "POST", repoPath(args, "/git/blobs"), nil, map[string]any{
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
			"encoding": "base64",
		})
		if err != nil {
			return nil, upstreamError(err)
		}
		var blob struct {
			SHA string `json:"sha"`
		}
		if err := json.Unmarshal(blobRaw, &blob); err != nil || blob.SHA == "" {
			return nil, errUpstreamAmbiguous("blob response carries no sha")
		}
		entries = append(entries, map[string]any{
			"path": f["path"],
			"mode": "100644",
			"type": "blob",
			"sha":  blob.SHA,
		})
	}

	treeRaw, _, err := d.client.Do(ctx, "POST", repoPath(args, "/git/trees"), nil, map[string]any{
		"base_tree": headSHA,
		"tree":      entries,
	})
	if err != nil {
		return nil, upstreamError(err)
	}
	var tree struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(treeRaw, &tree); err != nil || tree.SHA == "" {
		return nil, errUpstreamAmbiguous("tree response carries no sha")
	}

	commitRaw, _, err := d.client.Do(ctx, "POST", repoPath(args, "/git/commits"), nil, map[string]any{
		"message": args.String("message"),
		"tree":    tree.SHA,
		"parents": []string{headSHA},
	})
	if err != nil {
		return nil, upstreamError(err)
	}
	var commit struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(commitRaw, &commit); err != nil || commit.SHA == "" {
		return nil, errUpstreamAmbiguous("commit response carries no sha")
	}

	if _, _, err := d.client.Do(ctx, "PATCH", repoPath(args, "/git/refs/heads/%s", branch), nil, map[string]any{
		"sha": commit.SHA,
	}); err != nil {
		return nil, upstreamError(err)
	}

	return commitRaw, nil
}

// upstreamError converts a client error into a tool error. API errors keep
// their status and body verbatim; transport errors have no status.
func upstreamError(err error) *Error {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return errUpstream(apiErr.StatusCode, apiErr.Body)
	}
	return &Error{Kind: KindUpstreamFailure, Message: err.Error()}
}
