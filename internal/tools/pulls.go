package tools

import "net/url"

func pullTools() []Tool {
	return []Tool{
		{
			Name:        "create_pull_request",
			Description: "Open a new pull request.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":                 stringProp("Repository owner (user or organization)"),
					"repo":                  stringProp("Repository name"),
					"title":                 stringProp("Pull request title"),
					"head":                  stringProp("Branch with the changes (use user:branch for cross-fork)"),
					"base":                  stringProp("Branch to merge into"),
					"body":                  stringProp("Pull request description (Markdown)"),
					"draft":                 boolProp("Open as a draft pull request"),
					"maintainer_can_modify": boolProp("Allow maintainer edits on the head branch"),
				},
				Required: []string{"owner", "repo", "title", "head", "base"},
			},
		},
		{
			Name:        "update_pull_request",
			Description: "Update an existing pull request's title, body, state, or base branch.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":                 stringProp("Repository owner (user or organization)"),
					"repo":                  stringProp("Repository name"),
					"pull_number":           intPropMin("Pull request number", 1),
					"title":                 stringProp("New title"),
					"body":                  stringProp("New description"),
					"state":                 enumProp("New state", "open", "closed"),
					"base":                  stringProp("New base branch"),
					"maintainer_can_modify": boolProp("Allow maintainer edits on the head branch"),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
		{
			Name:        "list_pull_requests",
			Description: "List pull requests in a repository.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":     stringProp("Repository owner (user or organization)"),
					"repo":      stringProp("Repository name"),
					"state":     enumPropDefault("Filter by state", "open", "open", "closed", "all"),
					"head":      stringProp("Filter by head user/branch (user:branch)"),
					"base":      stringProp("Filter by base branch"),
					"sort":      enumProp("Sort field", "created", "updated", "popularity", "long-running"),
					"direction": enumProp("Sort direction", "asc", "desc"),
					"page":      pageProp(),
					"per_page":  perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "merge_pull_request",
			Description: "Merge a pull request. When sha is given, the merge is rejected if the head has moved.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":          stringProp("Repository owner (user or organization)"),
					"repo":           stringProp("Repository name"),
					"pull_number":    intPropMin("Pull request number", 1),
					"commit_title":   stringProp("Title for the merge commit"),
					"commit_message": stringProp("Extra detail appended to the merge commit message"),
					"sha":            stringProp("SHA the head must match for the merge to proceed"),
					"merge_method":   enumProp("Merge strategy", "merge", "squash", "rebase"),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
		{
			Name:        "get_pull_request_status",
			Description: "Get a pull request's merge readiness together with the combined commit status of its head.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
		{
			Name:        "get_pull_request_files",
			Description: "List the files changed by a pull request.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
					"page":        pageProp(),
					"per_page":    perPageProp(),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
		{
			Name:        "get_pull_request_reviews",
			Description: "List reviews on a pull request.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
					"page":        pageProp(),
					"per_page":    perPageProp(),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
		{
			Name:        "create_pull_request_review",
			Description: "Submit a review on a pull request, optionally with inline comments.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
					"event":       enumProp("Review action", "APPROVE", "REQUEST_CHANGES", "COMMENT"),
					"body":        stringProp("Review summary text"),
					"commit_id":   stringProp("SHA the review applies to"),
					"comments":    objectArrayProp("Inline comments, each with path, body, and line or position"),
				},
				Required: []string{"owner", "repo", "pull_number", "event"},
			},
		},
		{
			Name:        "add_pull_request_review_comment",
			Description: "Add a review comment to a pull request. Pass in_reply_to alone to reply to an existing comment, line for a single-line comment, or start_line plus line for a multi-line span.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
					"body":        stringProp("Comment text (Markdown)"),
					"commit_id":   stringProp("SHA of the commit to comment on"),
					"path":        stringProp("File path relative to the repository root"),
					"line":        intPropMin("Line the comment applies to (end of span for multi-line)", 1),
					"side":        enumProp("Diff side for line", "LEFT", "RIGHT"),
					"start_line":  intPropMin("First line of a multi-line span", 1),
					"start_side":  enumProp("Diff side for start_line", "LEFT", "RIGHT"),
					"in_reply_to": intPropMin("Comment ID to reply to (cannot be combined with position arguments)", 1),
				},
				Required: []string{"owner", "repo", "pull_number", "body"},
			},
		},
		{
			Name:        "request_copilot_review",
			Description: "Request a GitHub Copilot review of a pull request.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"pull_number": intPropMin("Pull request number", 1),
				},
				Required: []string{"owner", "repo", "pull_number"},
			},
		},
	}
}

// reviewCommentShape is the closed set of request shapes a review comment
// invocation can take. Exactly one applies to any valid argument set.
type reviewCommentShape int

const (
	shapeReply reviewCommentShape = iota + 1
	shapeSingleLine
	shapeMultiLine
)

// classifyReviewComment decides the shape from the arguments alone, before
// any network I/O. Conflicting or insufficient combinations are rejected as
// ambiguous.
func classifyReviewComment(args Args) (reviewCommentShape, *Error) {
	hasReply := args.Has("in_reply_to")
	hasLine := args.Has("line")
	hasStart := args.Has("start_line")

	switch {
	case hasReply && (hasLine || hasStart || args.Has("path") || args.Has("commit_id")):
		return 0, errAmbiguous("in_reply_to cannot be combined with line, start_line, path, or commit_id")
	case hasReply:
		return shapeReply, nil
	case hasStart && !hasLine:
		return 0, errAmbiguous("start_line requires line to close the span")
	case !hasLine:
		return 0, errAmbiguous("provide in_reply_to for a reply, or line (optionally with start_line) for a positioned comment")
	}

	var missing []string
	if !args.Has("path") {
		missing = append(missing, "path")
	}
	if !args.Has("commit_id") {
		missing = append(missing, "commit_id")
	}
	if len(missing) > 0 {
		return 0, errMissing(missing...)
	}

	if hasStart {
		return shapeMultiLine, nil
	}
	return shapeSingleLine, nil
}

func pullBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"create_pull_request": func(args Args) (*Request, *Error) {
			body := map[string]any{
				"title": args.String("title"),
				"head":  args.String("head"),
				"base":  args.String("base"),
			}
			setIfString(args, body, "body")
			setIfBool(args, body, "draft", "maintainer_can_modify")
			return &Request{Method: "POST", Path: repoPath(args, "/pulls"), Body: body}, nil
		},
		"update_pull_request": func(args Args) (*Request, *Error) {
			body := map[string]any{}
			setIfString(args, body, "title", "body", "state", "base")
			setIfBool(args, body, "maintainer_can_modify")
			return &Request{Method: "PATCH", Path: repoPath(args, "/pulls/%d", args.Int("pull_number")), Body: body}, nil
		},
		"list_pull_requests": func(args Args) (*Request, *Error) {
			q := url.Values{}
			for _, k := range []string{"state", "head", "base", "sort", "direction"} {
				if args.Has(k) {
					q.Set(k, args.String(k))
				}
			}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/pulls"), Query: q}, nil
		},
		"merge_pull_request": func(args Args) (*Request, *Error) {
			body := map[string]any{}
			setIfString(args, body, "commit_title", "commit_message", "sha", "merge_method")
			return &Request{Method: "PUT", Path: repoPath(args, "/pulls/%d/merge", args.Int("pull_number")), Body: body}, nil
		},
		"get_pull_request_files": func(args Args) (*Request, *Error) {
			q := url.Values{}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/pulls/%d/files", args.Int("pull_number")), Query: q}, nil
		},
		"get_pull_request_reviews": func(args Args) (*Request, *Error) {
			q := url.Values{}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/pulls/%d/reviews", args.Int("pull_number")), Query: q}, nil
		},
		"create_pull_request_review": func(args Args) (*Request, *Error) {
			body := map[string]any{"event": args.String("event")}
			setIfString(args, body, "body", "commit_id")
			if args.Has("comments") {
				body["comments"] = args.Objects("comments")
			}
			return &Request{Method: "POST", Path: repoPath(args, "/pulls/%d/reviews", args.Int("pull_number")), Body: body}, nil
		},
		"add_pull_request_review_comment": func(args Args) (*Request, *Error) {
			shape, err := classifyReviewComment(args)
			if err != nil {
				return nil, err
			}
			n := args.Int("pull_number")
			switch shape {
			case shapeReply:
				return &Request{
					Method: "POST",
					Path:   repoPath(args, "/pulls/%d/comments/%d/replies", n, args.Int("in_reply_to")),
					Body:   map[string]any{"body": args.String("body")},
				}, nil
			case shapeMultiLine:
				body := map[string]any{
					"body":       args.String("body"),
					"commit_id":  args.String("commit_id"),
					"path":       args.String("path"),
					"line":       args.Int("line"),
					"start_line": args.Int("start_line"),
				}
				setIfString(args, body, "side", "start_side")
				return &Request{Method: "POST", Path: repoPath(args, "/pulls/%d/comments", n), Body: body}, nil
			default:
				body := map[string]any{
					"body":      args.String("body"),
					"commit_id": args.String("commit_id"),
					"path":      args.String("path"),
					"line":      args.Int("line"),
				}
				setIfString(args, body, "side")
				return &Request{Method: "POST", Path: repoPath(args, "/pulls/%d/comments", n), Body: body}, nil
			}
		},
		"request_copilot_review": func(args Args) (*Request, *Error) {
			return &Request{Method: "POST", Path: repoPath(args, "/pulls/%d/copilot-review", args.Int("pull_number"))}, nil
		},
	}
}
