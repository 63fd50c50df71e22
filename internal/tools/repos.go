package tools

import (
	"encoding/base64"
	"net/url"
	"strings"
)

func repoTools() []Tool {
	return []Tool{
		{
			Name:        "create_repository",
			Description: "Create a new repository for the authenticated user.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name":        stringProp("Repository name"),
					"description": stringProp("Repository description"),
					"private":     boolProp("Create as a private repository"),
					"auto_init":   boolProp("Initialize with an empty commit and README"),
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "fork_repository",
			Description: "Fork a repository to the authenticated user's account or an organization.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":        stringProp("Repository owner (user or organization)"),
					"repo":         stringProp("Repository name"),
					"organization": stringProp("Organization to fork into (defaults to the authenticated user)"),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "list_branches",
			Description: "List branches in a repository.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":    stringProp("Repository owner (user or organization)"),
					"repo":     stringProp("Repository name"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "create_branch",
			Description: "Create a new branch pointing at a commit SHA.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":  stringProp("Repository owner (user or organization)"),
					"repo":   stringProp("Repository name"),
					"branch": stringProp("Name of the branch to create"),
					"sha":    stringProp("Commit SHA the branch should point at"),
				},
				Required: []string{"owner", "repo", "branch", "sha"},
			},
		},
		{
			Name:        "delete_branch",
			Description: "Delete a branch.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":  stringProp("Repository owner (user or organization)"),
					"repo":   stringProp("Repository name"),
					"branch": stringProp("Name of the branch to delete"),
				},
				Required: []string{"owner", "repo", "branch"},
			},
		},
		{
			Name:        "list_commits",
			Description: "List commits in a repository.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":    stringProp("Repository owner (user or organization)"),
					"repo":     stringProp("Repository name"),
					"sha":      stringProp("Branch name or SHA to start listing from"),
					"path":     stringProp("Only commits touching this path"),
					"author":   stringProp("Only commits by this author (login or email)"),
					"since":    stringProp("Only commits at or after this ISO 8601 timestamp"),
					"until":    stringProp("Only commits at or before this ISO 8601 timestamp"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "get_commit",
			Description: "Get a single commit, including its diff stats and changed files.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner": stringProp("Repository owner (user or organization)"),
					"repo":  stringProp("Repository name"),
					"sha":   stringProp("Commit SHA or ref"),
				},
				Required: []string{"owner", "repo", "sha"},
			},
		},
		{
			Name:        "create_or_update_file",
			Description: "Create a file or update an existing one. Content is plain text; pass the file's current sha when updating.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":   stringProp("Repository owner (user or organization)"),
					"repo":    stringProp("Repository name"),
					"path":    stringProp("File path relative to the repository root"),
					"message": stringProp("Commit message"),
					"content": stringProp("New file content (plain text)"),
					"branch":  stringProp("Branch to commit to (defaults to the default branch)"),
					"sha":     stringProp("Current blob sha of the file (required when updating)"),
				},
				Required: []string{"owner", "repo", "path", "message", "content"},
			},
		},
		{
			Name:        "push_files",
			Description: "Push multiple files to a branch in one commit.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":   stringProp("Repository owner (user or organization)"),
					"repo":    stringProp("Repository name"),
					"branch":  stringProp("Branch to push to"),
					"message": stringProp("Commit message"),
					"files":   objectArrayProp("Files to write, each with path and content (plain text)"),
				},
				Required: []string{"owner", "repo", "branch", "message", "files"},
			},
		},
		{
			Name:        "get_file_contents",
			Description: "Get a file's contents (decoded) or a directory listing from a repository.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner": stringProp("Repository owner (user or organization)"),
					"repo":  stringProp("Repository name"),
					"path":  stringProp("File or directory path relative to the repository root"),
					"ref":   stringProp("Branch, tag, or SHA (defaults to the default branch)"),
				},
				Required: []string{"owner", "repo", "path"},
			},
		},
	}
}

func repoBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"create_repository": func(args Args) (*Request, *Error) {
			body := map[string]any{"name": args.String("name")}
			setIfString(args, body, "description")
			setIfBool(args, body, "private", "auto_init")
			return &Request{Method: "POST", Path: "/user/repos", Body: body}, nil
		},
		"fork_repository": func(args Args) (*Request, *Error) {
			body := map[string]any{}
			setIfString(args, body, "organization")
			return &Request{Method: "POST", Path: repoPath(args, "/forks"), Body: body}, nil
		},
		"list_branches": func(args Args) (*Request, *Error) {
			q := url.Values{}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/branches"), Query: q}, nil
		},
		"create_branch": func(args Args) (*Request, *Error) {
			return &Request{
				Method: "POST",
				Path:   repoPath(args, "/git/refs"),
				Body: map[string]any{
					"ref": "refs/heads/" + args.String("branch"),
					"sha": args.String("sha"),
				},
			}, nil
		},
		"delete_branch": func(args Args) (*Request, *Error) {
			return &Request{Method: "DELETE", Path: repoPath(args, "/git/refs/heads/%s", escapeRef(args.String("branch")))}, nil
		},
		"list_commits": func(args Args) (*Request, *Error) {
			q := url.Values{}
			for _, k := range []string{"sha", "path", "author", "since", "until"} {
				if args.Has(k) {
					q.Set(k, args.String(k))
				}
			}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/commits"), Query: q}, nil
		},
		"get_commit": func(args Args) (*Request, *Error) {
			return &Request{Method: "GET", Path: repoPath(args, "/commits/%s", url.PathEscape(args.String("sha")))}, nil
		},
		"create_or_update_file": func(args Args) (*Request, *Error) {
			// the contents API wants base64; callers hand us plain text
			body := map[string]any{
				"message": args.String("message"),
				"content": base64.StdEncoding.EncodeToString([]byte(args.String("content"))),
			}
			setIfString(args, body, "branch", "sha")
			return &Request{Method: "PUT", Path: repoPath(args, "/contents/%s", escapePath(args.String("path"))), Body: body}, nil
		},
		"get_file_contents": func(args Args) (*Request, *Error) {
			q := url.Values{}
			if args.Has("ref") {
				q.Set("ref", args.String("ref"))
			}
			return &Request{Method: "GET", Path: repoPath(args, "/contents/%s", escapePath(args.String("path"))), Query: q}, nil
		},
	}
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// escapeRef escapes a branch name, which may itself contain slashes.
func escapeRef(ref string) string {
	return escapePath(ref)
}
