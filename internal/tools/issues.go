package tools

import "net/url"

func issueTools() []Tool {
	return []Tool{
		{
			Name:        "create_issue",
			Description: "Create a new issue in a repository.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":     stringProp("Repository owner (user or organization)"),
					"repo":      stringProp("Repository name"),
					"title":     stringProp("Issue title"),
					"body":      stringProp("Issue body text (Markdown)"),
					"labels":    stringArrayProp("Labels to apply"),
					"assignees": stringArrayProp("Logins to assign"),
					"milestone": intPropMin("Milestone number to associate", 1),
				},
				Required: []string{"owner", "repo", "title"},
			},
		},
		{
			Name:        "get_issue",
			Description: "Get a single issue by number.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":        stringProp("Repository owner (user or organization)"),
					"repo":         stringProp("Repository name"),
					"issue_number": intPropMin("Issue number", 1),
				},
				Required: []string{"owner", "repo", "issue_number"},
			},
		},
		{
			Name:        "list_issues",
			Description: "List issues in a repository. Multiple labels are combined with AND.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":     stringProp("Repository owner (user or organization)"),
					"repo":      stringProp("Repository name"),
					"state":     enumPropDefault("Filter by state", "open", "open", "closed", "all"),
					"labels":    stringArrayProp("Only issues carrying every one of these labels"),
					"sort":      enumProp("Sort field", "created", "updated", "comments"),
					"direction": enumProp("Sort direction", "asc", "desc"),
					"since":     stringProp("Only issues updated at or after this ISO 8601 timestamp"),
					"page":      pageProp(),
					"per_page":  perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "update_issue",
			Description: "Update an existing issue. Labels and assignees replace the current sets; pass an empty array to clear them.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":        stringProp("Repository owner (user or organization)"),
					"repo":         stringProp("Repository name"),
					"issue_number": intPropMin("Issue number", 1),
					"title":        stringProp("New title"),
					"body":         stringProp("New body text"),
					"state":        enumProp("New state", "open", "closed"),
					"labels":       stringArrayProp("Replacement label set (empty array clears all labels)"),
					"assignees":    stringArrayProp("Replacement assignee set (empty array unassigns everyone)"),
					"milestone":    intPropMin("Milestone number to associate", 1),
				},
				Required: []string{"owner", "repo", "issue_number"},
			},
		},
		{
			Name:        "search_issues",
			Description: "Search issues and pull requests across GitHub using the search query syntax.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    stringProp("Search query using GitHub issue search syntax"),
					"sort":     enumProp("Sort field", "comments", "reactions", "reactions-+1", "reactions--1", "reactions-smile", "reactions-thinking_face", "reactions-heart", "reactions-tada", "interactions", "created", "updated"),
					"order":    enumProp("Sort order", "asc", "desc"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "add_issue_comment",
			Description: "Add a comment to an existing issue.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":        stringProp("Repository owner (user or organization)"),
					"repo":         stringProp("Repository name"),
					"issue_number": intPropMin("Issue number", 1),
					"body":         stringProp("Comment text (Markdown)"),
				},
				Required: []string{"owner", "repo", "issue_number", "body"},
			},
		},
		{
			Name:        "get_issue_comments",
			Description: "List comments on an issue.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":        stringProp("Repository owner (user or organization)"),
					"repo":         stringProp("Repository name"),
					"issue_number": intPropMin("Issue number", 1),
					"page":         pageProp(),
					"per_page":     perPageProp(),
				},
				Required: []string{"owner", "repo", "issue_number"},
			},
		},
	}
}

func issueBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"create_issue": func(args Args) (*Request, *Error) {
			body := map[string]any{"title": args.String("title")}
			setIfString(args, body, "body")
			if args.Has("labels") {
				body["labels"] = args.Strings("labels")
			}
			if args.Has("assignees") {
				body["assignees"] = args.Strings("assignees")
			}
			if args.Has("milestone") {
				body["milestone"] = args.Int("milestone")
			}
			return &Request{Method: "POST", Path: repoPath(args, "/issues"), Body: body}, nil
		},
		"get_issue": func(args Args) (*Request, *Error) {
			return &Request{Method: "GET", Path: repoPath(args, "/issues/%d", args.Int("issue_number"))}, nil
		},
		"list_issues": func(args Args) (*Request, *Error) {
			q := url.Values{}
			if args.Has("state") {
				q.Set("state", args.String("state"))
			}
			// labels is an AND filter: the API expects one comma-joined value
			if labels := args.Strings("labels"); len(labels) > 0 {
				q.Set("labels", joinComma(labels))
			}
			if args.Has("sort") {
				q.Set("sort", args.String("sort"))
			}
			if args.Has("direction") {
				q.Set("direction", args.String("direction"))
			}
			if args.Has("since") {
				q.Set("since", args.String("since"))
			}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/issues"), Query: q}, nil
		},
		"update_issue": func(args Args) (*Request, *Error) {
			body := map[string]any{}
			setIfString(args, body, "title", "body", "state")
			// present-but-empty arrays are replacement sets and must survive
			if args.Has("labels") {
				body["labels"] = args.Strings("labels")
			}
			if args.Has("assignees") {
				body["assignees"] = args.Strings("assignees")
			}
			if args.Has("milestone") {
				body["milestone"] = args.Int("milestone")
			}
			return &Request{Method: "PATCH", Path: repoPath(args, "/issues/%d", args.Int("issue_number")), Body: body}, nil
		},
		"search_issues": func(args Args) (*Request, *Error) {
			return searchRequest("/search/issues", args), nil
		},
		"add_issue_comment": func(args Args) (*Request, *Error) {
			return &Request{
				Method: "POST",
				Path:   repoPath(args, "/issues/%d/comments", args.Int("issue_number")),
				Body:   map[string]any{"body": args.String("body")},
			}, nil
		},
		"get_issue_comments": func(args Args) (*Request, *Error) {
			q := url.Values{}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/issues/%d/comments", args.Int("issue_number")), Query: q}, nil
		},
	}
}
