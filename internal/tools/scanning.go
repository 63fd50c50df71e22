package tools

import "net/url"

func scanningTools() []Tool {
	return []Tool{
		{
			Name:        "code_scanning_alerts",
			Description: "List code scanning alerts for a repository. Needs code scanning enabled and a token with the security_events scope.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":     stringProp("Repository owner (user or organization)"),
					"repo":      stringProp("Repository name"),
					"state":     enumProp("Filter by alert state", "open", "closed", "dismissed", "fixed"),
					"ref":       stringProp("Only alerts for this ref (branch or tag)"),
					"tool_name": stringProp("Only alerts produced by this analysis tool"),
					"severity":  enumProp("Filter by severity", "critical", "high", "medium", "low", "warning", "note", "error"),
					"page":      pageProp(),
					"per_page":  perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
		{
			Name:        "secret_scanning_alerts",
			Description: "List secret scanning alerts (leaked credentials) for a repository.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"owner":       stringProp("Repository owner (user or organization)"),
					"repo":        stringProp("Repository name"),
					"state":       enumProp("Filter by alert state", "open", "resolved"),
					"secret_type": stringProp("Only alerts for this secret type"),
					"resolution":  enumProp("Filter by resolution", "false_positive", "wont_fix", "revoked", "used_in_tests"),
					"page":        pageProp(),
					"per_page":    perPageProp(),
				},
				Required: []string{"owner", "repo"},
			},
		},
	}
}

func scanningBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"code_scanning_alerts": func(args Args) (*Request, *Error) {
			q := url.Values{}
			for _, k := range []string{"state", "ref", "tool_name", "severity"} {
				if args.Has(k) {
					q.Set(k, args.String(k))
				}
			}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/code-scanning/alerts"), Query: q}, nil
		},
		"secret_scanning_alerts": func(args Args) (*Request, *Error) {
			q := url.Values{}
			for _, k := range []string{"state", "secret_type", "resolution"} {
				if args.Has(k) {
					q.Set(k, args.String(k))
				}
			}
			pagination(args, q)
			return &Request{Method: "GET", Path: repoPath(args, "/secret-scanning/alerts"), Query: q}, nil
		},
	}
}
