package tools

import (
	"fmt"
	"net/url"
)

// Request is a fully-determined upstream HTTP call produced by Build.
// Building is pure: the same tool name and arguments always yield the
// same request, and no network I/O happens here.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

type buildFunc func(args Args) (*Request, *Error)

// Build maps a validated invocation onto a single upstream request.
// Composite tools are handled by the dispatcher and have no builder.
func Build(name string, args Args) (*Request, *Error) {
	b, ok := builders[name]
	if !ok {
		return nil, errUnknownTool(name)
	}
	return b(args)
}

var builders = mergeBuilders(
	issueBuilders(),
	pullBuilders(),
	repoBuilders(),
	scanningBuilders(),
	searchBuilders(),
	userBuilders(),
)

func mergeBuilders(maps ...map[string]buildFunc) map[string]buildFunc {
	out := map[string]buildFunc{}
	for _, m := range maps {
		for name, b := range m {
			out[name] = b
		}
	}
	return out
}

// repoPath builds a /repos/{owner}/{repo}... path with the trailing
// segments formatted in.
func repoPath(args Args, rest string, a ...any) string {
	prefix := fmt.Sprintf("/repos/%s/%s", url.PathEscape(args.String("owner")), url.PathEscape(args.String("repo")))
	if rest == "" {
		return prefix
	}
	return prefix + fmt.Sprintf(rest, a...)
}

// pagination copies page/per_page into the query when present.
func pagination(args Args, q url.Values) {
	if args.Has("page") {
		q.Set("page", fmt.Sprintf("%d", args.Int("page")))
	}
	if args.Has("per_page") {
		q.Set("per_page", fmt.Sprintf("%d", args.Int("per_page")))
	}
}

// setIfString copies an optional string argument into a request body.
func setIfString(args Args, body map[string]any, keys ...string) {
	for _, k := range keys {
		if args.Has(k) {
			body[k] = args.String(k)
		}
	}
}

// setIfBool copies an optional bool argument into a request body.
func setIfBool(args Args, body map[string]any, keys ...string) {
	for _, k := range keys {
		if args.Has(k) {
			body[k] = args.Bool(k)
		}
	}
}
