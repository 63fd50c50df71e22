package tools

import "net/url"

func searchTools() []Tool {
	return []Tool{
		{
			Name:        "search_code",
			Description: "Search code across GitHub repositories.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    stringProp("Search query using GitHub code search syntax"),
					"sort":     enumProp("Sort field", "indexed"),
					"order":    enumProp("Sort order", "asc", "desc"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "search_repositories",
			Description: "Search repositories across GitHub.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    stringProp("Search query using GitHub repository search syntax"),
					"sort":     enumProp("Sort field", "stars", "forks", "help-wanted-issues", "updated"),
					"order":    enumProp("Sort order", "asc", "desc"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "search_users",
			Description: "Search users across GitHub.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    stringProp("Search query using GitHub user search syntax"),
					"sort":     enumProp("Sort field", "followers", "repositories", "joined"),
					"order":    enumProp("Sort order", "asc", "desc"),
					"page":     pageProp(),
					"per_page": perPageProp(),
				},
				Required: []string{"query"},
			},
		},
	}
}

// searchRequest builds a GET against one of the /search endpoints. The
// query string is passed through untouched; GitHub owns the syntax.
func searchRequest(path string, args Args) *Request {
	q := url.Values{}
	q.Set("q", args.String("query"))
	if args.Has("sort") {
		q.Set("sort", args.String("sort"))
	}
	if args.Has("order") {
		q.Set("order", args.String("order"))
	}
	pagination(args, q)
	return &Request{Method: "GET", Path: path, Query: q}
}

func searchBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"search_code": func(args Args) (*Request, *Error) {
			return searchRequest("/search/code", args), nil
		},
		"search_repositories": func(args Args) (*Request, *Error) {
			return searchRequest("/search/repositories", args), nil
		},
		"search_users": func(args Args) (*Request, *Error) {
			return searchRequest("/search/users", args), nil
		},
	}
}
