package tools

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// listEnvelopes maps list tools to the key their items are returned under.
// Everything not listed here (and not a search or composite tool) passes
// the upstream resource through unchanged.
var listEnvelopes = map[string]string{
	"list_issues":              "items",
	"get_issue_comments":       "items",
	"list_pull_requests":       "items",
	"get_pull_request_files":   "files",
	"get_pull_request_reviews": "items",
	"list_branches":            "items",
	"list_commits":             "items",
	"code_scanning_alerts":     "items",
	"secret_scanning_alerts":   "items",
}

// Project shapes a raw upstream response for a tool. It is pure: malformed
// upstream payloads surface as upstream_ambiguous, never as a panic or a
// silent fallback.
func Project(name string, raw json.RawMessage) (json.RawMessage, *Error) {
	switch name {
	case "search_issues", "search_code", "search_repositories", "search_users":
		return projectSearch(raw)
	case "get_file_contents":
		return projectFileContents(raw)
	case "delete_branch", "request_copilot_review":
		// these endpoints respond with no body on success
		if len(raw) == 0 {
			return json.RawMessage(`{"ok":true}`), nil
		}
		return raw, nil
	}
	if key, ok := listEnvelopes[name]; ok {
		return projectList(key, raw)
	}
	if len(raw) == 0 {
		return json.RawMessage(`{"ok":true}`), nil
	}
	return raw, nil
}

func projectList(key string, raw json.RawMessage) (json.RawMessage, *Error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errUpstreamAmbiguous("expected a JSON array from upstream: " + err.Error())
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	out, err := json.Marshal(map[string]any{key: items, "count": len(items)})
	if err != nil {
		return nil, errUpstreamAmbiguous(err.Error())
	}
	return out, nil
}

func projectSearch(raw json.RawMessage) (json.RawMessage, *Error) {
	var page struct {
		TotalCount        int               `json:"total_count"`
		IncompleteResults bool              `json:"incomplete_results"`
		Items             []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, errUpstreamAmbiguous("malformed search response: " + err.Error())
	}
	if page.Items == nil {
		page.Items = []json.RawMessage{}
	}
	out, err := json.Marshal(map[string]any{
		"items":              page.Items,
		"count":              len(page.Items),
		"total_count":        page.TotalCount,
		"incomplete_results": page.IncompleteResults,
	})
	if err != nil {
		return nil, errUpstreamAmbiguous(err.Error())
	}
	return out, nil
}

func projectFileContents(raw json.RawMessage) (json.RawMessage, *Error) {
	// a directory path returns an array listing instead of a file object
	if len(raw) > 0 && raw[0] == '[' {
		return projectList("items", raw)
	}

	var file struct {
		Type     string `json:"type"`
		Encoding string `json:"encoding"`
		Name     string `json:"name"`
		Path     string `json:"path"`
		SHA      string `json:"sha"`
		Size     int    `json:"size"`
		Content  string `json:"content"`
		HTMLURL  string `json:"html_url"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errUpstreamAmbiguous("malformed contents response: " + err.Error())
	}
	if file.Type != "file" || file.Encoding != "base64" {
		return raw, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, errUpstreamAmbiguous("failed to decode file content: " + err.Error())
	}
	out, err := json.Marshal(map[string]any{
		"name":     file.Name,
		"path":     file.Path,
		"sha":      file.SHA,
		"size":     file.Size,
		"content":  string(decoded),
		"html_url": file.HTMLURL,
	})
	if err != nil {
		return nil, errUpstreamAmbiguous(err.Error())
	}
	return out, nil
}

// pullStatus is the merged view produced by get_pull_request_status.
// Mergeable stays a pointer so GitHub's "still computing" null survives
// the round trip instead of collapsing to false.
type pullStatus struct {
	Number         int             `json:"number"`
	Title          string          `json:"title"`
	State          string          `json:"state"`
	Draft          bool            `json:"draft"`
	Merged         bool            `json:"merged"`
	Mergeable      *bool           `json:"mergeable"`
	MergeableState string          `json:"mergeable_state,omitempty"`
	HeadRef        string          `json:"head_ref"`
	HeadSHA        string          `json:"head_sha"`
	BaseRef        string          `json:"base_ref"`
	HTMLURL        string          `json:"html_url,omitempty"`
	Status         json.RawMessage `json:"status,omitempty"`
}

// projectPullStatus merges the pull request resource with the combined
// commit status of its head. A nil status (sub-fetch failed or not yet
// available) simply omits the field. The merge reads both inputs into an
// already-shaped struct, so the order the two fetches completed in cannot
// influence the result.
func projectPullStatus(pr, status json.RawMessage) (json.RawMessage, *Error) {
	var p struct {
		Number         int    `json:"number"`
		Title          string `json:"title"`
		State          string `json:"state"`
		Draft          bool   `json:"draft"`
		Merged         bool   `json:"merged"`
		Mergeable      *bool  `json:"mergeable"`
		MergeableState string `json:"mergeable_state"`
		HTMLURL        string `json:"html_url"`
		Head           struct {
			Ref string `json:"ref"`
			SHA string `json:"sha"`
		} `json:"head"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
	}
	if err := json.Unmarshal(pr, &p); err != nil {
		return nil, errUpstreamAmbiguous("malformed pull request response: " + err.Error())
	}

	out, err := json.Marshal(pullStatus{
		Number:         p.Number,
		Title:          p.Title,
		State:          p.State,
		Draft:          p.Draft,
		Merged:         p.Merged,
		Mergeable:      p.Mergeable,
		MergeableState: p.MergeableState,
		HeadRef:        p.Head.Ref,
		HeadSHA:        p.Head.SHA,
		BaseRef:        p.Base.Ref,
		HTMLURL:        p.HTMLURL,
		Status:         status,
	})
	if err != nil {
		return nil, errUpstreamAmbiguous(err.Error())
	}
	return out, nil
}
