package landing

import (
	"net/url"
	"strings"
)

// replaceQuery swaps the whole query string of raw for query. An empty
// query leaves the bare path.
func replaceQuery(raw, query string) string {
	base, _, _ := strings.Cut(raw, "?")
	if query == "" {
		return base
	}
	return base + "?" + query
}

// queryOf returns the query string of raw
func queryOf(raw string) string {
	_, q, _ := strings.Cut(raw, "?")
	return q
}

// deriveResourceKey names a page's persisted preferences after the first
// non-empty segment of its path ("/instances/json" -> "instances").
func deriveResourceKey(raw string) string {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	} else {
		path, _, _ = strings.Cut(raw, "?")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return "items"
}
