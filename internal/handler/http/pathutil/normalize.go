// Package pathutil normalizes request paths for use as metric labels.
package pathutil

import (
	"strings"
)

// idPlaceholder replaces any purely numeric path segment.
const idPlaceholder = ":id"

// NormalizePath converts dynamic URL paths into a template so that metrics
// label cardinality stays bounded. Numeric segments become ":id", the query
// string and a trailing slash are dropped.
//
//	NormalizePath("/reports")                 // "/reports"
//	NormalizePath("/admin/reports/101")       // "/admin/reports/:id"
//	NormalizePath("/content/note/42/")        // "/content/note/:id"
//	NormalizePath("/health?format=json")      // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	changed := false
	for i, seg := range segments {
		if isNumeric(seg) {
			segments[i] = idPlaceholder
			changed = true
		}
	}
	if !changed {
		return path
	}
	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
