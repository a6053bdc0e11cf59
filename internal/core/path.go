package core

import (
	"fmt"
	"net/url"
	"strings"
)

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}

	if strings.Contains(path, "?") {
		return fmt.Errorf("path cannot contain query string")
	}

	if strings.Contains(path, "#") {
		return fmt.Errorf("path cannot contain fragment")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	if strings.Contains(path, "*") || strings.Contains(path, "{") {
		return fmt.Errorf("path cannot contain wildcards or parameters")
	}

	// The host server treats a last segment with a dot as a file request.
	if strings.Contains(path[strings.LastIndex(path, "/")+1:], ".") {
		return fmt.Errorf("path cannot end in a segment containing a dot")
	}

	return nil
}

// PathOf returns the path component used for route lookup. An empty path
// is the root.
func PathOf(u *url.URL) string {
	if u == nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// SameOrigin compares scheme and host, including the port.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
