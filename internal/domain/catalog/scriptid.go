package catalog

import (
	"net/url"
	"regexp"
	"strings"
)

// externalIDPattern is the format the platform accepts in access-management calls.
var externalIDPattern = regexp.MustCompile(`^PUB;[A-Za-z0-9]+$`)

// IsExternalScriptID reports whether id can be sent to the platform's access endpoints.
func IsExternalScriptID(id string) bool {
	return externalIDPattern.MatchString(id)
}

// DeriveScriptID returns the path segment following /script/ in a publication URL,
// falling back to the platform's private identifier.
func DeriveScriptID(publicationURL, privateID string) string {
	if seg := scriptSegment(publicationURL); seg != "" {
		return seg
	}
	return strings.TrimSpace(privateID)
}

func scriptSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	}
	const marker = "/script/"
	i := strings.Index(path, marker)
	if i < 0 {
		return ""
	}
	rest := path[i+len(marker):]
	if j := strings.Index(rest, "/"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
