package parse

import (
	"net"
	"net/url"
	"strings"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// volatileParams are query keys that change between visits to the same resource.
// "start" is deliberately absent: it addresses a different results page.
var volatileParams = map[string]struct{}{
	"trk":               {},
	"trackingid":        {},
	"refid":             {},
	"lipi":              {},
	"midtoken":          {},
	"position":          {},
	"pagenum":           {},
	"currentjobid":      {},
	"originalsubdomain": {},
}

// IsVolatileParam reports whether a query key is a tracking or session-scoped parameter
func IsVolatileParam(key string) bool {
	k := strings.ToLower(key)
	if strings.HasPrefix(k, "utm_") {
		return true
	}
	_, ok := volatileParams[k]
	return ok
}

// NormalizeURL standardizes a URL for comparison and storage
// It lowercases the scheme and host, removes default ports, trims a trailing slash from the path (unless root "/"),
// drops the fragment and volatile query params, and sorts what remains of the query
// Does not modify the input *url.URL
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	normalized := *u

	normalized.Scheme = strings.ToLower(normalized.Scheme)
	normalized.Host = strings.ToLower(normalized.Host)

	host, port, err := net.SplitHostPort(normalized.Host)
	if err == nil {
		if (normalized.Scheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host
		}
	}

	if normalized.Path == "" {
		normalized.Path = "/"
	} else if len(normalized.Path) > 1 && strings.HasSuffix(normalized.Path, "/") {
		normalized.Path = strings.TrimRight(normalized.Path, "/")
		if normalized.Path == "" {
			normalized.Path = "/"
		}
	}
	normalized.RawPath = ""
	normalized.Fragment = ""
	normalized.RawFragment = ""

	query := normalized.Query()
	for key := range query {
		if IsVolatileParam(key) {
			query.Del(key)
		}
	}
	normalized.RawQuery = query.Encode() // Encode sorts by key

	return normalized.String()
}

// Canonicalize parses rawURL (scheme and host required) and returns its canonical form,
// used as the dedup key for targets
func Canonicalize(rawURL string) (string, error) {
	canonical, _, err := ParseAndNormalize(rawURL)
	return canonical, err
}

// ParseAndNormalize parses an absolute URL string and then normalizes it using NormalizeURL
// Returns the normalized string, the parsed URL object, and any parse error
func ParseAndNormalize(urlStr string) (string, *url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return "", nil, utils.WrapErrorf(utils.ErrParsing, "url %q: %v", urlStr, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", nil, utils.WrapErrorf(utils.ErrParsing, "url %q is not absolute", urlStr)
	}
	return NormalizeURL(parsed), parsed, nil
}
