package extract

import (
	"fmt"
	"strings"
)

// DomainOf returns the scheme and host of rawURL, for example
// "https://example.com" for "https://example.com/a/b".
//
// The URL is split on "/" and the domain is the first segment, "//", and
// the third segment. It does not parse or validate the URL beyond that, so
// user info and ports are kept as they appear. It returns ErrMalformedURL
// when there are fewer than three segments.
func DomainOf(rawURL string) (string, error) {
	parts := strings.Split(rawURL, "/")
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, rawURL)
	}
	return parts[0] + "//" + parts[2], nil
}

// schemeOf returns the text before the first ":" of an absolute URL,
// or "http" when there is none.
func schemeOf(rawURL string) string {
	scheme, _, found := strings.Cut(rawURL, ":")
	if !found || scheme == "" {
		return "http"
	}
	return scheme
}
