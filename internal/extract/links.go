package extract

import "strings"

const hrefOpen = `href="`

// blacklistedExtensions are path suffixes of resources that are never pages.
var blacklistedExtensions = []string{".css", ".js", ".json", ".jpg", ".png", ".woff2"}

// Links returns the hyperlinks found in content, resolved against domain.
//
// Every double-quoted href value is a candidate. Candidates are dropped when
// their path ends in a blacklisted extension. Root-relative links ("/path")
// are prefixed with domain and protocol-relative links ("//host/path") take
// the scheme of domain. Any other relative link is dropped, as is anything
// that is not http or https afterwards. The result is duplicate-free and
// keeps the order of first occurrence, although callers should treat it as
// a set.
func Links(domain, content string) []string {
	fragments := strings.Split(content, hrefOpen)
	if len(fragments) < 2 {
		return nil
	}

	seen := make(map[string]struct{}, len(fragments)-1)
	links := make([]string, 0, len(fragments)-1)
	// The first fragment is the text before the first href and never a link.
	for _, fragment := range fragments[1:] {
		candidate, _, _ := strings.Cut(fragment, `"`)
		if isBlacklisted(candidate) {
			continue
		}
		link := resolve(domain, candidate)
		if !isHTTP(link) {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

// resolve turns root-relative and protocol-relative links into absolute
// ones. Other links are returned unchanged.
func resolve(domain, link string) string {
	switch {
	case strings.HasPrefix(link, "//"):
		return schemeOf(domain) + ":" + link
	case strings.HasPrefix(link, "/"):
		return domain + link
	default:
		return link
	}
}

func isHTTP(link string) bool {
	lower := strings.ToLower(link)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// isBlacklisted reports whether the path of link ends in a blacklisted
// extension. Query strings and fragments are ignored for the comparison.
func isBlacklisted(link string) bool {
	path := link
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	path = strings.ToLower(path)
	for _, ext := range blacklistedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
