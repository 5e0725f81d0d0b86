package metadata

import (
	"net/url"
	"strings"
)

// ParseWebLink normalizes a raw URL string from a tag source into a
// WebLink. Scheme-less values get https, surrounding whitespace is trimmed,
// and values that still do not parse are kept verbatim so nothing the user
// typed is dropped.
func ParseWebLink(raw string) WebLink {
	s := strings.TrimSpace(raw)
	if s == "" {
		return WebLink{}
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return WebLink{URL: strings.TrimSpace(raw)}
	}
	return WebLink{URL: u.String()}
}
