package detector

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when the submitted string cannot be read as a URL,
// even after a default scheme has been applied.
var ErrInvalidURL = errors.New("invalid url")

const defaultScheme = "https://"

var schemePrefix = regexp.MustCompile(`^[A-Za-z]+://`)

// QualifyURL returns raw unchanged when it already carries a scheme and
// prefixes it with https:// otherwise.
func QualifyURL(raw string) string {
	if schemePrefix.MatchString(raw) {
		return raw
	}
	return defaultScheme + raw
}

// NormalizeDomain reduces raw to a bare lowercase domain: no scheme, no www.
// prefix, no credentials, port, path, query or fragment. It never fails; odd
// input simply produces an odd domain that will not match anything.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+len("://"):]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, "@"); i >= 0 {
		d = d[i+1:]
	}
	if host, _, err := net.SplitHostPort(d); err == nil {
		d = host
	}
	d = strings.TrimSuffix(d, ".")
	return strings.TrimPrefix(d, "www.")
}

// ParseTarget qualifies raw and checks that the result is a fetchable
// http(s) URL. Failures wrap ErrInvalidURL.
func ParseTarget(raw string) (string, error) {
	qualified := QualifyURL(raw)
	u, err := url.Parse(qualified)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	return qualified, nil
}
