package engine

import "net/url"

// Video identifiers are opaque to us; the provider decides whether they exist.
const (
	minVideoIDLen = 1
	maxVideoIDLen = 20
)

// ValidateVideoID checks that s is a plausible video identifier (1-20 bytes).
func ValidateVideoID(s string) (string, error) {
	if len(s) < minVideoIDLen || len(s) > maxVideoIDLen {
		return "", NewError(KindInvalidFormat, "Invalid video ID format", nil)
	}
	return s, nil
}

// ValidateImageRef checks that s is an absolute URL with a scheme and a host.
func ValidateImageRef(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", NewError(KindInvalidFormat, "Invalid image URL format", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", NewError(KindInvalidFormat, "Invalid image URL format", nil)
	}
	return s, nil
}
