package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength bounds article and feed URLs.
const maxURLLength = 2048

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
// It does not resolve the host; the content fetcher blocks private
// addresses before dereferencing anything.
func ValidateURL(rawURL string) error {
	invalid := func(msg string) error { return &ValidationError{Field: "url", Message: msg} }

	switch {
	case rawURL == "":
		return invalid("URL is required")
	case len(rawURL) > maxURLLength:
		return invalid(fmt.Sprintf("URL is longer than %d characters", maxURLLength))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return invalid(fmt.Sprintf("malformed URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return invalid("URL has no host")
	}
	return nil
}
