package fetcher

import "errors"

// Sentinel errors for content fetching. Callers keep the original article
// body whenever one of them is returned.
var (
	// ErrInvalidURL indicates the URL is malformed or not http(s).
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the host resolves to a loopback, private or
	// link-local address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed indicates no article text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")
)
