package notify

import "errors"

// ErrInvalidItem is returned by Dispatch for items with nothing to post.
var ErrInvalidItem = errors.New("invalid digest item")

// ErrCircuitBreakerOpen is recorded when a channel's breaker rejects a send.
var ErrCircuitBreakerOpen = errors.New("notification channel suspended: circuit breaker open")
