// Package notify fans processed digest items out to every enabled delivery
// channel, tracking per-channel health so a failing service is skipped for
// a while instead of slowing every run.
package notify

import (
	"context"

	"newshub/internal/domain/entity"
)

// Channel is a delivery target such as Discord, Slack or Telegram.
// Implementations apply their own rate limiting and retries and must be
// safe for concurrent use.
type Channel interface {
	// Name returns the lowercase channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel should receive items.
	IsEnabled() bool

	// Send delivers one item. The context carries the dispatch timeout and
	// request ID.
	Send(ctx context.Context, item entity.DigestItem) error
}
