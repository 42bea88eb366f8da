// Package notifier delivers processed digest items to chat services.
//
// Each notifier applies its own rate limit and retries transient failures;
// callers only see the final outcome.
package notifier

import (
	"context"

	"newshub/internal/domain/entity"
)

// Notifier sends one digest item to a delivery channel.
type Notifier interface {
	// Name is the lowercase channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel is configured to receive items.
	IsEnabled() bool

	// Send delivers item, returning a non-nil error once all retries are spent.
	Send(ctx context.Context, item entity.DigestItem) error
}
