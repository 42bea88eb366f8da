package notifier

import (
	"context"

	"newshub/internal/domain/entity"
)

// NoOpNotifier stands in for a channel that is switched off.
type NoOpNotifier struct {
	name string
}

// NewNoOpNotifier returns a disabled notifier reporting the given name.
func NewNoOpNotifier(name string) *NoOpNotifier {
	return &NoOpNotifier{name: name}
}

func (n *NoOpNotifier) Name() string { return n.name }

func (n *NoOpNotifier) IsEnabled() bool { return false }

func (n *NoOpNotifier) Send(context.Context, entity.DigestItem) error { return nil }
