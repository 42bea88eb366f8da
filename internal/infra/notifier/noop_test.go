package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpNotifier(t *testing.T) {
	n := NewNoOpNotifier("slack")

	assert.Equal(t, "slack", n.Name())
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.Send(context.Background(), sampleItem()))
}

func TestNotifiersImplementInterface(t *testing.T) {
	var _ Notifier = (*DiscordNotifier)(nil)
	var _ Notifier = (*SlackNotifier)(nil)
	var _ Notifier = (*TelegramNotifier)(nil)
	var _ Notifier = (*NoOpNotifier)(nil)
}
