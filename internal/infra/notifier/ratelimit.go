package notifier

import "golang.org/x/time/rate"

// Per-destination send limits. Each notifier owns one limiter shared by all
// of its sends.

// discordLimit allows 30 messages a minute with a burst of 3.
func discordLimit() *rate.Limiter { return rate.NewLimiter(0.5, 3) }

// slackLimit allows one message a second.
func slackLimit() *rate.Limiter { return rate.NewLimiter(1, 1) }

// telegramLimit allows one message a second to the same chat.
func telegramLimit() *rate.Limiter { return rate.NewLimiter(1, 1) }
