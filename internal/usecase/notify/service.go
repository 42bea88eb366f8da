package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/logging"
)

const (
	circuitBreakerThreshold = 5                // consecutive failures before opening
	circuitBreakerTimeout   = 5 * time.Minute  // how long an open channel is skipped
	notificationTimeout     = 30 * time.Second // per channel send
)

// Service delivers digest items to all enabled channels.
type Service interface {
	// Dispatch sends item to every enabled channel concurrently and waits for
	// all of them. The returned error joins the per-channel failures; a nil
	// error means every enabled channel accepted the item.
	Dispatch(ctx context.Context, item entity.DigestItem) error

	// GetChannelHealth returns the circuit breaker state of every channel.
	GetChannelHealth() []ChannelHealthStatus
}

// ChannelHealthStatus is the health of one channel.
type ChannelHealthStatus struct {
	Name               string
	Enabled            bool
	CircuitBreakerOpen bool
	DisabledUntil      *time.Time
}

type service struct {
	channels      []Channel
	maxConcurrent int
	channelHealth map[string]*channelHealth
	logger        *slog.Logger
	now           func() time.Time
}

type channelHealth struct {
	mu                  sync.Mutex
	consecutiveFailures int
	disabledUntil       time.Time
}

// NewService creates a dispatcher over channels, sending to at most
// maxConcurrent of them at once.
func NewService(channels []Channel, maxConcurrent int, logger *slog.Logger) Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	svc := &service{
		channels:      channels,
		maxConcurrent: maxConcurrent,
		channelHealth: make(map[string]*channelHealth, len(channels)),
		logger:        logger,
		now:           time.Now,
	}
	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
	}
	return svc
}

func (s *service) Dispatch(ctx context.Context, item entity.DigestItem) error {
	if strings.TrimSpace(item.Processed.Title) == "" || strings.TrimSpace(item.Processed.Summary) == "" {
		return fmt.Errorf("%w: article %s has no processed title or summary", ErrInvalidItem, item.Article.ID)
	}

	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRequestID(ctx, logging.NewRequestID())
	}
	log := logging.WithRequestID(ctx, s.logger)

	enabled := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabled = append(enabled, ch)
		}
	}
	channelsEnabled.Set(float64(len(enabled)))
	if len(enabled) == 0 {
		log.Debug("no notification channels enabled", slog.String("article_id", item.Article.ID))
		return nil
	}

	log.Info("dispatching digest item",
		slog.String("article_id", item.Article.ID),
		slog.String("language", item.Language.String()),
		slog.Int("enabled_channels", len(enabled)))

	var (
		mu   sync.Mutex
		errs []error
	)
	var eg errgroup.Group
	eg.SetLimit(s.maxConcurrent)
	for _, ch := range enabled {
		eg.Go(func() error {
			if err := s.notifyChannel(ctx, log, ch, item); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	return errors.Join(errs...)
}

func (s *service) notifyChannel(ctx context.Context, log *slog.Logger, channel Channel, item entity.DigestItem) (err error) {
	activeSends.Inc()
	defer activeSends.Dec()

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in notification channel",
				slog.String("channel", channel.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			droppedTotal.WithLabelValues(channel.Name(), "panic").Inc()
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	health := s.channelHealth[channel.Name()]
	health.mu.Lock()
	disabledUntil := health.disabledUntil
	health.mu.Unlock()
	if s.now().Before(disabledUntil) {
		log.Warn("channel temporarily disabled by circuit breaker",
			slog.String("channel", channel.Name()),
			slog.Time("disabled_until", disabledUntil))
		droppedTotal.WithLabelValues(channel.Name(), "circuit_open").Inc()
		return ErrCircuitBreakerOpen
	}

	sendCtx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	start := time.Now()
	dispatchedTotal.WithLabelValues(channel.Name()).Inc()
	err = channel.Send(sendCtx, item)
	duration := time.Since(start)

	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = s.now().Add(circuitBreakerTimeout)
			health.consecutiveFailures = 0
			log.Error("circuit breaker opened for channel",
				slog.String("channel", channel.Name()),
				slog.Int("threshold", circuitBreakerThreshold))
			breakerOpenTotal.WithLabelValues(channel.Name()).Inc()
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	recordSent(channel.Name(), err, duration)
	if err != nil {
		log.Warn("channel notification failed",
			slog.String("channel", channel.Name()),
			slog.String("article_id", item.Article.ID),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return err
	}
	log.Info("channel notification sent",
		slog.String("channel", channel.Name()),
		slog.String("article_id", item.Article.ID),
		slog.Duration("send_duration", duration))
	return nil
}

func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	now := s.now()
	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]
		health.mu.Lock()
		status := ChannelHealthStatus{Name: ch.Name(), Enabled: ch.IsEnabled()}
		if now.Before(health.disabledUntil) {
			until := health.disabledUntil
			status.CircuitBreakerOpen = true
			status.DisabledUntil = &until
		}
		health.mu.Unlock()
		statuses = append(statuses, status)
	}
	return statuses
}
