// Package main is the digest worker: on a cron schedule it fetches the
// current headlines, processes them into each configured language and posts
// them to Discord, Slack and Telegram.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"newshub/internal/app"
	"newshub/internal/config"
	workerPkg "newshub/internal/infra/worker"
	"newshub/internal/observability/logging"
	"newshub/internal/usecase/digest"
	"newshub/internal/usecase/notify"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (default $"+config.ConfigPathEnv+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("digest worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Worker configuration is fail-open: invalid values fall back to defaults.
	metrics := workerPkg.NewWorkerMetrics()
	workerConfig := workerPkg.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	if !cfg.Notify.AnyEnabled() {
		logger.Warn("no notification channel enabled; digests will be processed but not delivered")
	}
	channels := buildChannels(cfg.Notify, logger)
	notifyService := notify.NewService(channels, workerConfig.NotifyMaxConcurrent, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, func() any {
		return notifyService.GetChannelHealth()
	})
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	components := app.New(cfg, logger)
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("failed to close local model connection", slog.Any("error", err))
		}
	}()
	processor, err := components.Processor(ctx)
	if err != nil {
		return fmt.Errorf("build article processor: %w", err)
	}

	runner := digest.NewRunner(components.News(), processor, notifyService, metrics, digest.RunnerConfig{
		Category:  cfg.Digest.Category,
		Count:     cfg.Digest.Count,
		Languages: cfg.Digest.TargetLanguages(),
		Timeout:   workerConfig.RunTimeout,
	}, logger)

	return schedule(ctx, runner, workerConfig, healthServer, logger)
}

// schedule runs the digest on the cron schedule until ctx is canceled.
// A run still in progress when the next one is due causes that one to be skipped.
func schedule(ctx context.Context, runner *digest.Runner, cfg *workerPkg.WorkerConfig,
	healthServer *workerPkg.HealthServer, logger *slog.Logger) error {
	cronLogger := cronLog{logger: logger}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	job := func() { runDigest(ctx, runner, logger) }
	if _, err := c.AddFunc(cfg.CronSchedule, job); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		go job()
	}

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutting down, waiting for the running digest")

	select {
	case <-c.Stop().Done():
	case <-time.After(30 * time.Second):
		logger.Warn("digest still running at shutdown")
	}
	return nil
}

func runDigest(ctx context.Context, runner *digest.Runner, logger *slog.Logger) {
	stats, err := runner.Run(ctx)
	if err != nil {
		logger.Error("digest run failed",
			slog.Any("error", err),
			slog.Int("delivered", stats.Delivered))
	}
}

// cronLog adapts slog to cron.Logger.
type cronLog struct {
	logger *slog.Logger
}

func (l cronLog) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
