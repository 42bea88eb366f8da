package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"newshub/internal/app"
	"newshub/internal/config"
	"newshub/internal/domain/entity"
	"newshub/internal/observability/logging"
	"newshub/internal/usecase/session"
	envcfg "newshub/pkg/config"
)

// options holds the persistent flags and what is built from them.
type options struct {
	configPath string
	lang       string
	category   string
	count      int

	cfg    *config.Config
	logger *slog.Logger
	app    *app.App
}

func newRootCommand() (*cobra.Command, *options) {
	opts := &options{}

	root := &cobra.Command{
		Use:   "newshub",
		Short: "Read current headlines translated and summarized",
		Long: `newshub fetches the latest headlines, detects their language, translates
them into the language you choose and summarizes them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRead(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file (default $"+config.ConfigPathEnv+")")
	flags.StringVar(&opts.lang, "lang", string(entity.Hindi), "target language code")
	flags.StringVar(&opts.category, "category", entity.DefaultCategory, "headline category")
	flags.IntVar(&opts.count, "count", entity.DefaultArticleCount,
		fmt.Sprintf("articles per refresh (%d-%d)", entity.MinArticleCount, entity.MaxArticleCount))

	root.AddCommand(
		newReadCommand(opts),
		newHeadlinesCommand(opts),
		newLanguagesCommand(),
		newCategoriesCommand(),
		newDetectCommand(opts),
		newTranslateCommand(opts),
		newSummarizeCommand(opts),
		newFeedsCommand(opts),
	)
	return root, opts
}

// load reads the configuration, applies flag overrides and builds the App.
func (o *options) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Session.Language = o.lang
	}
	if flags.Changed("category") {
		cfg.Session.Category = o.category
	}
	if flags.Changed("count") {
		cfg.Session.Count = o.count
	}
	if err := cfg.Session.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so they stay out of the page; warnings only unless asked.
	level := cfg.LogLevel
	if envcfg.GetEnvString("LOG_LEVEL", "") == "" {
		level = "warn"
	}
	o.logger = logging.New(cmd.ErrOrStderr(), cfg.LogFormat, level)
	slog.SetDefault(o.logger)

	o.cfg = cfg
	o.app = app.New(cfg, o.logger)
	return nil
}

// settings returns the session settings after flag overrides.
func (o *options) settings() session.Settings {
	lang, err := entity.ParseLanguage(o.cfg.Session.Language)
	if err != nil {
		lang = entity.Hindi
	}
	return session.Settings{
		Language: lang,
		Category: o.cfg.Session.Category,
		Count:    o.cfg.Session.Count,
	}
}

func (o *options) close() {
	if o.app == nil {
		return
	}
	if err := o.app.Close(); err != nil {
		o.logger.Error("failed to close local model connection", slog.Any("error", err))
	}
}

// noConfig skips configuration loading for commands that need none.
func noConfig(*cobra.Command, []string) error { return nil }
