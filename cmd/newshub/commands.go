package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"newshub/internal/domain/entity"
)

func newHeadlinesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "headlines",
		Short: "List the current headlines without processing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.settings()
			svc := opts.app.News()
			articles, err := svc.Headlines(cmd.Context(), s.Category, s.Count)
			if err != nil {
				return fmt.Errorf("unable to fetch news: %w", err)
			}
			renderHeadlines(cmd.OutOrStdout(), fmt.Sprintf("%s headlines from %s", s.Category, svc.SourceName()), articles)
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "languages",
		Short:             "List the supported target languages",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			renderLanguages(cmd.OutOrStdout())
		},
	}
}

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "categories",
		Short:             "List the headline categories",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			renderCategories(cmd.OutOrStdout())
		},
	}
}

func newDetectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Detect the language of a text",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			lang := opts.app.Detector().Detect(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", lang, lang.Name())
		},
	}
}

func newTranslateCommand(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate <text|->",
		Short: "Translate a text",
		Long: `Translate a text. Without --from the source language is detected.
Without --to the session language (--lang) is used. A degraded translation is
still printed; the reason goes to stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			target := opts.settings().Language
			if to != "" {
				if target, err = entity.ParseLanguage(to); err != nil {
					return err
				}
			}
			var source entity.Language
			if from != "" {
				if source, err = entity.ParseLanguage(from); err != nil {
					return err
				}
			} else {
				source = opts.app.Detector().Detect(input)
			}

			tr, err := opts.app.Translator(cmd.Context())
			if err != nil {
				return err
			}
			out, err := tr.Translate(cmd.Context(), input, source, target)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			warnDegraded(cmd, err)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source language code (default: detected)")
	cmd.Flags().StringVar(&to, "to", "", "target language code (default: --lang)")
	return cmd
}

func newSummarizeCommand(opts *options) *cobra.Command {
	var maxLength, minLength int
	cmd := &cobra.Command{
		Use:   "summarize <text|->",
		Short: "Summarize a text; use - to read standard input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxLength = opts.cfg.Summarization.MaxLength
			}
			if !cmd.Flags().Changed("min") {
				minLength = opts.cfg.Summarization.MinLength
			}
			if minLength < 1 || maxLength <= minLength {
				return fmt.Errorf("%w: --max (%d) must exceed --min (%d)", entity.ErrInvalidInput, maxLength, minLength)
			}

			sum, err := opts.app.Summarizer(cmd.Context())
			if err != nil {
				return err
			}
			out, err := sum.Summarize(cmd.Context(), input, maxLength, minLength)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			warnDegraded(cmd, err)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxLength, "max", 300, "maximum summary length")
	cmd.Flags().IntVar(&minLength, "min", 80, "minimum summary length")
	return cmd
}

// readInput joins the arguments, or reads standard input when the only argument is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read standard input: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}

func warnDegraded(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	msg := "warning: output degraded: "
	if errors.Is(err, entity.ErrMissingCredential) {
		msg = "warning: credential missing, output degraded: "
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg+err.Error())
}

func renderHeadlines(w io.Writer, title string, articles []entity.Article) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Source", "Title", "Published"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Title", WidthMax: 70}})
	for i, a := range articles {
		t.AppendRow(table.Row{i + 1, a.Source, a.Title, a.PublishedDate()})
	}
	t.Render()
}

func renderLanguages(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Language", "Locale"})
	for _, lang := range entity.SupportedLanguages() {
		t.AppendRow(table.Row{lang.String(), lang.Name(), lang.LocaleTag()})
	}
	t.Render()
}

func renderCategories(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Category"})
	for i, c := range entity.Categories() {
		t.AppendRow(table.Row{i + 1, c})
	}
	t.Render()
}
