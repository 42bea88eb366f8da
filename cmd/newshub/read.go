package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"newshub/internal/domain/entity"
	"newshub/internal/usecase/session"
)

const (
	wrapWidth = 100
	prompt    = "\n[n]ext [p]rev [l <lang>] [c <category>] [k <count>] [r]efresh [q]uit > "
)

func newReadCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Page through processed articles interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRead(cmd, opts)
		},
	}
}

func runRead(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	processor, err := opts.app.Processor(ctx)
	if err != nil {
		return err
	}
	state := session.New(opts.app.News(), processor, opts.settings(), opts.logger)
	return newPager(state, cmd.InOrStdin(), cmd.OutOrStdout()).run(ctx)
}

// pager drives a session from line-oriented terminal input.
type pager struct {
	state *session.State
	in    *bufio.Scanner
	out   io.Writer
}

func newPager(state *session.State, in io.Reader, out io.Writer) *pager {
	return &pager{state: state, in: bufio.NewScanner(in), out: out}
}

func (p *pager) run(ctx context.Context) error {
	p.refresh(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(p.out, prompt)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			return p.in.Err()
		}
		if quit := p.handle(ctx, p.in.Text()); quit {
			return nil
		}
	}
}

// handle executes one command line and reports whether to quit.
func (p *pager) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return true
	case "n", "next":
		if !p.state.Next() {
			fmt.Fprintln(p.out, "Already at the last article.")
			return false
		}
		p.show(ctx)
	case "p", "prev":
		if !p.state.Prev() {
			fmt.Fprintln(p.out, "Already at the first article.")
			return false
		}
		p.show(ctx)
	case "r", "refresh":
		p.refresh(ctx)
	case "l", "lang":
		lang, err := entity.ParseLanguage(arg)
		if err == nil {
			err = p.state.SetLanguage(lang)
		}
		if err != nil {
			fmt.Fprintln(p.out, "Unknown language:", arg)
			return false
		}
		p.show(ctx)
	case "c", "category":
		if err := p.state.SetCategory(arg); err != nil {
			fmt.Fprintf(p.out, "Unknown category %q. Choose one of: %s\n", arg, strings.Join(entity.Categories(), ", "))
			return false
		}
		p.refresh(ctx)
	case "k", "count":
		n, err := strconv.Atoi(arg)
		if err == nil {
			err = p.state.SetCount(n)
		}
		if err != nil {
			fmt.Fprintf(p.out, "Count must be between %d and %d.\n", entity.MinArticleCount, entity.MaxArticleCount)
			return false
		}
		p.refresh(ctx)
	default:
		fmt.Fprintf(p.out, "Unknown command %q.\n", fields[0])
	}
	return false
}

func (p *pager) refresh(ctx context.Context) {
	fmt.Fprintf(p.out, "Fetching %s news...\n", p.state.Category())
	if err := p.state.Refresh(ctx); err != nil {
		switch {
		case errors.Is(err, entity.ErrEmptyResult):
			fmt.Fprintln(p.out, "No articles retrieved.")
		case errors.Is(err, context.Canceled):
		default:
			fmt.Fprintln(p.out, "Unable to fetch news:", err)
		}
		if p.state.Len() == 0 {
			return
		}
	}
	p.show(ctx)
}

func (p *pager) show(ctx context.Context) {
	view, err := p.state.Current(ctx)
	if errors.Is(err, session.ErrNoArticles) {
		fmt.Fprintln(p.out, "No articles loaded. Press r to refresh.")
		return
	}
	if err != nil {
		fmt.Fprintln(p.out, "Unable to show the article:", err)
		return
	}
	renderArticle(p.out, view)
}

func renderArticle(w io.Writer, view session.View) {
	a, pa := view.Article, view.Processed
	rule := strings.Repeat("-", wrapWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Article %d of %d%s\n\n", view.Index+1, view.Total, edgeMarker(view))
	fmt.Fprintln(w, text.WrapSoft(pa.Title, wrapWidth))
	fmt.Fprintf(w, "%s | %s | %s\n", a.Source, a.PublishedDate(), strings.ToUpper(pa.SourceLang.String()))
	if a.ImageURL != "" {
		fmt.Fprintln(w, "Image:", a.ImageURL)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, text.WrapSoft(pa.Summary, wrapWidth))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Full article")
	fmt.Fprintln(w, text.WrapSoft(pa.Content, wrapWidth))
	if a.URL != "" {
		fmt.Fprintln(w, "Original:", a.URL)
	}
	if view.Err != nil {
		fmt.Fprintln(w, "\nNote: processing degraded:", view.Err)
	}
}

func edgeMarker(v session.View) string {
	switch {
	case v.HasPrev() == v.HasNext():
		return ""
	case !v.HasPrev():
		return "  (first)"
	default:
		return "  (last)"
	}
}
