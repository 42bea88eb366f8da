package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/scraper"
	"newshub/internal/resilience/retry"
)

// Feed check outcomes.
const (
	feedOK      = "OK"
	feedEmpty   = "EMPTY"
	feedTimeout = "TIMEOUT"
	feedError   = "ERROR"
)

// feedFetcher is the part of scraper.RSSFetcher the check needs.
type feedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]scraper.FeedItem, error)
}

// feedDiagnostic is the result of checking one configured feed.
type feedDiagnostic struct {
	Category  string
	URL       string
	Status    string
	Items     int
	Latest    string
	Elapsed   time.Duration
	ErrorText string
}

func newFeedsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "feeds [category...]",
		Short: "Check that the configured RSS feeds are reachable and parse",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range args {
				if !entity.IsCategory(c) {
					return fmt.Errorf("%w: unknown category %q", entity.ErrInvalidInput, c)
				}
			}
			timeout := opts.cfg.News.Timeout
			// One attempt per feed: a failing feed should be reported, not retried.
			f := scraper.NewRSSFetcher(&http.Client{Timeout: timeout},
				scraper.WithRetryConfig(retry.Config{MaxAttempts: 1}))

			results := checkFeeds(cmd.Context(), f, opts.cfg.News.Feeds, args, timeout)
			renderFeeds(cmd.OutOrStdout(), results)
			return nil
		},
	}
}

// checkFeeds fetches every feed of the selected categories, or of all of
// them when none are selected, in category order.
func checkFeeds(ctx context.Context, f feedFetcher, feeds map[string][]string, only []string, timeout time.Duration) []feedDiagnostic {
	categories := only
	if len(categories) == 0 {
		for c := range feeds {
			categories = append(categories, c)
		}
		sort.Strings(categories)
	}

	var results []feedDiagnostic
	for _, c := range categories {
		for _, url := range feeds[c] {
			if ctx.Err() != nil {
				return results
			}
			results = append(results, checkFeed(ctx, f, c, url, timeout))
		}
	}
	return results
}

func checkFeed(ctx context.Context, f feedFetcher, category, url string, timeout time.Duration) feedDiagnostic {
	d := feedDiagnostic{Category: category, URL: url}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	items, err := f.Fetch(fetchCtx, url)
	d.Elapsed = time.Since(start)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		d.Status = feedTimeout
		d.ErrorText = fmt.Sprintf("no response after %s", timeout)
	case err != nil:
		d.Status = feedError
		d.ErrorText = err.Error()
	case len(items) == 0:
		d.Status = feedEmpty
	default:
		d.Status = feedOK
		d.Items = len(items)
		for _, it := range items {
			// RFC3339 in UTC orders lexically.
			if it.PublishedAt > d.Latest {
				d.Latest = it.PublishedAt
			}
		}
	}
	return d
}

func renderFeeds(w io.Writer, results []feedDiagnostic) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Category", "Feed", "Status", "Items", "Latest", "Time", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Feed", WidthMax: 50},
		{Name: "Error", WidthMax: 40},
	})

	ok := 0
	for _, d := range results {
		if d.Status == feedOK {
			ok++
		}
		t.AppendRow(table.Row{d.Category, d.URL, d.Status, d.Items, d.Latest,
			d.Elapsed.Round(time.Millisecond), d.ErrorText})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d working", ok, len(results))})
	t.Render()
}
