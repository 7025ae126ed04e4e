package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
)

var fetchFlags struct {
	sources  []string
	query    string
	category string
	from     string
	to       string
	pageSize int
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one aggregation and print the statistics",
	Example: `  news_fetch fetch
  news_fetch fetch --sources guardian,nytimes --q "climate" --from 2025-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := fetchParams()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var stats domain.FetchStatistics
		if len(fetchFlags.sources) > 0 {
			stats = a.Aggregator.RunSelected(ctx, fetchFlags.sources, params)
		} else {
			stats = a.Aggregator.RunAll(ctx, params)
		}

		return writeStats(cmd.OutOrStdout(), stats)
	},
}

// writeStats prints the statistics as JSON. Failed sources are reported
// in the output and logged, the run itself still succeeds.
func writeStats(w io.Writer, stats domain.FetchStatistics) error {
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return err
	}

	failed := stats.Failed()
	sort.Strings(failed)
	for _, key := range failed {
		slog.Warn("Source failed", "source", key, "error", stats.Sources[key].Error)
	}
	return nil
}

func init() {
	f := fetchCmd.Flags()
	f.StringSliceVar(&fetchFlags.sources, "sources", nil, "source keys to fetch (default: all configured)")
	f.StringVar(&fetchFlags.query, "q", "", "search term")
	f.StringVar(&fetchFlags.category, "category", "", "category or section")
	f.StringVar(&fetchFlags.from, "from", "", "earliest publication date (2006-01-02)")
	f.StringVar(&fetchFlags.to, "to", "", "latest publication date (2006-01-02)")
	f.IntVar(&fetchFlags.pageSize, "page-size", 0, "articles per provider request (provider default when 0)")
}

func fetchParams() (domain.FetchParams, error) {
	params := domain.FetchParams{
		SearchTerm: strings.TrimSpace(fetchFlags.query),
		Category:   strings.TrimSpace(fetchFlags.category),
		PageSize:   fetchFlags.pageSize,
	}

	var err error
	if params.From, err = parseFlagDate("from", fetchFlags.from); err != nil {
		return params, err
	}
	if params.To, err = parseFlagDate("to", fetchFlags.to); err != nil {
		return params, err
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return params, fmt.Errorf("--to must not be before --from")
	}
	return params, nil
}

func parseFlagDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(provider.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &t, nil
}
