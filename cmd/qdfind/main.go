// Command qdfind runs one search over a quotedesk source and prints the
// highlighted results.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"quotedesk/internal/api"
	"quotedesk/internal/catalog"
	"quotedesk/internal/config"
	"quotedesk/internal/domain"
	"quotedesk/internal/export"
	"quotedesk/internal/filter"
	"quotedesk/internal/logging"
)

type options struct {
	apiURL     string
	configPath string
	source     string
	category   string
	query      string
	xlsxPath   string
	markup     bool
	width      int
}

func main() {
	var o options
	flag.StringVar(&o.apiURL, "api", "", "Backend base URL (overrides the config file)")
	flag.StringVar(&o.configPath, "config", "", "Path to config.toml")
	flag.StringVar(&o.source, "source", string(domain.SourceDemo), "catalog, orders, quotes or demo")
	flag.StringVar(&o.category, "category", domain.CategoryAll, "Category to keep")
	flag.StringVar(&o.query, "q", "", "Text to look for in titles and descriptions")
	flag.StringVar(&o.xlsxPath, "xlsx", "", "Also write the results to this xlsx file")
	flag.BoolVar(&o.markup, "markup", false, "Highlight with <strong> tags instead of terminal colors")
	flag.IntVar(&o.width, "width", 100, "Maximum line width")
	flag.Parse()

	if err := run(context.Background(), o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "qdfind: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	src := domain.Source(o.source)
	known := catalog.Categories(src)
	if len(known) <= 1 && src != domain.SourceDemo {
		return fmt.Errorf("unknown source %q", o.source)
	}

	records, err := load(ctx, o, src)
	if err != nil {
		return err
	}

	state := domain.FilterState{ActiveCategory: o.category, QueryText: o.query}
	rs := filter.Run(records, state)

	if o.xlsxPath != "" {
		if err := export.WriteXLSX(o.xlsxPath, string(src), rs, catalog.Label); err != nil {
			return err
		}
	}

	render(out, rs, o)

	if !slices.Contains(known, o.category) {
		if hints := suggestCategories(o.category, known); len(hints) > 0 {
			fmt.Fprintf(out, "Unknown category %q, did you mean %s?\n", o.category, strings.Join(hints, ", "))
		}
	}
	return nil
}

// load reads the source from the backend, or the built-in demo dataset
func load(ctx context.Context, o options, src domain.Source) ([]domain.Record, error) {
	loader := &catalog.Loader{Store: catalog.NewMemoryStore()}
	if src != domain.SourceDemo {
		cfg, err := config.NewConfigServiceAt(configPath(o.configPath)).Load()
		if err != nil {
			return nil, err
		}
		if o.apiURL != "" {
			cfg.API.BaseURL = o.apiURL
		}
		logging.Init(cfg.LoggingConfig(false))
		defer logging.Shutdown()

		client, err := api.New(api.Options{
			BaseURL:       cfg.API.BaseURL,
			Timeout:       cfg.API.Timeout.Duration,
			Retries:       cfg.API.Retries,
			RetryBackoff:  cfg.API.RetryBackoff.Duration,
			SessionCookie: cfg.API.SessionCookie,
		})
		if err != nil {
			return nil, err
		}
		loader.Backend = client
	}
	snap, err := loader.Load(ctx, src, 1)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(config.DefaultDir(), config.FileName)
}

// render prints one line per result, then the count or the empty state
func render(out io.Writer, rs filter.ResultSet, o options) {
	if rs.Empty() {
		fmt.Fprintln(out, catalog.EmptyTitle)
		fmt.Fprintln(out, catalog.EmptyHint)
		return
	}

	mark := filter.StrongMarker
	dim := func(s string) string { return s }
	if !o.markup {
		hl := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
		muted := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		mark = func(s string) string { return hl.Render(s) }
		dim = func(s string) string { return muted.Render(s) }
	}

	for _, item := range rs.Items {
		rec := item.Record
		title := filter.Apply(rec.Title, item.TitleSpans, mark)
		line := fmt.Sprintf("%3d  %s  %s", rec.ID, title, dim("["+catalog.Label(rec.Category)+"]"))
		if rec.Description != "" {
			desc := rec.Description
			if room := o.width - runewidth.StringWidth(rec.Title) - 12; room > 8 && runewidth.StringWidth(desc) > room {
				// highlight offsets are lost once the text is cut
				desc = runewidth.Truncate(desc, room, "…")
			} else {
				desc = filter.Apply(desc, item.DescriptionSpans, mark)
			}
			line += "  " + desc
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, catalog.CountText(rs.Len()))
}

// suggestCategories ranks the known categories against an unknown one.
// Matching stays exact; this only feeds the hint.
func suggestCategories(category string, known []string) []string {
	if category == "" {
		return nil
	}
	matches := fuzzy.Find(strings.ToLower(category), known)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
