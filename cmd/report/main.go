// Command report prints the dashboard for one selection to the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.String(models.RegionParam, "", "comma separated regions (default all, empty for none)")
	fs.String(models.CategoryParam, "", "comma separated categories (default all, empty for none)")
	rows := fs.Int("rows", 0, "preview rows (default from DASHBOARD_PREVIEW_ROWS)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// logs go to stderr so the report itself can be piped
	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	data, err := dataset.Load(ctx, config.DatasetFile, dataset.Options{
		Strict:   cfg.Dataset.Strict,
		CacheDir: cfg.CacheDir(),
		Logger:   logger,
	})
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("dataset unavailable: %w", loadErr)
		}
		return err
	}

	previewRows := cfg.Dashboard.PreviewRows
	if *rows > 0 {
		previewRows = *rows
	}
	dashboard, err := services.NewDashboard(data, logger, services.Options{PreviewRows: previewRows})
	if err != nil {
		return err
	}

	view, err := dashboard.View(ctx, selectionFromFlags(fs))
	if err != nil {
		return err
	}

	return renderReport(os.Stdout, view)
}

// selectionFromFlags maps only the flags given on the command line, so an
// omitted flag keeps every value and an explicit -region= selects none.
func selectionFromFlags(fs *flag.FlagSet) models.Selection {
	values := url.Values{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case models.RegionParam, models.CategoryParam:
			values.Add(f.Name, f.Value.String())
		}
	})
	return models.SelectionFromValues(values)
}
