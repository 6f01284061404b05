// Package dataset loads the Superstore sales file once and keeps it in memory,
// read-only, for the lifetime of the process.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"superstore-dashboard/internal/models"
)

const (
	batchSize     = 10000
	maxWorkers    = 10
	maxLoggedRows = 20
)

type LoadStats struct {
	Rows      int           `json:"rows"`
	Skipped   int           `json:"skipped"`
	FromCache bool          `json:"from_cache"`
	Duration  time.Duration `json:"duration"`
	LoadedAt  time.Time     `json:"loaded_at"`
}

// Options control how Load treats bad rows and whether it may reuse a parsed
// snapshot from CacheDir.
type Options struct {
	// Strict aborts the load on the first unparseable row instead of
	// skipping it.
	Strict   bool
	CacheDir string
	Logger   *slog.Logger
}

// Dataset is immutable once built. Records must be treated as read-only.
type Dataset struct {
	path       string
	records    []models.SalesRecord
	regions    []string
	categories []string
	stats      LoadStats
}

// New wraps already parsed records.
func New(records []models.SalesRecord) *Dataset {
	d := &Dataset{
		records: records,
		stats: LoadStats{
			Rows:     len(records),
			LoadedAt: time.Now(),
		},
	}
	d.regions, d.categories = distinct(records)
	return d
}

func (d *Dataset) Path() string                  { return d.path }
func (d *Dataset) Len() int                      { return len(d.records) }
func (d *Dataset) Records() []models.SalesRecord { return d.records }
func (d *Dataset) Stats() LoadStats              { return d.stats }

// Regions returns the distinct regions in order of first appearance.
func (d *Dataset) Regions() []string { return slices.Clone(d.regions) }

// Categories returns the distinct categories in order of first appearance.
func (d *Dataset) Categories() []string { return slices.Clone(d.categories) }

func (d *Dataset) HasRegion(v string) bool   { return slices.Contains(d.regions, v) }
func (d *Dataset) HasCategory(v string) bool { return slices.Contains(d.categories, v) }

// Load reads and parses the CSV at path. Any failure that leaves the
// dashboard without data is returned as a *LoadError.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if opts.CacheDir != "" {
		if snap, err := loadSnapshot(opts.CacheDir, path); err == nil && snap.validFor(info, opts.Strict) {
			d := New(snap.Records)
			d.path = path
			d.stats.Skipped = snap.Skipped
			d.stats.FromCache = true
			d.stats.Duration = time.Since(start)
			logger.Info("dataset loaded from cache", "path", path, "records", len(snap.Records))
			return d, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	records, skipped, err := parseCSV(ctx, f, path, opts.Strict, logger)
	if err != nil {
		return nil, err
	}

	d := New(records)
	d.path = path
	d.stats.Skipped = skipped
	d.stats.Duration = time.Since(start)

	if opts.CacheDir != "" {
		snap := &snapshot{Version: snapshotVersion, SourceModTime: info.ModTime(), Skipped: skipped, Records: records}
		if err := saveSnapshot(opts.CacheDir, path, snap); err != nil {
			logger.Warn("failed to save dataset cache", "error", err)
		}
	}

	logger.Info("dataset loaded",
		"path", path,
		"records", len(records),
		"skipped", skipped,
		"duration", d.stats.Duration,
	)
	return d, nil
}

type rawRow struct {
	line   int
	fields []string
	err    error
}

type parsedRow struct {
	rec models.SalesRecord
	err error
}

func parseCSV(ctx context.Context, r io.Reader, path string, strict bool, logger *slog.Logger) ([]models.SalesRecord, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, &LoadError{Path: path, Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, 0, &LoadError{Path: path, Line: 1, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)}
	}

	cols := newColumns(header)
	if missing := cols.missing(); len(missing) > 0 {
		return nil, 0, &LoadError{Path: path, Column: missing[0], Err: fmt.Errorf("%w: %v", ErrMissingColumn, missing)}
	}

	var (
		records []models.SalesRecord
		skipped int
	)

	handle := func(batch []rawRow) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		results, err := parseBatch(ctx, batch, cols)
		if err != nil {
			return err
		}
		for i, res := range results {
			if res.err == nil {
				records = append(records, res.rec)
				continue
			}

			loadErr := &LoadError{Path: path, Line: batch[i].line, Err: res.err}
			var cell *cellError
			if errors.As(res.err, &cell) {
				loadErr.Column = cell.column
				loadErr.Err = cell.err
			}
			if strict {
				return loadErr
			}

			skipped++
			if skipped <= maxLoggedRows {
				logger.Warn("skipping row", "line", loadErr.Line, "column", loadErr.Column, "error", loadErr.Err)
			}
		}
		return nil
	}

	batch := make([]rawRow, 0, batchSize)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		row := rawRow{fields: fields}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, 0, &LoadError{Path: path, Err: err}
			}
			row.line = perr.StartLine
			row.err = fmt.Errorf("%w: %v", ErrMalformedRow, perr.Err)
		} else {
			row.line, _ = reader.FieldPos(0)
		}
		batch = append(batch, row)

		if len(batch) >= batchSize {
			if err := handle(batch); err != nil {
				return nil, 0, err
			}
			batch = make([]rawRow, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		if err := handle(batch); err != nil {
			return nil, 0, err
		}
	}

	if skipped > maxLoggedRows {
		logger.Warn("additional rows skipped", "count", skipped-maxLoggedRows)
	}

	if len(records) == 0 {
		return nil, 0, &LoadError{Path: path, Err: ErrNoRecords}
	}
	return records, skipped, nil
}

// parseBatch parses rows concurrently in at most maxWorkers chunks; results
// keep the batch order. Row errors are reported per result; the returned
// error is only set when ctx is cancelled mid-batch.
func parseBatch(ctx context.Context, batch []rawRow, cols columns) ([]parsedRow, error) {
	results := make([]parsedRow, len(batch))

	chunk := (len(batch) + maxWorkers - 1) / maxWorkers
	var g errgroup.Group
	for start := 0; start < len(batch); start += chunk {
		end := min(start+chunk, len(batch))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if batch[i].err != nil {
					results[i].err = batch[i].err
					continue
				}
				results[i].rec, results[i].err = parseRecord(batch[i].fields, cols)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func distinct(records []models.SalesRecord) (regions, categories []string) {
	seenRegion := make(map[string]struct{})
	seenCategory := make(map[string]struct{})
	regions = []string{}
	categories = []string{}

	for _, rec := range records {
		if _, ok := seenRegion[rec.Region]; !ok {
			seenRegion[rec.Region] = struct{}{}
			regions = append(regions, rec.Region)
		}
		if _, ok := seenCategory[rec.Category]; !ok {
			seenCategory[rec.Category] = struct{}{}
			categories = append(categories, rec.Category)
		}
	}
	return regions, categories
}
