package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"

	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/pipeline"
)

// maxHintDistance bounds how far a typo may be from a known value before no
// suggestion is offered.
const maxHintDistance = 3

type Options struct {
	PreviewRows int
	// ViewCacheSize is the number of computed views kept in memory. Zero or
	// less disables the cache.
	ViewCacheSize int
}

// Dashboard answers view requests over one loaded dataset. It is safe for
// concurrent use.
type Dashboard struct {
	data        *dataset.Dataset
	logger      *slog.Logger
	previewRows int
	views       *lru.Cache[string, *models.View]
	startedAt   time.Time

	computed  atomic.Int64
	cacheHits atomic.Int64
}

func NewDashboard(data *dataset.Dataset, logger *slog.Logger, opts Options) (*Dashboard, error) {
	if data == nil {
		return nil, fmt.Errorf("dashboard requires a dataset")
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dashboard{
		data:        data,
		logger:      logger,
		previewRows: opts.PreviewRows,
		startedAt:   time.Now(),
	}

	if opts.ViewCacheSize > 0 {
		cache, err := lru.New[string, *models.View](opts.ViewCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create view cache: %w", err)
		}
		d.views = cache
	}

	return d, nil
}

// Options returns the filter values the user can choose from.
func (d *Dashboard) Options() models.Options {
	return models.Options{
		Regions:    d.data.Regions(),
		Categories: d.data.Categories(),
	}
}

// Resolve replaces unrestricted dimensions with every value present in the
// dataset and normalizes the result.
func (d *Dashboard) Resolve(sel models.Selection) models.Selection {
	if sel.Regions == nil {
		sel.Regions = d.data.Regions()
	}
	if sel.Categories == nil {
		sel.Categories = d.data.Categories()
	}
	return sel.Normalized()
}

// View computes the dashboard for sel. The returned view is shared with the
// cache and must not be modified.
func (d *Dashboard) View(ctx context.Context, sel models.Selection) (*models.View, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.view")
	defer span.FinishAndLog(ctx, d.logger)

	if err := ctx.Err(); err != nil {
		span.SetError(err)
		return nil, err
	}

	resolved := d.Resolve(sel)
	key := resolved.Key()
	span.SetTag("selection", key)

	if d.views != nil {
		if view, ok := d.views.Get(key); ok {
			d.cacheHits.Add(1)
			span.SetTag("cache", "hit")
			return view, nil
		}
	}

	view := pipeline.Run(d.data.Records(), resolved, d.previewRows)
	view.Hints = d.hints(resolved)
	d.computed.Add(1)

	span.SetTag("cache", "miss")
	span.SetTag("records", strconv.Itoa(view.Totals.Records))

	if d.views != nil {
		d.views.Add(key, view)
	}
	return view, nil
}

// hints flags selected values that match nothing in the dataset and suggests
// the closest known value.
func (d *Dashboard) hints(sel models.Selection) []models.Hint {
	var hints []models.Hint
	for _, v := range sel.Regions {
		if !d.data.HasRegion(v) {
			hints = append(hints, newHint(models.RegionParam, v, d.data.Regions()))
		}
	}
	for _, v := range sel.Categories {
		if !d.data.HasCategory(v) {
			hints = append(hints, newHint(models.CategoryParam, v, d.data.Categories()))
		}
	}
	return hints
}

func newHint(dimension, value string, known []string) models.Hint {
	hint := models.Hint{Dimension: dimension, Value: value}
	best := maxHintDistance + 1
	for _, k := range known {
		if dist := levenshtein.ComputeDistance(value, k); dist < best {
			best = dist
			hint.Suggestion = k
		}
	}
	return hint
}

type Stats struct {
	Dataset       dataset.LoadStats `json:"dataset"`
	ViewsComputed int64             `json:"views_computed"`
	ViewCacheHits int64             `json:"view_cache_hits"`
	ViewsCached   int               `json:"views_cached"`
	Uptime        string            `json:"uptime"`
}

func (d *Dashboard) Stats() Stats {
	stats := Stats{
		Dataset:       d.data.Stats(),
		ViewsComputed: d.computed.Load(),
		ViewCacheHits: d.cacheHits.Load(),
		Uptime:        time.Since(d.startedAt).Round(time.Second).String(),
	}
	if d.views != nil {
		stats.ViewsCached = d.views.Len()
	}
	return stats
}

// Purge drops every cached view.
func (d *Dashboard) Purge() {
	if d.views != nil {
		d.views.Purge()
	}
}
