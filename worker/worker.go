// Package worker keeps the served snapshot in step with its dataset source.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"restaurantmap/dataset"
	"restaurantmap/metrics"
	"restaurantmap/snapshot"
	"restaurantmap/stats"
)

// Loader builds snapshots from a source and publishes them to a store.
type Loader struct {
	Source dataset.Source
	Store  *snapshot.Store
	Agg    *stats.Aggregator
	Log    *slog.Logger
}

// Reload loads the source once and swaps in a fresh snapshot. On error the
// current snapshot keeps being served.
func (l *Loader) Reload(ctx context.Context) (*snapshot.Snapshot, error) {
	start := time.Now()
	ds, err := l.Source.Load(ctx)
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load %s: %w", l.Source.Name(), err)
	}

	s := snapshot.Build(ds, l.Agg)
	s.Source = l.Source.Name()
	l.Store.Swap(s)

	metrics.DatasetReloadsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetRecords.Set(float64(len(ds.Records)))
	metrics.DatasetDroppedRows.Set(float64(ds.Dropped))

	l.Log.Info("dataset_loaded",
		"source", s.Source,
		"version", s.Version,
		"records", len(ds.Records),
		"dropped", ds.Dropped,
		"india_cities", len(s.Groups.India),
		"global_cities", len(s.Groups.Global),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if s.StatsErr != nil {
		l.Log.Warn("city_stats_unavailable", "err", s.StatsErr)
	}
	return s, nil
}

// StartReloadWorker reloads the dataset every interval until ctx is done.
// A non-positive interval disables it.
func StartReloadWorker(ctx context.Context, l *Loader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	l.Log.Info("reload_worker_started", "interval", interval.String(), "source", l.Source.Name())
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := l.Reload(ctx); err != nil {
					l.Log.Error("dataset_reload_failed", "err", err)
				}
			}
		}
	}()
}
