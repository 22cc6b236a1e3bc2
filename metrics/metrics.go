package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MapQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurantmap_map_queries_total",
		Help: "Total map queries by result mode (markers or clusters)",
	}, []string{"mode"})
	MapQueryDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "restaurantmap_map_query_duration_ms",
		Help:    "Map query duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	MapResultSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "restaurantmap_map_result_size",
		Help:    "Number of markers or clusters returned per map query",
		Buckets: []float64{0, 10, 50, 100, 300, 1000, 5000, 10000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurantmap_cache_hits_total",
		Help: "Total map response cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurantmap_cache_misses_total",
		Help: "Total map response cache misses",
	})
	DatasetReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurantmap_dataset_reloads_total",
		Help: "Dataset reload attempts by result",
	}, []string{"result"})
	DatasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "restaurantmap_dataset_records",
		Help: "Records in the served snapshot",
	})
	DatasetDroppedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "restaurantmap_dataset_dropped_rows",
		Help: "Rows dropped at load for missing or unparseable coordinates",
	})
)

func init() {
	prometheus.MustRegister(MapQueriesTotal)
	prometheus.MustRegister(MapQueryDurationMs)
	prometheus.MustRegister(MapResultSize)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(DatasetReloadsTotal)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(DatasetDroppedRows)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
