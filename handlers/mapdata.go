package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"restaurantmap/cache"
	"restaurantmap/geoquery"
	"restaurantmap/metrics"
	"restaurantmap/snapshot"
)

// ParseMapParams extracts the viewport filters from the URL query. Missing or
// malformed values fall back to defaults; nothing here is ever rejected.
func ParseMapParams(query url.Values) geoquery.Params {
	p := geoquery.Params{
		BBox:    strings.TrimSpace(query.Get("bbox")),
		Zoom:    geoquery.DefaultZoom,
		City:    query.Get("city"),
		Cuisine: query.Get("cuisine"),
	}
	if z, err := strconv.Atoi(strings.TrimSpace(query.Get("zoom"))); err == nil {
		p.Zoom = z
	}
	if p.City == "" {
		p.City = geoquery.AllValues
	}
	if p.Cuisine == "" {
		p.Cuisine = geoquery.AllValues
	}
	return p
}

// cacheKey scopes a response to the data it was computed from. The cache may
// be shared between instances and outlive the process, so the key uses the
// dataset fingerprint rather than the local snapshot version.
func cacheKey(fingerprint string, p geoquery.Params) string {
	q := url.Values{
		"bbox":    {p.BBox},
		"zoom":    {strconv.Itoa(p.Zoom)},
		"city":    {p.City},
		"cuisine": {p.Cuisine},
	}
	return "map:" + fingerprint + ":" + q.Encode()
}

// MapDataHandler answers viewport queries with a JSON array of markers or
// clusters. c may be nil.
func MapDataHandler(store *snapshot.Store, c cache.Cache, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.Load()
		if err != nil {
			respondError(w, http.StatusServiceUnavailable, "dataset not loaded")
			return
		}

		start := time.Now()
		p := ParseMapParams(r.URL.Query())
		key := cacheKey(snap.Fingerprint, p)

		if c != nil {
			if body, ok := c.Get(r.Context(), key); ok {
				metrics.CacheHitsTotal.Inc()
				writeRaw(w, body)
				return
			}
			metrics.CacheMissesTotal.Inc()
		}

		res := geoquery.Query(snap.Data.Records, snap.Data.Schema, p)
		body, err := json.Marshal(res.Payload())
		if err != nil {
			log.Error("map_data_encode_failed", "err", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}

		mode := "markers"
		if res.IsClustered() {
			mode = "clusters"
		}
		metrics.MapQueriesTotal.WithLabelValues(mode).Inc()
		metrics.MapResultSize.Observe(float64(res.Len()))
		metrics.MapQueryDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
		log.Debug("map_query",
			"mode", mode,
			"zoom", p.Zoom,
			"city", p.City,
			"cuisine", p.Cuisine,
			"results", res.Len(),
		)

		if c != nil {
			c.Set(r.Context(), key, body)
		}
		writeRaw(w, body)
	}
}

func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
