package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"restaurantmap/dataset"
	"restaurantmap/geoquery"
	"restaurantmap/models"
	"restaurantmap/snapshot"
	"restaurantmap/stats"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testStore(t *testing.T, n int) *snapshot.Store {
	t.Helper()
	schema := models.Schema{
		Name:      "Restaurant Name",
		City:      "City",
		Cuisines:  "Cuisines",
		Rating:    "Aggregate rating",
		Latitude:  "Latitude",
		Longitude: "Longitude",
	}
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		r := 3.0 + float64(i%3)*0.8
		records = append(records, models.Record{
			Name:      fmt.Sprintf("Place %d", i),
			City:      "Delhi",
			Cuisines:  "North Indian, Chinese",
			Rating:    &r,
			Latitude:  28.5 + float64(i%20)*0.01,
			Longitude: 77.1 + float64(i/20)*0.01,
		})
	}
	st := snapshot.NewStore()
	st.Swap(snapshot.Build(&dataset.Dataset{Schema: schema, Records: records}, stats.NewAggregator()))
	return st
}

func get(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestParseMapParams(t *testing.T) {
	cases := []struct {
		query string
		want  geoquery.Params
	}{
		{"", geoquery.Params{Zoom: 5, City: "All", Cuisine: "All"}},
		{"zoom=abc", geoquery.Params{Zoom: 5, City: "All", Cuisine: "All"}},
		{"zoom=12&city=Delhi&cuisine=Chinese&bbox=1,2,3,4", geoquery.Params{BBox: "1,2,3,4", Zoom: 12, City: "Delhi", Cuisine: "Chinese"}},
	}
	for _, tc := range cases {
		q, _ := url.ParseQuery(tc.query)
		if got := ParseMapParams(q); got != tc.want {
			t.Errorf("ParseMapParams(%q) = %+v, want %+v", tc.query, got, tc.want)
		}
	}
}

func TestMapDataMarkers(t *testing.T) {
	rec := get(t, MapDataHandler(testStore(t, 10), nil, quiet), "/map_data?zoom=oops")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var markers []models.Marker
	if err := json.Unmarshal(rec.Body.Bytes(), &markers); err != nil {
		t.Fatal(err)
	}
	if len(markers) != 10 || markers[0].IsCluster || markers[0].Name != "Place 0" {
		t.Fatalf("markers = %+v", markers)
	}
}

func TestMapDataClusters(t *testing.T) {
	rec := get(t, MapDataHandler(testStore(t, 400), nil, quiet), "/map_data?zoom=3")
	var clusters []models.Cluster
	if err := json.Unmarshal(rec.Body.Bytes(), &clusters); err != nil {
		t.Fatal(err)
	}
	if len(clusters) == 0 || !clusters[0].IsCluster {
		t.Fatalf("clusters = %+v", clusters)
	}
	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	if total != 400 {
		t.Fatalf("cluster counts sum to %d", total)
	}
}

func TestMapDataEmptyIsArray(t *testing.T) {
	rec := get(t, MapDataHandler(testStore(t, 10), nil, quiet), "/map_data?city=Paris")
	if body := rec.Body.String(); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if ok {
		m.hits++
	}
	return b, ok
}

func (m *memCache) Set(_ context.Context, key string, val []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
}

func TestMapDataUsesCache(t *testing.T) {
	c := &memCache{data: map[string][]byte{}}
	h := MapDataHandler(testStore(t, 10), c, quiet)

	first := get(t, h, "/map_data?zoom=7&cuisine=chinese").Body.String()
	second := get(t, h, "/map_data?zoom=7&cuisine=chinese").Body.String()
	if first != second || c.hits != 1 || len(c.data) != 1 {
		t.Fatalf("hits = %d entries = %d", c.hits, len(c.data))
	}
}

func TestNotLoaded(t *testing.T) {
	empty := snapshot.NewStore()
	for name, h := range map[string]http.HandlerFunc{
		"map":    MapDataHandler(empty, nil, quiet),
		"stats":  StatsHandler(empty),
		"health": HealthHandler(empty),
	} {
		if rec := get(t, h, "/"); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d", name, rec.Code)
		}
	}
}

func TestStatsAndCharts(t *testing.T) {
	st := testStore(t, 10)

	var groups stats.CityGroups
	if err := json.Unmarshal(get(t, StatsHandler(st), "/api/stats").Body.Bytes(), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups.India) != 1 || groups.India[0].City != "Delhi" || groups.India[0].CuisineVariety != 2 {
		t.Fatalf("india = %+v", groups.India)
	}
	if len(groups.Global) != 0 {
		t.Fatalf("global = %+v", groups.Global)
	}

	var charts map[string]models.ChartSeries
	if err := json.Unmarshal(get(t, ChartsHandler(st), "/api/charts").Body.Bytes(), &charts); err != nil {
		t.Fatal(err)
	}
	if len(charts) != 6 || len(charts["india_restaurants"].X) != 1 || charts["india_restaurants"].Y[0] != 10 {
		t.Fatalf("charts = %+v", charts)
	}
}

func TestListings(t *testing.T) {
	st := testStore(t, 3)
	var cities, cuisines []string
	json.Unmarshal(get(t, CitiesHandler(st), "/api/cities").Body.Bytes(), &cities)
	json.Unmarshal(get(t, CuisinesHandler(st), "/api/cuisines").Body.Bytes(), &cuisines)
	if len(cities) != 1 || cities[0] != "Delhi" {
		t.Fatalf("cities = %v", cities)
	}
	if len(cuisines) != 2 || cuisines[0] != "Chinese" || cuisines[1] != "North Indian" {
		t.Fatalf("cuisines = %v", cuisines)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, HealthHandler(testStore(t, 4)), "/healthz")
	var h health
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Version != 1 || h.Records != 4 || !h.Stats {
		t.Fatalf("health = %+v", h)
	}
}

func storeWith(names ...string) *snapshot.Store {
	schema := models.Schema{Name: "Restaurant Name", City: "City", Latitude: "Latitude", Longitude: "Longitude"}
	records := make([]models.Record, 0, len(names))
	for _, n := range names {
		records = append(records, models.Record{Name: n, City: "Delhi", Latitude: 28.6, Longitude: 77.2})
	}
	st := snapshot.NewStore()
	st.Swap(snapshot.Build(&dataset.Dataset{Schema: schema, Records: records}, stats.NewAggregator()))
	return st
}

func TestSharedCacheAcrossDatasets(t *testing.T) {
	shared := &memCache{data: map[string][]byte{}}
	oldStore := storeWith("Old Place")
	newStore := storeWith("New Place")

	get(t, MapDataHandler(oldStore, shared, quiet), "/map_data")

	var markers []models.Marker
	rec := get(t, MapDataHandler(newStore, shared, quiet), "/map_data")
	if err := json.Unmarshal(rec.Body.Bytes(), &markers); err != nil {
		t.Fatal(err)
	}
	if len(markers) != 1 || markers[0].Name != "New Place" {
		t.Fatalf("second dataset served %+v", markers)
	}
	if shared.hits != 0 {
		t.Fatalf("hits = %d, want 0 across different datasets", shared.hits)
	}

	// Same data loaded elsewhere shares entries.
	get(t, MapDataHandler(storeWith("New Place"), shared, quiet), "/map_data")
	if shared.hits != 1 {
		t.Fatalf("hits = %d, want 1 for identical data", shared.hits)
	}
}

func TestCacheKeyEscapesParams(t *testing.T) {
	a := cacheKey("f", geoquery.Params{City: "A|B", Cuisine: "C"})
	b := cacheKey("f", geoquery.Params{City: "A", Cuisine: "B|C"})
	if a == b {
		t.Fatalf("distinct params share key %q", a)
	}
}
