package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"restaurantmap/snapshot"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// snapshotHandler serves one value derived from the current snapshot.
func snapshotHandler(store *snapshot.Store, pick func(*snapshot.Snapshot) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.Load()
		if err != nil {
			respondError(w, http.StatusServiceUnavailable, "dataset not loaded")
			return
		}
		respondJSON(w, http.StatusOK, pick(snap))
	}
}

// CitiesHandler lists the distinct city names for the city filter dropdown.
func CitiesHandler(store *snapshot.Store) http.HandlerFunc {
	return snapshotHandler(store, func(s *snapshot.Snapshot) any { return s.Cities })
}

// CuisinesHandler lists the distinct cuisine tokens for the cuisine filter.
func CuisinesHandler(store *snapshot.Store) http.HandlerFunc {
	return snapshotHandler(store, func(s *snapshot.Snapshot) any { return s.Cuisines })
}

// StatsHandler returns the India and Global city statistics. Both lists are
// empty when the dataset has no city column.
func StatsHandler(store *snapshot.Store) http.HandlerFunc {
	return snapshotHandler(store, func(s *snapshot.Snapshot) any { return s.Groups })
}

// ChartsHandler returns the six top-20 bar chart series.
func ChartsHandler(store *snapshot.Store) http.HandlerFunc {
	return snapshotHandler(store, func(s *snapshot.Snapshot) any { return s.Charts })
}

type health struct {
	Status   string `json:"status"`
	Version  uint64 `json:"version"`
	Source   string `json:"source"`
	Records  int    `json:"records"`
	Dropped  int    `json:"dropped"`
	Stats    bool   `json:"stats"`
	LoadedAt string `json:"loaded_at"`
}

func HealthHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.Load()
		if err != nil {
			respondJSON(w, http.StatusServiceUnavailable, health{Status: "loading"})
			return
		}
		respondJSON(w, http.StatusOK, health{
			Status:   "ok",
			Version:  snap.Version,
			Source:   snap.Source,
			Records:  len(snap.Data.Records),
			Dropped:  snap.Data.Dropped,
			Stats:    snap.HasStats(),
			LoadedAt: snap.LoadedAt.UTC().Format(time.RFC3339),
		})
	}
}
