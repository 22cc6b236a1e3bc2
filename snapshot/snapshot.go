// Package snapshot holds the read-only view of a loaded dataset that request
// handlers share.
package snapshot

import (
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"restaurantmap/dataset"
	"restaurantmap/models"
	"restaurantmap/stats"
)

// Snapshot is everything derived from one dataset load. It is never mutated
// after Build returns.
type Snapshot struct {
	Version  uint64
	LoadedAt time.Time

	// Fingerprint identifies the loaded data itself. Unlike Version it is
	// stable across restarts and equal between instances serving the same
	// dataset, so it is safe to key shared caches on.
	Fingerprint string
	Source   string

	Data *dataset.Dataset

	// Groups and Charts are empty when StatsErr is set, which happens when
	// the dataset has no city column.
	Groups   stats.CityGroups
	Charts   map[string]models.ChartSeries
	StatsErr error

	Cities   []string
	Cuisines []string
}

// Build derives city statistics, charts and filter listings from ds.
// A dataset without a city column still produces a snapshot usable for map
// queries.
func Build(ds *dataset.Dataset, agg *stats.Aggregator) *Snapshot {
	s := &Snapshot{
		LoadedAt:    time.Now(),
		Fingerprint: Fingerprint(ds),
		Data:        ds,
		Cities:      ds.Cities(),
		Cuisines:    ds.Cuisines(),
	}
	groups, err := agg.ComputeCityGroups(ds)
	if err != nil {
		s.StatsErr = err
		s.Groups = stats.CityGroups{India: []models.CityStat{}, Global: []models.CityStat{}}
	} else {
		s.Groups = groups
	}
	s.Charts = stats.Charts(s.Groups)
	return s
}

// Fingerprint hashes the resolved schema and every record of ds.
func Fingerprint(ds *dataset.Dataset) string {
	d := xxhash.New()
	field := func(v string) {
		d.WriteString(v)
		d.WriteString("\x00")
	}
	sc := ds.Schema
	for _, v := range []string{sc.Name, sc.City, sc.Cuisines, sc.Rating, sc.CountryCode, sc.Latitude, sc.Longitude} {
		field(v)
	}
	var buf []byte
	for _, r := range ds.Records {
		field(r.Name)
		field(r.City)
		field(r.Cuisines)
		field(r.RatingText)
		buf = strconv.AppendFloat(buf[:0], r.Latitude, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, r.Longitude, 'g', -1, 64)
		if r.CountryCode != nil {
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(*r.CountryCode), 10)
		}
		buf = append(buf, 0)
		d.Write(buf)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// HasStats reports whether city statistics could be computed.
func (s *Snapshot) HasStats() bool {
	return s.StatsErr == nil
}

var ErrNotLoaded = errors.New("snapshot: nothing loaded")

// Store publishes the current snapshot. Readers never block writers.
type Store struct {
	cur     atomic.Pointer[Snapshot]
	version atomic.Uint64
}

func NewStore() *Store { return &Store{} }

// Load returns the current snapshot or ErrNotLoaded.
func (st *Store) Load() (*Snapshot, error) {
	s := st.cur.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Swap stamps s with the next version number and makes it current.
func (st *Store) Swap(s *Snapshot) *Snapshot {
	s.Version = st.version.Add(1)
	return st.cur.Swap(s)
}
