// Package stats computes the per-city restaurant statistics behind the India
// and Global charts.
package stats

import (
	"errors"
	"math/rand/v2"
	"sort"

	"restaurantmap/dataset"
	"restaurantmap/models"
)

const (
	DefaultMinRestaurants = 5
	DefaultSampleCap      = 300
	DefaultTopN           = 20
	DefaultSeed           = 42
)

// ErrNoCityColumn is returned when the dataset has no city field to group by.
var ErrNoCityColumn = errors.New("stats: dataset has no city column")

// Aggregator turns a region's rows into CityStats. The zero value is not
// useful; start from NewAggregator.
type Aggregator struct {
	// Cities with fewer rows than MinRestaurants are dropped.
	MinRestaurants int
	// Cities with more rows than SampleCap are sampled down to SampleCap.
	SampleCap int
	// Only the TopN cities by capped count are reported.
	TopN int
	// Seed drives the sampling; identical input and seed give identical output.
	Seed uint64
}

// NewAggregator returns an Aggregator with the default policy.
func NewAggregator() *Aggregator {
	return &Aggregator{
		MinRestaurants: DefaultMinRestaurants,
		SampleCap:      DefaultSampleCap,
		TopN:           DefaultTopN,
		Seed:           DefaultSeed,
	}
}

type cityGroup struct {
	city string
	rows []models.Record
}

// Aggregate deduplicates records, drops small cities, caps large ones, and
// returns metrics for the TopN cities ordered by descending restaurant count.
// NumRestaurants is the capped count.
func (a *Aggregator) Aggregate(records []models.Record, schema models.Schema) ([]models.CityStat, error) {
	if !schema.HasCity() {
		return nil, ErrNoCityColumn
	}
	out := []models.CityStat{}
	if len(records) == 0 {
		return out, nil
	}

	groups := groupByCity(Dedup(records, schema))

	kept := groups[:0]
	for _, g := range groups {
		if len(g.rows) >= a.MinRestaurants {
			kept = append(kept, g)
		}
	}
	for i := range kept {
		kept[i].rows = a.sample(kept[i].rows)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return len(kept[i].rows) > len(kept[j].rows)
	})
	if a.TopN > 0 && len(kept) > a.TopN {
		kept = kept[:a.TopN]
	}

	for _, g := range kept {
		out = append(out, models.CityStat{
			City:           g.city,
			NumRestaurants: len(g.rows),
			AvgRating:      averageRating(g.rows),
			CuisineVariety: cuisineVariety(g.rows),
		})
	}
	return out, nil
}

// Dedup keeps the first record of every (name, city) pair. Without a name
// column there is no restaurant identity to deduplicate on and records are
// returned as is.
func Dedup(records []models.Record, schema models.Schema) []models.Record {
	if !schema.HasName() {
		return records
	}
	type key struct{ name, city string }
	seen := make(map[key]struct{}, len(records))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		k := key{r.Name, r.City}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// groupByCity groups rows by city in order of first appearance. Rows with no
// city are left out.
func groupByCity(records []models.Record) []cityGroup {
	idx := make(map[string]int)
	var groups []cityGroup
	for _, r := range records {
		if r.City == "" {
			continue
		}
		i, ok := idx[r.City]
		if !ok {
			i = len(groups)
			idx[r.City] = i
			groups = append(groups, cityGroup{city: r.City})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	return groups
}

// sample draws SampleCap rows without replacement. Each city gets its own
// source seeded from a.Seed so one city's sample never depends on another.
// Sampled rows keep their input order.
func (a *Aggregator) sample(rows []models.Record) []models.Record {
	if a.SampleCap <= 0 || len(rows) <= a.SampleCap {
		return rows
	}
	rng := rand.New(rand.NewPCG(a.Seed, a.Seed))
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	// partial Fisher-Yates: the first SampleCap slots end up uniformly drawn
	for i := 0; i < a.SampleCap; i++ {
		j := i + rng.IntN(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	picked := perm[:a.SampleCap]
	sort.Ints(picked)

	out := make([]models.Record, 0, a.SampleCap)
	for _, i := range picked {
		out = append(out, rows[i])
	}
	return out
}

func averageRating(rows []models.Record) *float64 {
	var sum float64
	var n int
	for _, r := range rows {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func cuisineVariety(rows []models.Record) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for _, tok := range dataset.SplitCuisines(r.Cuisines) {
			seen[tok] = struct{}{}
		}
	}
	return len(seen)
}
