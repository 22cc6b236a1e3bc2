package stats

import (
	"sync"

	"restaurantmap/dataset"
	"restaurantmap/models"
	"restaurantmap/textfix"
)

// CityGroups is the India/Global pair of city statistics.
type CityGroups struct {
	India  []models.CityStat `json:"india"`
	Global []models.CityStat `json:"global"`
}

// Normalize returns a copy of records with city and cuisines text repaired.
// The input slice is not modified.
func Normalize(records []models.Record, schema models.Schema) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	for i := range out {
		if schema.HasCity() {
			out[i].City = textfix.Normalize(out[i].City)
		}
		if schema.HasCuisines() {
			out[i].Cuisines = textfix.Normalize(out[i].Cuisines)
		}
	}
	return out
}

// ComputeCityGroups runs the whole pipeline on ds: text repair, dedup, the
// India/Global split, then aggregation of each region. Both regions are
// aggregated concurrently; they share no state.
func (a *Aggregator) ComputeCityGroups(ds *dataset.Dataset) (CityGroups, error) {
	if !ds.Schema.HasCity() {
		return CityGroups{}, ErrNoCityColumn
	}
	records := Dedup(Normalize(ds.Records, ds.Schema), ds.Schema)
	india, global := Classify(records, ds.Schema)

	var (
		wg      sync.WaitGroup
		res     CityGroups
		errs    [2]error
		regions = [2][]models.Record{india, global}
		outs    = [2]*[]models.CityStat{&res.India, &res.Global}
	)
	for i := range regions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			*outs[i], errs[i] = a.Aggregate(regions[i], ds.Schema)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return CityGroups{}, err
		}
	}
	return res, nil
}
