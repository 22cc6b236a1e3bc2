// Package geoquery answers map viewport requests: it filters the dataset and
// returns either individual markers or grid clusters depending on zoom and
// result size.
package geoquery

import (
	"math"
	"strconv"
	"strings"

	"restaurantmap/models"
)

const (
	// AllValues disables the city or cuisine filter.
	AllValues = "All"

	DefaultZoom = 5

	// MarkerZoom is the zoom from which markers are always returned.
	MarkerZoom = 14
	// MaxMarkers is the largest result still returned as markers at low zoom.
	MaxMarkers = 300
	// MaxExamples caps the example names kept per cluster.
	MaxExamples = 4

	// DefaultName labels markers when the dataset has no name column.
	DefaultName = "Restaurant"
)

// BBox is an inclusive latitude/longitude rectangle.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// ParseBBox parses "minLat,minLon,maxLat,maxLon". Anything else, including
// the wrong number of values or non-numeric parts, yields ok == false.
func ParseBBox(s string) (BBox, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, false
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, false
		}
		v[i] = f
	}
	return BBox{MinLat: v[0], MinLon: v[1], MaxLat: v[2], MaxLon: v[3]}, true
}

// Contains reports whether the point lies inside b, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Params is one map request.
type Params struct {
	BBox    string
	Zoom    int
	City    string
	Cuisine string
}

// Response holds either Markers or Clusters; exactly one is non-nil.
type Response struct {
	Markers  []models.Marker
	Clusters []models.Cluster
}

// IsClustered reports whether the result was grid clustered.
func (r Response) IsClustered() bool { return r.Clusters != nil }

// Payload returns the slice to serialise.
func (r Response) Payload() any {
	if r.IsClustered() {
		return r.Clusters
	}
	return r.Markers
}

// Len returns the number of markers or clusters.
func (r Response) Len() int {
	if r.IsClustered() {
		return len(r.Clusters)
	}
	return len(r.Markers)
}

// Filter applies the city, cuisine and bbox filters in that order. A filter
// is skipped when its value is "All" or empty, when the field it needs is not
// in the schema, or (for bbox) when the value does not parse.
func Filter(records []models.Record, schema models.Schema, p Params) []models.Record {
	cityOn := p.City != "" && p.City != AllValues && schema.HasCity()
	cuisineOn := p.Cuisine != "" && p.Cuisine != AllValues && schema.HasCuisines()
	box, boxOn := ParseBBox(p.BBox)
	needle := strings.ToLower(p.Cuisine)

	out := make([]models.Record, 0)
	for _, r := range records {
		if cityOn && r.City != p.City {
			continue
		}
		if cuisineOn && !strings.Contains(strings.ToLower(r.Cuisines), needle) {
			continue
		}
		if boxOn && !box.Contains(r.Latitude, r.Longitude) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Query filters records and shapes the result for the map. At zoom 14 and
// above, or when at most 300 records match, every record becomes a marker;
// otherwise records are grid clustered.
func Query(records []models.Record, schema models.Schema, p Params) Response {
	filtered := Filter(records, schema, p)
	if p.Zoom >= MarkerZoom || len(filtered) <= MaxMarkers {
		return Response{Markers: Markers(filtered, schema)}
	}
	return Response{Clusters: Cluster(filtered, schema, CellSize(p.Zoom))}
}

// Markers converts records to map markers.
func Markers(records []models.Record, schema models.Schema) []models.Marker {
	out := make([]models.Marker, 0, len(records))
	for _, r := range records {
		m := models.Marker{
			Name:    displayName(r, schema),
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Cuisine: r.Cuisines,
			City:    r.City,
			Color:   MarkerColor(r, schema),
		}
		if schema.HasRating() && r.Rating != nil {
			m.Rating = *r.Rating
		}
		out = append(out, m)
	}
	return out
}

// CellSize returns the grid cell edge in degrees for a zoom level.
func CellSize(zoom int) float64 {
	switch {
	case zoom <= 4:
		return 4
	case zoom <= 6:
		return 2
	case zoom <= 8:
		return 1
	default:
		return 0.4
	}
}

type cellKey struct {
	lat, lon int64
}

type gridCell struct {
	count    int
	sumLat   float64
	sumLon   float64
	examples []string
}

// Cluster buckets records into cells of cellSize degrees keyed by
// (floor(lat/cellSize), floor(lon/cellSize)) and returns one cluster per
// non-empty cell, positioned at the mean of its points. Clusters come out in
// the order their cells were first seen.
func Cluster(records []models.Record, schema models.Schema, cellSize float64) []models.Cluster {
	cells := make(map[cellKey]*gridCell)
	var order []cellKey
	for _, r := range records {
		k := cellKey{
			lat: int64(math.Floor(r.Latitude / cellSize)),
			lon: int64(math.Floor(r.Longitude / cellSize)),
		}
		c, ok := cells[k]
		if !ok {
			c = &gridCell{examples: make([]string, 0, MaxExamples)}
			cells[k] = c
			order = append(order, k)
		}
		c.count++
		c.sumLat += r.Latitude
		c.sumLon += r.Longitude
		if len(c.examples) < MaxExamples {
			c.examples = append(c.examples, displayName(r, schema))
		}
	}

	out := make([]models.Cluster, 0, len(order))
	for _, k := range order {
		c := cells[k]
		out = append(out, models.Cluster{
			IsCluster: true,
			Lat:       c.sumLat / float64(c.count),
			Lon:       c.sumLon / float64(c.count),
			Count:     c.count,
			Examples:  c.examples,
		})
	}
	return out
}

func displayName(r models.Record, schema models.Schema) string {
	if !schema.HasName() {
		return DefaultName
	}
	return r.Name
}
