package models

// Record is one restaurant row after schema resolution. Latitude and Longitude
// are always set; rows without usable coordinates never make it this far.
type Record struct {
	Name     string
	City     string
	Cuisines string

	// Rating is nil when the cell is empty or not numeric. RatingText keeps the
	// raw cell so callers can tell "missing" from "column absent".
	Rating     *float64
	RatingText string

	CountryCode *int

	Latitude  float64
	Longitude float64
}

// Schema records which logical fields were resolved from the source columns,
// and the column each one came from.
type Schema struct {
	Name        string `json:"name,omitempty"`
	City        string `json:"city,omitempty"`
	Cuisines    string `json:"cuisines,omitempty"`
	Rating      string `json:"rating,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

func (s Schema) HasName() bool        { return s.Name != "" }
func (s Schema) HasCity() bool        { return s.City != "" }
func (s Schema) HasCuisines() bool    { return s.Cuisines != "" }
func (s Schema) HasRating() bool      { return s.Rating != "" }
func (s Schema) HasCountryCode() bool { return s.CountryCode != "" }

// Region is the India/Global partition used by the city statistics.
type Region string

const (
	RegionIndia  Region = "india"
	RegionGlobal Region = "global"
)

// CityStat holds the aggregate metrics of one city within a region.
// AvgRating is nil when none of the city's rows carry a numeric rating.
type CityStat struct {
	City           string   `json:"city"`
	NumRestaurants int      `json:"num_restaurants"`
	AvgRating      *float64 `json:"avg_rating"`
	CuisineVariety int      `json:"cuisine_variety"`
}

// Marker is a single restaurant on the map.
type Marker struct {
	IsCluster bool    `json:"is_cluster"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Rating    float64 `json:"rating"`
	Cuisine   string  `json:"cuisine"`
	City      string  `json:"city"`
	Color     string  `json:"color"`
}

// Cluster is a grid cell aggregate returned at low zoom levels.
type Cluster struct {
	IsCluster bool     `json:"is_cluster"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Count     int      `json:"count"`
	Examples  []string `json:"examples"`
}

// ChartSeries is one bar chart: city labels on X, metric values on Y.
type ChartSeries struct {
	Title string    `json:"title"`
	Color string    `json:"color"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
}
