package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"restaurantmap/models"
)

// Candidate column names per logical field, in priority order. Exports from
// different tools disagree on casing and separators.
var (
	NameColumns        = []string{"Restaurant Name", "Restaurant_Name", "Name", "restaurant_name"}
	CityColumns        = []string{"City", "city", "CITY"}
	CuisineColumns     = []string{"Cuisines", "Cuisine", "cuisines", "cuisine"}
	RatingColumns      = []string{"Aggregate rating", "Aggregate_rating", "Rating", "rating"}
	CountryCodeColumns = []string{"Country Code", "Country_Code", "country_code"}
	LatitudeColumns    = []string{"Latitude", "latitude", "LATITUDE", "Lat"}
	LongitudeColumns   = []string{"Longitude", "longitude", "LONGITUDE", "Lon"}
)

// SchemaError reports a mandatory field that none of the candidate columns
// provide. It is fatal at startup.
type SchemaError struct {
	Field      string
	Candidates []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset must contain a %s column (tried %s)", e.Field, strings.Join(e.Candidates, ", "))
}

// ResolveColumn returns the first candidate present in the frame's header.
func ResolveColumn(df dataframe.DataFrame, candidates ...string) (string, bool) {
	return resolveName(df.Names(), candidates)
}

// ResolveSchema maps every logical field to a concrete column. Latitude and
// longitude are mandatory; all other fields may be absent.
func ResolveSchema(df dataframe.DataFrame) (models.Schema, error) {
	return ResolveHeader(df.Names())
}

// ResolveHeader is ResolveSchema over a bare list of column names.
func ResolveHeader(names []string) (models.Schema, error) {
	var s models.Schema
	var ok bool
	if s.Latitude, ok = resolveName(names, LatitudeColumns); !ok {
		return s, &SchemaError{Field: "latitude", Candidates: LatitudeColumns}
	}
	if s.Longitude, ok = resolveName(names, LongitudeColumns); !ok {
		return s, &SchemaError{Field: "longitude", Candidates: LongitudeColumns}
	}
	s.Name, _ = resolveName(names, NameColumns)
	s.City, _ = resolveName(names, CityColumns)
	s.Cuisines, _ = resolveName(names, CuisineColumns)
	s.Rating, _ = resolveName(names, RatingColumns)
	s.CountryCode, _ = resolveName(names, CountryCodeColumns)
	return s, nil
}

func resolveName(names, candidates []string) (string, bool) {
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	for _, c := range candidates {
		if _, ok := present[c]; ok {
			return c, true
		}
	}
	return "", false
}
