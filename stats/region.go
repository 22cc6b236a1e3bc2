package stats

import (
	"github.com/golang/geo/s2"

	"restaurantmap/models"
)

// IndiaCountryCode is India's code in the restaurant dataset's country table.
const IndiaCountryCode = 1

// indiaBox approximates India's territory: latitude [6, 38], longitude [68, 98],
// boundaries included.
var indiaBox = s2.RectFromLatLng(s2.LatLngFromDegrees(6, 68)).
	AddPoint(s2.LatLngFromDegrees(38, 98))

// InIndia reports whether r belongs to the India region. The test is a
// permissive OR: a matching country code or a point inside the India box is
// enough, so a row with a foreign or missing code can still land in India.
func InIndia(r models.Record, schema models.Schema) bool {
	if schema.HasCountryCode() && r.CountryCode != nil && *r.CountryCode == IndiaCountryCode {
		return true
	}
	return indiaBox.ContainsLatLng(s2.LatLngFromDegrees(r.Latitude, r.Longitude))
}

// Classify partitions records into India and Global. Every record lands in
// exactly one output and input order is kept in both.
func Classify(records []models.Record, schema models.Schema) (india, global []models.Record) {
	india = make([]models.Record, 0)
	global = make([]models.Record, 0)
	for _, r := range records {
		if InIndia(r, schema) {
			india = append(india, r)
		} else {
			global = append(global, r)
		}
	}
	return india, global
}
