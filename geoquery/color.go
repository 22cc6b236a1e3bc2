package geoquery

import (
	"strconv"
	"strings"

	"restaurantmap/models"
)

const (
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorRed    = "red"
	ColorGray   = "gray"
)

// RatingColor maps a raw rating value to a marker color. A value that does
// not parse as a number is gray.
func RatingColor(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return ColorGray
	}
	return colorFor(v)
}

// MarkerColor is the color of r's marker. Gray only happens when the dataset
// has no rating column at all; a row whose rating is missing or not numeric
// is red.
func MarkerColor(r models.Record, schema models.Schema) string {
	if !schema.HasRating() {
		return ColorGray
	}
	if r.Rating == nil {
		return ColorRed
	}
	return colorFor(*r.Rating)
}

func colorFor(v float64) string {
	switch {
	case v >= 4.5:
		return ColorGreen
	case v >= 3.5:
		return ColorOrange
	default:
		return ColorRed
	}
}
