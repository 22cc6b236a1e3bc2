package stats

import (
	"sort"

	"restaurantmap/models"
)

const chartTopN = 20

type chartDef struct {
	name   string
	region models.Region
	metric func(models.CityStat) (float64, bool)
	color  string
	title  string
}

func restaurants(s models.CityStat) (float64, bool) { return float64(s.NumRestaurants), true }
func cuisines(s models.CityStat) (float64, bool)    { return float64(s.CuisineVariety), true }
func ratings(s models.CityStat) (float64, bool) {
	if s.AvgRating == nil {
		return 0, false
	}
	return *s.AvgRating, true
}

var chartDefs = []chartDef{
	{"india_restaurants", models.RegionIndia, restaurants, "rgba(44,123,229,0.95)", "India: Number of Restaurants"},
	{"india_ratings", models.RegionIndia, ratings, "rgba(27,158,119,0.95)", "India: Average Rating"},
	{"india_cuisines", models.RegionIndia, cuisines, "rgba(255,127,14,0.95)", "India: Cuisine Variety"},
	{"global_restaurants", models.RegionGlobal, restaurants, "rgba(88,80,180,0.95)", "Global: Number of Restaurants"},
	{"global_ratings", models.RegionGlobal, ratings, "rgba(0,180,120,0.95)", "Global: Average Rating"},
	{"global_cuisines", models.RegionGlobal, cuisines, "rgba(255,80,60,0.95)", "Global: Cuisine Variety"},
}

// Charts builds the six bar series: India and Global, each by restaurant
// count, average rating and cuisine variety. Every series is sorted by its
// metric, highest first, and holds at most 20 cities. Cities without a valid
// average rating are left out of the rating series.
func Charts(g CityGroups) map[string]models.ChartSeries {
	charts := make(map[string]models.ChartSeries, len(chartDefs))
	for _, d := range chartDefs {
		src := g.Global
		if d.region == models.RegionIndia {
			src = g.India
		}
		charts[d.name] = buildSeries(src, d)
	}
	return charts
}

func buildSeries(src []models.CityStat, d chartDef) models.ChartSeries {
	type point struct {
		label string
		value float64
	}
	points := make([]point, 0, len(src))
	for _, s := range src {
		if v, ok := d.metric(s); ok {
			points = append(points, point{s.City, v})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].value > points[j].value })
	if len(points) > chartTopN {
		points = points[:chartTopN]
	}

	series := models.ChartSeries{
		Title: d.title,
		Color: d.color,
		X:     make([]string, 0, len(points)),
		Y:     make([]float64, 0, len(points)),
	}
	for _, p := range points {
		series.X = append(series.X, p.label)
		series.Y = append(series.Y, p.value)
	}
	return series
}
