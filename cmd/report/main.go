package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"

	"restaurantmap/config"
	"restaurantmap/database"
	"restaurantmap/logger"
	"restaurantmap/models"
	"restaurantmap/stats"
)

var (
	colorAccent = lipgloss.Color("#8FA082")
	colorMuted  = lipgloss.Color("#7E8C80")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(1, 1, 0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// noRating marks a city none of whose rows has a numeric rating.
const noRating = "—"

func main() {
	_ = godotenv.Load()
	log := logger.Setup()
	cfg := config.FromEnv()

	flag.StringVar(&cfg.DatasetPath, "path", cfg.DatasetPath, "CSV dataset path")
	// The exported CSV is latin1 unless configured otherwise.
	encoding := "latin1"
	if os.Getenv("DATASET_ENCODING") != "" {
		encoding = cfg.Encoding
	}
	flag.StringVar(&cfg.Encoding, "encoding", encoding, "CSV encoding: auto, utf-8, latin1 or windows-1252")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "dataset source: csv, postgres or sqlite")
	flag.Parse()

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Error("report_failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, w io.Writer) error {
	src, closeSource, err := database.OpenSource(cfg)
	if err != nil {
		return fmt.Errorf("dataset source: %w", err)
	}
	defer closeSource()

	fmt.Fprintln(w, "Loading dataset...")
	ds, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}

	fmt.Fprintln(w, "Computing statistics (India + Global)...")
	groups, err := stats.NewAggregator().ComputeCityGroups(ds)
	if err != nil {
		return err
	}

	printGroups(w, groups)
	return nil
}

func printGroups(w io.Writer, g stats.CityGroups) {
	fmt.Fprintln(w, titleStyle.Render("INDIA STATS"))
	fmt.Fprintln(w, renderTable(g.India))
	fmt.Fprintln(w, titleStyle.Render("GLOBAL STATS"))
	fmt.Fprintln(w, renderTable(g.Global))
}

func renderTable(rows []models.CityStat) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("City", "Num_Restaurants", "Avg_Rating", "Cuisine_Variety").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range rows {
		t.Row(s.City, strconv.Itoa(s.NumRestaurants), formatRating(s.AvgRating), strconv.Itoa(s.CuisineVariety))
	}
	return t.String()
}

func formatRating(v *float64) string {
	if v == nil {
		return noRating
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
