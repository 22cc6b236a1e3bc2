package database

import (
	"database/sql"
	"fmt"

	"restaurantmap/config"
	"restaurantmap/dataset"
)

// OpenSource returns the dataset source selected by cfg.Source and a close
// func for whatever it holds open.
func OpenSource(cfg config.Config) (dataset.Source, func() error, error) {
	noop := func() error { return nil }
	var (
		db     *sql.DB
		driver string
		err    error
	)
	switch cfg.Source {
	case config.SourceCSV:
		return dataset.CSVSource{Path: cfg.DatasetPath, Encoding: cfg.Encoding}, noop, nil
	case config.SourcePostgres:
		db, err = Connect(cfg.DatabaseURL)
		driver = DriverPostgres
	case config.SourceSQLite:
		db, err = OpenSQLite(cfg.SQLitePath)
		driver = DriverSQLite
	default:
		return nil, noop, fmt.Errorf("unknown DATASET_SOURCE %q", cfg.Source)
	}
	if err != nil {
		return nil, noop, err
	}
	return TableSource{DB: db, Driver: driver, Table: cfg.Table}, db.Close, nil
}
