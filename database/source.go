package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"restaurantmap/dataset"
)

// TableSource loads a whole table as a dataset. Column names go through the
// same resolver as CSV headers, so any table shaped like the CSV export works.
type TableSource struct {
	DB     *sql.DB
	Driver string
	Table  string
}

func (s TableSource) Name() string { return s.Driver + ":" + s.Table }

func (s TableSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	// QuoteIdentifier's double quotes are valid in SQLite too.
	query := "SELECT * FROM " + pq.QuoteIdentifier(s.Table)
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", s.Table, err)
	}

	var data [][]string
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Table, err)
	}

	return dataset.FromRecords(header, data)
}
