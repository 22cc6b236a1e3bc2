// Package dataset turns a restaurant table with unpredictable column names into
// typed records. Nothing downstream of this package looks at raw column names.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"restaurantmap/models"
)

// Dataset is the immutable, schema-resolved restaurant table.
type Dataset struct {
	Records []models.Record
	Schema  models.Schema

	// Dropped counts rows discarded for missing or unparseable coordinates.
	Dropped int
}

// Source produces a fresh Dataset on every Load.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Dataset, error)
}

// Cells that count as missing, mirroring what spreadsheet exports emit.
var nanValues = []string{"", "NA", "NaN", "nan", "<nil>", "NULL", "null"}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	}
}

// ReadCSV parses CSV text with every column kept as a string.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, loadOptions()...)
	if df.Err != nil {
		return df, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// FromRecords builds a Dataset from a header and string rows, the shape SQL
// sources produce.
func FromRecords(header []string, rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		schema, err := ResolveHeader(header)
		if err != nil {
			return nil, err
		}
		return &Dataset{Schema: schema, Records: []models.Record{}}, nil
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return FromFrame(df)
}

// FromFrame resolves the schema of df and converts every row with usable
// coordinates into a Record. Ratings and country codes that fail to parse are
// treated as missing.
func FromFrame(df dataframe.DataFrame) (*Dataset, error) {
	schema, err := ResolveSchema(df)
	if err != nil {
		return nil, err
	}

	lat := column(df, schema.Latitude)
	lon := column(df, schema.Longitude)
	name := column(df, schema.Name)
	city := column(df, schema.City)
	cuisines := column(df, schema.Cuisines)
	rating := column(df, schema.Rating)
	country := column(df, schema.CountryCode)

	ds := &Dataset{Schema: schema, Records: make([]models.Record, 0, df.Nrow())}
	for i := 0; i < df.Nrow(); i++ {
		la, ok1 := parseFloat(lat.at(i))
		lo, ok2 := parseFloat(lon.at(i))
		if !ok1 || !ok2 {
			ds.Dropped++
			continue
		}
		rec := models.Record{
			Name:       name.at(i),
			City:       city.at(i),
			Cuisines:   cuisines.at(i),
			RatingText: rating.at(i),
			Latitude:   la,
			Longitude:  lo,
		}
		if v, ok := parseFloat(rec.RatingText); ok {
			rec.Rating = &v
		}
		if v, ok := parseFloat(country.at(i)); ok && v == math.Trunc(v) {
			code := int(v)
			rec.CountryCode = &code
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// Cities returns the distinct non-empty city values, sorted.
func (d *Dataset) Cities() []string {
	if !d.Schema.HasCity() {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		if r.City != "" {
			seen[r.City] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Cuisines returns the distinct trimmed tokens of the comma-separated cuisines
// field, sorted.
func (d *Dataset) Cuisines() []string {
	if !d.Schema.HasCuisines() {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		for _, tok := range SplitCuisines(r.Cuisines) {
			seen[tok] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// SplitCuisines splits a cuisines cell on commas, trimming each token and
// dropping empty ones. Duplicates are kept.
func SplitCuisines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Decode wraps r so that it yields UTF-8. enc is one of auto, utf-8, latin1 or
// windows-1252; auto keeps valid UTF-8 as is and reads anything else as
// Windows-1252.
func Decode(r io.Reader, enc string) (io.Reader, error) {
	switch strings.ToLower(enc) {
	case "", "auto":
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if utf8.Valid(b) {
			return stripBOM(bytes.NewReader(b)), nil
		}
		return charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(b)), nil
	case "utf-8", "utf8":
		return stripBOM(r), nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported dataset encoding %q", enc)
	}
}

// stripBOM drops a leading UTF-8 byte order mark, which spreadsheet exports
// glue onto the first header name.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// LoadCSV reads a whole CSV table into a Dataset. A table with a header and no
// rows yields an empty Dataset rather than an error.
func LoadCSV(r io.Reader) (*Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if header, ok := headerOnly(b); ok {
		return FromRecords(header, nil)
	}
	df, err := ReadCSV(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return FromFrame(df)
}

// headerOnly returns the header when b holds exactly one CSV record.
func headerOnly(b []byte) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, false
	}
	if _, err := cr.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}

// CSVSource loads the dataset from a CSV file on disk.
type CSVSource struct {
	Path     string
	Encoding string
}

func (s CSVSource) Name() string { return "csv:" + s.Path }

func (s CSVSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r, err := Decode(f, s.Encoding)
	if err != nil {
		return nil, err
	}
	return LoadCSV(r)
}

// cells is one resolved column; a nil receiver stands for an absent column.
type cells struct {
	values []string
}

func column(df dataframe.DataFrame, name string) *cells {
	if name == "" {
		return nil
	}
	col := df.Col(name)
	c := &cells{values: make([]string, col.Len())}
	for i := range c.values {
		e := col.Elem(i)
		if !e.IsNA() {
			c.values[i] = e.String()
		}
	}
	return c
}

func (c *cells) at(i int) string {
	if c == nil || i >= len(c.values) {
		return ""
	}
	return c.values[i]
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
