package schema

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// NullValues are the cell strings treated as missing, matching the usual
// spreadsheet/pandas conventions.
var NullValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "<NA>"}

// Discover builds a Descriptor from raw records (header row first).
// It is the one-off bootstrap used by the -discover CLI mode; the server
// always runs from an explicit descriptor.
//
// A column is numeric when every non-null value parses as a number, and
// categorical otherwise. Columns holding only nulls are numeric.
func Discover(records [][]string, source string) (*Descriptor, error) {
	if len(records) == 0 {
		return nil, errors.New("schema: no header row")
	}
	if len(records) == 1 {
		return nil, errors.New("schema: no data rows")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	normalized := append([][]string{headers}, records[1:]...)

	df := dataframe.LoadRecords(normalized,
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NullValues),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "discover column types")
	}

	d := &Descriptor{
		Name:           "Auto-discovered Dataset",
		DiscoveredFrom: source,
	}
	types := df.Types()
	for i, name := range df.Names() {
		kind := Categorical
		switch types[i] {
		case series.Int, series.Float:
			kind = Numeric
		default:
			if allNull(df.Col(name)) {
				kind = Numeric
			}
		}
		d.Columns = append(d.Columns, Column{Name: name, Kind: kind})
	}
	d.applyDefaults()
	return d, nil
}

func allNull(s series.Series) bool {
	for _, isNaN := range s.IsNaN() {
		if !isNaN {
			return false
		}
	}
	return true
}
