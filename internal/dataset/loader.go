package dataset

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

// LoadError reports a dataset that could not be read or is unusable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads the dataset once and hands the same Table to every caller.
type Loader struct {
	fsys   fs.FS
	path   string
	schema schema.Descriptor
	logger *slog.Logger

	once  sync.Once
	table *Table
	err   error
}

// NewLoader returns a Loader for path inside fsys.
func NewLoader(fsys fs.FS, path string, sch schema.Descriptor) *Loader {
	return &Loader{fsys: fsys, path: path, schema: sch, logger: slog.Default()}
}

// Load returns the cached Table, reading the file on first use. A failed
// read is cached as well; the error is a *LoadError.
func (l *Loader) Load() (*Table, error) {
	l.once.Do(func() {
		l.table, l.err = l.read()
		if l.err != nil {
			l.err = &LoadError{Path: l.path, Err: l.err}
		}
	})
	return l.table, l.err
}

func (l *Loader) read() (*Table, error) {
	records, err := ReadRecords(l.fsys, l.path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("no data rows")
	}

	headers := make(map[string]bool, len(records[0]))
	for _, h := range records[0] {
		headers[h] = true
	}
	for _, role := range []string{l.schema.ContinentColumn, l.schema.CategoryColumn, l.schema.Target} {
		if !headers[role] {
			return nil, errors.Errorf("required column %q missing", role)
		}
	}

	types := make(map[string]series.Type, len(l.schema.Columns))
	for _, c := range l.schema.Columns {
		if !headers[c.Name] {
			l.logger.Warn("schema column not in dataset", "column", c.Name, "path", l.path)
			continue
		}
		if c.Kind == schema.Numeric {
			types[c.Name] = series.Float
		} else {
			types[c.Name] = series.String
		}
	}

	df := dataframe.LoadRecords(records,
		dataframe.WithTypes(types),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(schema.NullValues),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "build dataframe")
	}

	var cols []*Column
	for _, name := range df.Names() {
		kind, ok := l.schema.KindOf(name)
		if !ok {
			l.logger.Warn("skipping column not in schema", "column", name, "path", l.path)
			continue
		}
		cols = append(cols, fromSeries(name, kind, df.Col(name)))
	}

	t, err := NewTable(l.path, cols)
	if err != nil {
		return nil, err
	}
	l.logger.Info("dataset loaded", "path", l.path, "rows", t.Rows(), "columns", len(cols))
	return t, nil
}

func fromSeries(name string, kind schema.Kind, s series.Series) *Column {
	c := &Column{Name: name, Kind: kind}
	if kind == schema.Numeric {
		// Cells such as "inf" parse as infinities; they count as missing.
		c.Numbers = s.Float()
		for i, v := range c.Numbers {
			if math.IsInf(v, 0) {
				c.Numbers[i] = math.NaN()
			}
		}
		return c
	}
	c.Null = s.IsNaN()
	c.Strings = s.Records()
	for i, null := range c.Null {
		if null {
			c.Strings[i] = ""
		}
	}
	return c
}
