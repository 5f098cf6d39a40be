package dataset

import (
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

// Column is one typed column of a Table. Numeric columns fill Numbers with
// NaN marking a missing value; categorical columns fill Strings and Null.
type Column struct {
	Name    string
	Kind    schema.Kind
	Numbers []float64
	Strings []string
	Null    []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == schema.Numeric {
		return len(c.Numbers)
	}
	return len(c.Strings)
}

// IsNull reports whether row i holds a missing value.
func (c *Column) IsNull(i int) bool {
	if c.Kind == schema.Numeric {
		return math.IsNaN(c.Numbers[i])
	}
	return c.Null[i]
}

// Format renders row i for display. Missing values render as "NaN".
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		return "NaN"
	}
	if c.Kind == schema.Numeric {
		return strconv.FormatFloat(c.Numbers[i], 'f', -1, 64)
	}
	return c.Strings[i]
}

// Table is the loaded dataset. It is never mutated after construction and is
// safe to share between requests.
type Table struct {
	Source  string
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable assembles a Table, checking that every column has the same length.
func NewTable(source string, cols []*Column) (*Table, error) {
	t := &Table{Source: source, columns: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.Errorf("duplicate column %q", c.Name)
		}
		if c.Kind == schema.Categorical && len(c.Null) != len(c.Strings) {
			return nil, errors.Errorf("column %q: null mask length mismatch", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = i
	}
	return t, nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Columns returns the columns in file order.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NamesOfKind returns the names of the columns with kind k, in file order.
func (t *Table) NamesOfKind(k schema.Kind) []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind == k {
			names = append(names, c.Name)
		}
	}
	return names
}

// All returns a view over every row.
func (t *Table) All() View {
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, idx: idx}
}

// SubView returns a view over the given row indices. The indices must be
// ascending so the view keeps dataset order.
func (t *Table) SubView(idx []int) View {
	return View{table: t, idx: idx}
}
