package dataset

import "github.com/Arif-miad/education-economic-dashboard/internal/schema"

// View is a zero-copy row selection over a Table.
type View struct {
	table *Table
	idx   []int
}

// Table returns the underlying table.
func (v View) Table() *Table { return v.table }

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v.idx) }

// Indices returns the table row indices of the view, in dataset order.
func (v View) Indices() []int { return v.idx }

// Head returns the first n rows of the view.
func (v View) Head(n int) View {
	if n > len(v.idx) {
		n = len(v.idx)
	}
	return View{table: v.table, idx: v.idx[:n]}
}

// Floats gathers a numeric column over the view. ok is false when the column
// is absent or categorical.
func (v View) Floats(name string) (vals []float64, ok bool) {
	c, found := v.column(name)
	if !found || c.Kind != schema.Numeric {
		return nil, false
	}
	out := make([]float64, len(v.idx))
	for i, r := range v.idx {
		out[i] = c.Numbers[r]
	}
	return out, true
}

// Strings gathers a categorical column over the view with its null mask.
func (v View) Strings(name string) (vals []string, null []bool, ok bool) {
	c, found := v.column(name)
	if !found || c.Kind != schema.Categorical {
		return nil, nil, false
	}
	vals = make([]string, len(v.idx))
	null = make([]bool, len(v.idx))
	for i, r := range v.idx {
		vals[i] = c.Strings[r]
		null[i] = c.Null[r]
	}
	return vals, null, true
}

// Records renders the view as display strings, one slice per row, in column
// order.
func (v View) Records() [][]string {
	if v.table == nil {
		return nil
	}
	cols := v.table.Columns()
	out := make([][]string, len(v.idx))
	for i, r := range v.idx {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c.Format(r)
		}
		out[i] = row
	}
	return out
}

func (v View) column(name string) (*Column, bool) {
	if v.table == nil {
		return nil, false
	}
	return v.table.Column(name)
}
