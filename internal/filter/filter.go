package filter

import (
	"net/url"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

// Form field names used by the sidebar.
const (
	FieldContinent = "continent"
	FieldCategory  = "gdp"
	FieldMarker    = "filtered"
)

// Missing is the option value standing for an empty filter cell.
const Missing = "(missing)"

// Selection holds the allowed values per filter dimension. A nil slice
// allows every value; an empty non-nil slice allows none.
type Selection struct {
	Continents []string `json:"continents"`
	Categories []string `json:"categories"`
}

// Options lists the distinct observed values per dimension in
// first-appearance order. Empty cells appear once as Missing.
type Options struct {
	Continents []string `json:"continents"`
	Categories []string `json:"categories"`
}

// Engine filters a table on its continent and GDP-category columns.
type Engine struct {
	continent string
	category  string
}

// NewEngine returns an Engine for the role columns named in sch.
func NewEngine(sch schema.Descriptor) *Engine {
	return &Engine{continent: sch.ContinentColumn, category: sch.CategoryColumn}
}

// Apply returns the rows whose continent and category are both allowed, in
// dataset order. Matching is exact; a null value matches only Missing.
func (e *Engine) Apply(t *dataset.Table, sel Selection) dataset.View {
	all := t.All()
	if sel.Continents == nil && sel.Categories == nil {
		return all
	}

	cont, _ := t.Column(e.continent)
	cat, _ := t.Column(e.category)
	contSet := toSet(sel.Continents)
	catSet := toSet(sel.Categories)

	indices := make([]int, 0, t.Rows())
	for _, i := range all.Indices() {
		if !allowed(cont, i, contSet) || !allowed(cat, i, catSet) {
			continue
		}
		indices = append(indices, i)
	}
	return t.SubView(indices)
}

// Options returns the values offered by the sidebar multiselects.
func (e *Engine) Options(t *dataset.Table) Options {
	return Options{
		Continents: distinct(t, e.continent),
		Categories: distinct(t, e.category),
	}
}

// FromValues builds a Selection from submitted form values. Without the
// filtered marker the request is a first visit and everything is allowed;
// with it, a missing field means the user cleared that multiselect.
func FromValues(values url.Values) Selection {
	if values.Get(FieldMarker) != "1" {
		return Selection{}
	}
	return Selection{
		Continents: append([]string{}, values[FieldContinent]...),
		Categories: append([]string{}, values[FieldCategory]...),
	}
}

// Resolve replaces nil sets with the full option lists so a template can
// mark every option as selected.
func (s Selection) Resolve(opts Options) Selection {
	if s.Continents == nil {
		s.Continents = opts.Continents
	}
	if s.Categories == nil {
		s.Categories = opts.Categories
	}
	return s
}

// Query encodes the selection for links and forms. A selection with
// exactly one nil dimension is resolved against opts first, since Values
// cannot express that mix.
func (s Selection) Query(opts Options) url.Values {
	if (s.Continents == nil) != (s.Categories == nil) {
		s = s.Resolve(opts)
	}
	return s.Values()
}

// Values encodes the selection as query parameters, the inverse of
// FromValues. A nil dimension survives the round trip only when both are
// nil; use Query for a mixed selection.
func (s Selection) Values() url.Values {
	v := url.Values{}
	if s.Continents == nil && s.Categories == nil {
		return v
	}
	v.Set(FieldMarker, "1")
	for _, c := range s.Continents {
		v.Add(FieldContinent, c)
	}
	for _, c := range s.Categories {
		v.Add(FieldCategory, c)
	}
	return v
}

func toSet(items []string) map[string]bool {
	if items == nil {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func allowed(c *dataset.Column, row int, set map[string]bool) bool {
	if set == nil {
		return true
	}
	if c == nil {
		return false
	}
	if c.IsNull(row) {
		return set[Missing]
	}
	return set[c.Strings[row]]
}

func distinct(t *dataset.Table, name string) []string {
	c, ok := t.Column(name)
	if !ok || c.Kind != schema.Categorical {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i, v := range c.Strings {
		if c.Null[i] {
			v = Missing
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
