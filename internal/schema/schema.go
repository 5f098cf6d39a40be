package schema

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ============================================================================
// SCHEMA: Explicit column classification for the dashboard dataset
// ============================================================================
// Column kinds are configuration, not runtime reflection. The loader, the
// filter engine, the page builders and the feature analyzer all read the same
// Descriptor, which is loaded once at startup and injected.
// ============================================================================

// Kind classifies a column as numeric or categorical.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Default column names of the education & economic growth dataset.
const (
	DefaultTarget          = "GDP Growth (% Annual)"
	DefaultContinentColumn = "Continent"
	DefaultCategoryColumn  = "GDP per Capita Category"
)

// ErrInvalid is returned when a descriptor is unusable.
var ErrInvalid = errors.New("schema: invalid descriptor")

// Column is one named, classified column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Descriptor describes the dataset: its columns in file order and the roles
// of the target, continent and GDP-category columns.
type Descriptor struct {
	Name            string   `json:"name"`
	Target          string   `json:"target"`
	ContinentColumn string   `json:"continentColumn"`
	CategoryColumn  string   `json:"categoryColumn"`
	Columns         []Column `json:"columns"`

	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
}

// Load reads a JSON descriptor from disk.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read schema %s", path)
	}
	return Parse(data)
}

// Parse decodes a JSON descriptor, fills role defaults and validates it.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode schema")
	}
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) applyDefaults() {
	if d.Target == "" {
		d.Target = DefaultTarget
	}
	if d.ContinentColumn == "" {
		d.ContinentColumn = DefaultContinentColumn
	}
	if d.CategoryColumn == "" {
		d.CategoryColumn = DefaultCategoryColumn
	}
}

// Validate checks kinds, duplicate names and the three role columns.
func (d Descriptor) Validate() error {
	if len(d.Columns) == 0 {
		return errors.Wrap(ErrInvalid, "no columns")
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if c.Name == "" {
			return errors.Wrap(ErrInvalid, "column with empty name")
		}
		if c.Kind != Numeric && c.Kind != Categorical {
			return errors.Wrapf(ErrInvalid, "column %q has unknown kind %q", c.Name, c.Kind)
		}
		if seen[c.Name] {
			return errors.Wrapf(ErrInvalid, "duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}

	roles := []struct {
		name string
		kind Kind
	}{
		{d.ContinentColumn, Categorical},
		{d.CategoryColumn, Categorical},
		{d.Target, Numeric},
	}
	for _, r := range roles {
		k, ok := d.KindOf(r.name)
		if !ok {
			return errors.Wrapf(ErrInvalid, "required column %q missing", r.name)
		}
		if k != r.kind {
			return errors.Wrapf(ErrInvalid, "column %q must be %s, got %s", r.name, r.kind, k)
		}
	}
	return nil
}

// KindOf returns the kind of the named column.
func (d Descriptor) KindOf(name string) (Kind, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return "", false
}

// Names returns all column names in descriptor order.
func (d Descriptor) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns numeric column names in descriptor order.
func (d Descriptor) NumericColumns() []string {
	return d.namesOfKind(Numeric)
}

// CategoricalColumns returns categorical column names in descriptor order.
func (d Descriptor) CategoricalColumns() []string {
	return d.namesOfKind(Categorical)
}

func (d Descriptor) namesOfKind(k Kind) []string {
	var out []string
	for _, c := range d.Columns {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}
