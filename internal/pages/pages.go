package pages

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/analysis"
	"github.com/Arif-miad/education-economic-dashboard/internal/charts"
	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
	"github.com/Arif-miad/education-economic-dashboard/internal/stats"
)

// Placeholder replaces the charts of a section when the view is empty.
const Placeholder = "No rows match the current filters."

// HeadRows is the number of rows previewed on the Home page.
const HeadRows = 10

// Section is a titled group of charts on a page.
type Section struct {
	Title       string        `json:"title"`
	Charts      []charts.Spec `json:"charts"`
	Placeholder string        `json:"placeholder,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Overview is the Home page content.
type Overview struct {
	Columns  []string          `json:"columns"`
	Head     [][]string        `json:"head"`
	Shape    [2]int            `json:"shape"`
	Nulls    []stats.NullCount `json:"nulls"`
	Describe []stats.Summary   `json:"describe"`
}

// AboutInfo is the static About page content.
type AboutInfo struct {
	Title       string   `json:"title"`
	Dataset     string   `json:"dataset"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// Result is one rendered page.
type Result struct {
	Page     Page             `json:"page"`
	Slug     string           `json:"slug"`
	Heading  string           `json:"heading"`
	Rows     int              `json:"rows"`
	Overview *Overview        `json:"overview,omitempty"`
	Sections []Section        `json:"sections,omitempty"`
	Analysis *analysis.Report `json:"analysis,omitempty"`
	About    *AboutInfo       `json:"about,omitempty"`
}

// Charts returns every chart of the page in display order.
func (r *Result) Charts() []charts.Spec {
	var out []charts.Spec
	for _, s := range r.Sections {
		out = append(out, s.Charts...)
	}
	return out
}

// Builder renders pages over a filtered view.
type Builder struct {
	schema   schema.Descriptor
	analyzer *analysis.Analyzer
	logger   *slog.Logger
}

// NewBuilder returns a Builder using analyzer for the Feature Analysis page.
func NewBuilder(sch schema.Descriptor, analyzer *analysis.Analyzer) *Builder {
	return &Builder{schema: sch, analyzer: analyzer, logger: slog.Default()}
}

// Build renders page p over view. No page fails on an empty view; model fit
// problems are reported inside the Feature Analysis page.
func (b *Builder) Build(p Page, view dataset.View) (*Result, error) {
	if view.Table() == nil {
		return nil, errors.New("pages: view has no table")
	}
	res := &Result{Page: p, Slug: p.Slug(), Heading: p.Heading(), Rows: view.Len()}
	switch p {
	case Home:
		res.Overview = b.overview(view)
	case Basic:
		res.Sections = b.basic(view)
	case Advanced:
		res.Sections = b.advanced(view)
	case Features:
		res.Sections, res.Analysis = b.features(view)
	case About:
		res.About = aboutInfo()
	default:
		return b.Build(Home, view)
	}
	return res, nil
}

func (b *Builder) overview(view dataset.View) *Overview {
	t := view.Table()
	o := &Overview{
		Columns: t.Names(),
		Head:    view.Head(HeadRows).Records(),
		Shape:   [2]int{view.Len(), len(t.Columns())},
		Nulls:   stats.NullCounts(view),
	}
	for _, name := range t.NamesOfKind(schema.Numeric) {
		vals, _ := view.Floats(name)
		o.Describe = append(o.Describe, stats.Describe(name, vals))
	}
	return o
}

func (b *Builder) basic(view dataset.View) []Section {
	t := view.Table()
	hist := Section{Title: "Histograms & KDE", Charts: []charts.Spec{}}
	bars := Section{Title: "Bar / Count Plots", Charts: []charts.Spec{}}
	if view.Len() == 0 {
		hist.Placeholder, bars.Placeholder = Placeholder, Placeholder
		return []Section{hist, bars}
	}

	for _, name := range t.NamesOfKind(schema.Numeric) {
		vals, _ := view.Floats(name)
		hist.Charts = append(hist.Charts, charts.NewHistogram(name, vals))
	}
	for _, name := range t.NamesOfKind(schema.Categorical) {
		vals, null, _ := view.Strings(name)
		bars.Charts = append(bars.Charts, charts.NewCountBar(name, vals, null))
	}
	return []Section{hist, bars}
}

func (b *Builder) advanced(view dataset.View) []Section {
	t := view.Table()
	violins := Section{Title: "Violin Plots", Charts: []charts.Spec{}}
	scatters := Section{Title: "Scatter Plots", Charts: []charts.Spec{}}
	heat := Section{Title: "Correlation Heatmap", Charts: []charts.Spec{}}
	pies := Section{Title: "Pie Charts", Charts: []charts.Spec{}}
	sections := func() []Section { return []Section{violins, scatters, heat, pies} }

	if view.Len() == 0 {
		violins.Placeholder, scatters.Placeholder = Placeholder, Placeholder
		heat.Placeholder, pies.Placeholder = Placeholder, Placeholder
		return sections()
	}

	numeric := t.NamesOfKind(schema.Numeric)
	cols := make([][]float64, len(numeric))
	for i, name := range numeric {
		cols[i], _ = view.Floats(name)
		violins.Charts = append(violins.Charts, charts.NewViolin(name, cols[i]))
	}

	groups, null, _ := view.Strings(b.schema.ContinentColumn)
	if groups == nil {
		null = make([]bool, view.Len())
		groups = make([]string, view.Len())
	}
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			scatters.Charts = append(scatters.Charts, charts.NewScatter(
				numeric[i], numeric[j], cols[i], cols[j],
				b.schema.ContinentColumn, groups, null,
			))
		}
	}

	if len(numeric) > 0 {
		heat.Charts = append(heat.Charts,
			charts.NewHeatmap("Correlation Heatmap", numeric, stats.CorrMatrix(view, numeric)))
	}

	for _, name := range t.NamesOfKind(schema.Categorical) {
		vals, null, _ := view.Strings(name)
		pies.Charts = append(pies.Charts, charts.NewPie(name, vals, null))
	}
	return sections()
}

func (b *Builder) features(view dataset.View) ([]Section, *analysis.Report) {
	top := Section{Title: "Top Features", Charts: []charts.Spec{}}
	corr := Section{Title: "Correlation with Target", Charts: []charts.Spec{}}

	report, err := b.analyzer.Analyze(view)
	switch {
	case errors.Is(err, analysis.ErrNoRows):
		top.Placeholder, corr.Placeholder = Placeholder, Placeholder
		return []Section{top, corr}, nil
	case err != nil:
		b.logger.Warn("feature analysis failed", "error", err)
		top.Error = err.Error()
		corr.Error = err.Error()
		return []Section{top, corr}, nil
	}

	var labels []string
	var values []float64
	for _, imp := range report.Importances {
		labels = append(labels, imp.Feature)
		values = append(values, float64(imp.Importance))
	}
	top.Charts = append(top.Charts, charts.NewRanking("Top Features", "importance", labels, values))

	labels, values = nil, nil
	for _, c := range report.Correlations {
		labels = append(labels, c.Feature)
		values = append(values, float64(c.Correlation))
	}
	corr.Charts = append(corr.Charts, charts.NewRanking("Correlation with Target", "correlation", labels, values))
	return []Section{top, corr}, report
}

func aboutInfo() *AboutInfo {
	return &AboutInfo{
		Title:       "How Education Drives Economic Growth",
		Dataset:     "how-education-drives-economic-growth.csv",
		Description: "Interactive dashboard to explore literacy, GDP, physician density and economic growth.",
		Features: []string{
			"40+ interactive plots",
			"Filters by Continent and GDP Category",
			"Feature importance & correlation analysis",
			"Static PNG export of every chart and XLSX export of the filtered rows",
		},
	}
}
