package charts

import (
	"math"

	"github.com/Arif-miad/education-economic-dashboard/internal/stats"
)

// ============================================================================
// CHARTS: Declarative chart specifications
// ============================================================================
// A Spec says what to draw, never how. The dashboard page serializes specs to
// JSON for the browser and the render package turns the same specs into PNG.
// Builders drop missing values so every Spec is JSON-safe.
// ============================================================================

// Kind names the chart type.
type Kind string

const (
	Histogram Kind = "histogram"
	Bar       Kind = "bar"
	Violin    Kind = "violin"
	Scatter   Kind = "scatter"
	Heatmap   Kind = "heatmap"
	Pie       Kind = "pie"
)

// Fixed styling of the dashboard charts.
const (
	HistogramColor = "#4CAF50"
	ViolinColor    = "#FF5733"
	HistogramBins  = 20
	MarginalBox    = "box"
	DivergingScale = "RdBu_r"
)

// Palette is the qualitative color cycle used for categories and groups.
var Palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Series is one trace of a chart. Numeric traces use X and Y; categorical
// traces use Labels with Values.
type Series struct {
	Name   string    `json:"name"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Color  string    `json:"color,omitempty"`
}

// Spec fully describes one chart.
type Spec struct {
	Kind       Kind        `json:"kind"`
	Title      string      `json:"title"`
	XLabel     string      `json:"xLabel,omitempty"`
	YLabel     string      `json:"yLabel,omitempty"`
	Legend     string      `json:"legend,omitempty"`
	Series     []Series    `json:"series"`
	Bins       int         `json:"bins,omitempty"`
	Marginal   string      `json:"marginal,omitempty"`
	ShowValues bool        `json:"showValues,omitempty"`
	Colorscale string      `json:"colorscale,omitempty"`
	Matrix     [][]float64 `json:"matrix,omitempty"`
	Categories []string    `json:"categories,omitempty"`
}

// NewHistogram bins a numeric column into 20 bins with a marginal boxplot.
func NewHistogram(col string, vals []float64) Spec {
	return Spec{
		Kind:     Histogram,
		Title:    col,
		XLabel:   col,
		YLabel:   "count",
		Bins:     HistogramBins,
		Marginal: MarginalBox,
		Series:   []Series{{Name: col, X: stats.DropNaN(vals), Color: HistogramColor}},
	}
}

// NewCountBar counts each category of a column, one colored trace per
// category, with the counts printed on the bars.
func NewCountBar(col string, vals []string, null []bool) Spec {
	labels, counts := Counts(vals, null)
	spec := Spec{
		Kind:       Bar,
		Title:      col,
		XLabel:     col,
		YLabel:     "count",
		Legend:     col,
		ShowValues: true,
		Series:     []Series{},
	}
	for i, l := range labels {
		spec.Series = append(spec.Series, Series{
			Name:   l,
			Labels: []string{l},
			Values: []float64{counts[i]},
			Color:  Palette[i%len(Palette)],
		})
	}
	return spec
}

// NewViolin shows the distribution of a numeric column.
func NewViolin(col string, vals []float64) Spec {
	return Spec{
		Kind:   Violin,
		Title:  col,
		YLabel: col,
		Series: []Series{{Name: col, Y: stats.DropNaN(vals), Color: ViolinColor}},
	}
}

// NewScatter plots y against x with one trace per group. Rows missing x, y
// or the group are left out.
func NewScatter(xCol, yCol string, x, y []float64, groupCol string, groups []string, null []bool) Spec {
	spec := Spec{
		Kind:   Scatter,
		Title:  xCol + " vs " + yCol,
		XLabel: xCol,
		YLabel: yCol,
		Legend: groupCol,
	}
	index := make(map[string]int)
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || null[i] {
			continue
		}
		g, ok := index[groups[i]]
		if !ok {
			g = len(spec.Series)
			index[groups[i]] = g
			spec.Series = append(spec.Series, Series{
				Name:  groups[i],
				Color: Palette[g%len(Palette)],
			})
		}
		spec.Series[g].X = append(spec.Series[g].X, x[i])
		spec.Series[g].Y = append(spec.Series[g].Y, y[i])
	}
	if len(spec.Series) == 0 {
		spec.Series = []Series{}
	}
	return spec
}

// NewHeatmap draws a labelled square matrix on a diverging scale with the
// cell values printed.
func NewHeatmap(title string, names []string, matrix [][]float64) Spec {
	return Spec{
		Kind:       Heatmap,
		Title:      title,
		Categories: names,
		Matrix:     matrix,
		Colorscale: DivergingScale,
		ShowValues: true,
		Series:     []Series{},
	}
}

// NewPie shows the share of each category of a column.
func NewPie(col string, vals []string, null []bool) Spec {
	labels, counts := Counts(vals, null)
	return Spec{
		Kind:   Pie,
		Title:  "Pie Chart: " + col,
		Series: []Series{{Name: col, Labels: labels, Values: counts}},
	}
}

// NewRanking is a single-trace bar chart of named values in the given order.
func NewRanking(title, valueLabel string, labels []string, values []float64) Spec {
	return Spec{
		Kind:   Bar,
		Title:  title,
		YLabel: valueLabel,
		Series: []Series{{Name: valueLabel, Labels: labels, Values: values, Color: Palette[0]}},
	}
}

// Counts tallies the non-null values of a categorical column in
// first-appearance order.
func Counts(vals []string, null []bool) (labels []string, counts []float64) {
	index := make(map[string]int)
	for i, v := range vals {
		if null[i] {
			continue
		}
		j, ok := index[v]
		if !ok {
			j = len(labels)
			index[v] = j
			labels = append(labels, v)
			counts = append(counts, 0)
		}
		counts[j]++
	}
	return labels, counts
}
