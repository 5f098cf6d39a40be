package render

import (
	"image/color"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Arif-miad/education-economic-dashboard/internal/charts"
	"github.com/Arif-miad/education-economic-dashboard/internal/stats"
)

func firstSeries(spec charts.Spec) (charts.Series, error) {
	if len(spec.Series) == 0 {
		return charts.Series{}, ErrEmpty
	}
	return spec.Series[0], nil
}

// histogram stacks a horizontal boxplot above the histogram, sharing the
// x range.
func histogram(w io.Writer, spec charts.Spec, width, height int) error {
	s, err := firstSeries(spec)
	if err != nil {
		return err
	}
	if len(s.X) == 0 {
		return ErrEmpty
	}
	bins := spec.Bins
	if bins <= 0 {
		bins = charts.HistogramBins
	}
	fill := hexColor(s.Color)

	main := newPlot(spec)
	main.Title.Text = ""
	h, err := plotter.NewHist(plotter.Values(s.X), bins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	h.FillColor = fill
	main.Add(h)

	if spec.Marginal != charts.MarginalBox {
		main.Title.Text = spec.Title
		return writePlot(w, main, width, height)
	}

	top := plot.New()
	top.Title.Text = spec.Title
	box, err := plotter.NewBoxPlot(vg.Points(20), 0, plotter.Values(s.X))
	if err != nil {
		return errors.Wrap(err, "marginal box")
	}
	box.Horizontal = true
	box.FillColor = fill
	top.Add(box)
	top.HideY()
	top.X.Tick.Label.Color = color.Transparent
	top.X.Min, top.X.Max = main.X.Min, main.X.Max

	img := vgimg.New(pixels(width), pixels(height))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(4)}
	plots := [][]*plot.Plot{{top}, {main}}
	canvases := plot.Align(plots, tiles, dc)
	// Give the histogram most of the height.
	split := canvases[0][0].Min.Y + (canvases[0][0].Max.Y-canvases[0][0].Min.Y)*0.6
	canvases[0][0].Min.Y = split
	canvases[1][0].Max.Y = split - vg.Points(4)
	top.Draw(canvases[0][0])
	main.Draw(canvases[1][0])

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return errors.Wrap(err, "write png")
}

// violin mirrors a kernel density estimate around x=0 and overlays a box.
func violin(w io.Writer, spec charts.Spec, width, height int) error {
	s, err := firstSeries(spec)
	if err != nil {
		return err
	}
	if len(s.Y) == 0 {
		return ErrEmpty
	}
	p := newPlot(spec)
	p.HideX()
	fill := hexColor(s.Color)

	ys, density := stats.KDE(s.Y, 100)
	if ys != nil {
		peak := 0.0
		for _, d := range density {
			if d > peak {
				peak = d
			}
		}
		outline := make(plotter.XYs, 0, 2*len(ys))
		for i := range ys {
			outline = append(outline, plotter.XY{X: density[i] / peak, Y: ys[i]})
		}
		for i := len(ys) - 1; i >= 0; i-- {
			outline = append(outline, plotter.XY{X: -density[i] / peak, Y: ys[i]})
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return errors.Wrap(err, "violin outline")
		}
		poly.Color = fill
		poly.LineStyle.Color = fill
		p.Add(poly)
	}

	box, err := plotter.NewBoxPlot(vg.Points(12), 0, plotter.Values(s.Y))
	if err != nil {
		return errors.Wrap(err, "violin box")
	}
	box.FillColor = color.White
	p.Add(box)
	p.X.Min, p.X.Max = -1.2, 1.2
	return writePlot(w, p, width, height)
}

func scatter(w io.Writer, spec charts.Spec, width, height int) error {
	if len(spec.Series) == 0 {
		return ErrEmpty
	}
	p := newPlot(spec)
	p.Legend.Top = true
	for _, s := range spec.Series {
		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i] = plotter.XY{X: s.X[i], Y: s.Y[i]}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrapf(err, "scatter %s", s.Name)
		}
		sc.GlyphStyle.Color = hexColor(s.Color)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
	}
	return writePlot(w, p, width, height)
}

// grid adapts a square matrix to plotter.GridXYZ. Row 0 is drawn at the top.
type grid struct {
	m [][]float64
}

func (g grid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g grid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// reversed flips a palette end to end.
type reversed struct {
	palette.Palette
}

func (r reversed) Colors() []color.Color {
	src := r.Palette.Colors()
	out := make([]color.Color, len(src))
	for i, c := range src {
		out[len(src)-1-i] = c
	}
	return out
}

func heatmap(w io.Writer, spec charts.Spec, width, height int) error {
	n := len(spec.Matrix)
	if n == 0 || len(spec.Categories) != n {
		return ErrEmpty
	}
	pal, err := brewer.GetPalette(brewer.TypeDiverging, "RdBu", 11)
	if err != nil {
		return errors.Wrap(err, "palette")
	}
	if spec.Colorscale == charts.DivergingScale {
		pal = reversed{pal}
	}

	p := newPlot(spec)
	hm := plotter.NewHeatMap(grid{spec.Matrix}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	if spec.ShowValues {
		var xys plotter.XYs
		var texts []string
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				xys = append(xys, plotter.XY{X: float64(c), Y: float64(n - 1 - r)})
				texts = append(texts, strconv.FormatFloat(spec.Matrix[r][c], 'f', 2, 64))
			}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return errors.Wrap(err, "heatmap labels")
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	p.NominalX(spec.Categories...)
	rows := append([]string(nil), spec.Categories...)
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	p.NominalY(rows...)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	return writePlot(w, p, width, height)
}
