package render

import (
	"bytes"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/Arif-miad/education-economic-dashboard/internal/charts"
)

// Default output size in pixels at the 96 DPI both backends use.
const (
	DefaultWidth  = 900
	DefaultHeight = 500
)

var (
	// ErrUnsupported is returned for a chart kind with no renderer.
	ErrUnsupported = errors.New("render: unsupported chart kind")
	// ErrEmpty is returned when a chart has nothing to draw.
	ErrEmpty = errors.New("render: chart has no data")
)

// Options controls the output size.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// PNG draws spec as a PNG image into w. Pie and bar charts go through
// go-chart; every other kind is drawn with gonum/plot.
func PNG(w io.Writer, spec charts.Spec, opts Options) error {
	width, height := opts.size()
	switch spec.Kind {
	case charts.Pie:
		return pie(w, spec, width, height)
	case charts.Bar:
		return bar(w, spec, width, height)
	case charts.Histogram:
		return histogram(w, spec, width, height)
	case charts.Violin:
		return violin(w, spec, width, height)
	case charts.Scatter:
		return scatter(w, spec, width, height)
	case charts.Heatmap:
		return heatmap(w, spec, width, height)
	default:
		return errors.Wrapf(ErrUnsupported, "kind %q", spec.Kind)
	}
}

// Bytes renders spec into a byte slice.
func Bytes(spec charts.Spec, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, spec, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newPlot(spec charts.Spec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	return p
}

func writePlot(w io.Writer, p *plot.Plot, width, height int) error {
	wt, err := p.WriterTo(pixels(width), pixels(height), "png")
	if err != nil {
		return errors.Wrap(err, "encode png")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write png")
}

// pixels converts a pixel count to a vg length at 96 DPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

func hexColor(hex string) color.Color {
	return chartColor(hex)
}
