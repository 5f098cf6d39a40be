package render

import (
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Arif-miad/education-economic-dashboard/internal/charts"
)

func pie(w io.Writer, spec charts.Spec, width, height int) error {
	s, err := firstSeries(spec)
	if err != nil {
		return err
	}
	var values []chart.Value
	for i, label := range s.Labels {
		if s.Values[i] <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: label,
			Value: s.Values[i],
			Style: chart.Style{FillColor: chartColor(charts.Palette[i%len(charts.Palette)])},
		})
	}
	if len(values) == 0 {
		return ErrEmpty
	}

	pc := chart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return errors.Wrap(pc.Render(chart.PNG, w), "render pie")
}

// bar flattens every series into bars; a count chart has one bar per
// series, a ranking has one series with many bars.
func bar(w io.Writer, spec charts.Spec, width, height int) error {
	var bars []chart.Value
	lo, hi := 0.0, 0.0
	for _, s := range spec.Series {
		for i, label := range s.Labels {
			v := s.Values[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if spec.ShowValues {
				label += " (" + strconv.FormatFloat(v, 'f', -1, 64) + ")"
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: v,
				Style: chart.Style{
					FillColor:   chartColor(s.Color),
					StrokeColor: chartColor(s.Color),
				},
			})
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if len(bars) == 0 {
		return ErrEmpty
	}
	if lo == hi {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:        spec.Title,
		Width:        width,
		Height:       height,
		BarWidth:     barWidth(width, len(bars)),
		UseBaseValue: true,
		BaseValue:    0,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	return errors.Wrap(bc.Render(chart.PNG, w), "render bar")
}

func barWidth(width, n int) int {
	bw := width / (2 * n)
	if bw > 60 {
		bw = 60
	}
	if bw < 4 {
		bw = 4
	}
	return bw
}

func chartColor(hex string) drawing.Color {
	if hex == "" {
		hex = charts.Palette[0]
	}
	return drawing.ColorFromHex(hex)
}
