package stats

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
)

// Number is a float64 that encodes NaN and ±Inf as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// String formats the value with at most six decimals; undefined values
// print as NaN.
func (n Number) String() string {
	f := float64(n)
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
}

// Summary is the describe() row set of one numeric column.
type Summary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Std    Number `json:"std"`
	Min    Number `json:"min"`
	Q25    Number `json:"25%"`
	Q50    Number `json:"50%"`
	Q75    Number `json:"75%"`
	Max    Number `json:"max"`
}

// Describe summarizes vals, ignoring NaN. Std is the sample standard
// deviation and is NaN below two values; every statistic but Count is NaN
// for an empty input.
func Describe(column string, vals []float64) Summary {
	clean := DropNaN(vals)
	nan := Number(math.NaN())
	s := Summary{Column: column, Count: len(clean), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(clean) == 0 {
		return s
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	s.Mean = Number(stat.Mean(sorted, nil))
	if len(sorted) > 1 {
		s.Std = Number(stat.StdDev(sorted, nil))
	}
	s.Min = Number(floats.Min(sorted))
	s.Max = Number(floats.Max(sorted))
	s.Q25 = Number(Percentile(sorted, 25))
	s.Q50 = Number(Percentile(sorted, 50))
	s.Q75 = Number(Percentile(sorted, 75))
	return s
}

// Percentile returns the p-th percentile of sorted using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// DropNaN returns the non-NaN values of vals.
func DropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Pearson returns the correlation of x and y over the rows where both are
// present. It is 0 when fewer than two such rows exist or when either side
// has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

func constant(vals []float64) bool {
	return floats.Min(vals) == floats.Max(vals)
}

// CorrMatrix returns the pairwise Pearson matrix of the named numeric
// columns over v. The diagonal is 1 unless the column is constant.
func CorrMatrix(v dataset.View, names []string) [][]float64 {
	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], _ = v.Floats(name)
	}
	m := make([][]float64, len(names))
	for i := range m {
		m[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			r := Pearson(cols[i], cols[j])
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

// NullCount is the number of missing cells in one column.
type NullCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// NullCounts counts missing cells per column of v, in column order.
func NullCounts(v dataset.View) []NullCount {
	t := v.Table()
	if t == nil {
		return nil
	}
	out := make([]NullCount, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		n := 0
		for _, r := range v.Indices() {
			if c.IsNull(r) {
				n++
			}
		}
		out = append(out, NullCount{Column: c.Name, Count: n})
	}
	return out
}

// KDE evaluates a Gaussian kernel density estimate of vals at points evenly
// spaced values spanning three bandwidths past the data range. The bandwidth
// follows Scott's rule. It returns nil when vals has fewer than two distinct
// values.
func KDE(vals []float64, points int) (xs, ys []float64) {
	clean := DropNaN(vals)
	if len(clean) < 2 || constant(clean) || points < 2 {
		return nil, nil
	}
	bw := stat.StdDev(clean, nil) * math.Pow(float64(len(clean)), -0.2)
	lo := floats.Min(clean) - 3*bw
	hi := floats.Max(clean) + 3*bw

	xs = make([]float64, points)
	floats.Span(xs, lo, hi)
	ys = make([]float64, points)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	for i, x := range xs {
		sum := 0.0
		for _, v := range clean {
			sum += kernel.Prob(x - v)
		}
		ys[i] = sum / float64(len(clean))
	}
	return xs, ys
}
