package analysis

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
	"github.com/Arif-miad/education-economic-dashboard/internal/stats"
)

// Defaults of the feature analysis model.
const (
	DefaultTrees = 200
	DefaultSeed  = 42
)

var (
	// ErrModelFit is returned when the model cannot be fitted at all.
	ErrModelFit = errors.New("analysis: model fit failed")
	// ErrNoRows is returned when the view has no row with a target value.
	ErrNoRows = errors.New("analysis: no rows to fit")
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTrees sets the number of trees in the forest.
func WithTrees(n int) Option { return func(a *Analyzer) { a.trees = n } }

// WithSeed sets the random seed of the forest.
func WithSeed(seed int64) Option { return func(a *Analyzer) { a.seed = seed } }

// WithProgress registers a callback receiving (fitted, total) trees.
func WithProgress(fn func(done, total int)) Option {
	return func(a *Analyzer) { a.progress = fn }
}

// WithLogger sets the logger used for timing output.
func WithLogger(l *slog.Logger) Option { return func(a *Analyzer) { a.logger = l } }

// Analyzer ranks the dataset columns by how well they predict the target.
type Analyzer struct {
	schema   schema.Descriptor
	trees    int
	seed     int64
	progress func(done, total int)
	logger   *slog.Logger
}

// NewAnalyzer returns an Analyzer for the target named in sch.
func NewAnalyzer(sch schema.Descriptor, opts ...Option) *Analyzer {
	a := &Analyzer{
		schema: sch,
		trees:  DefaultTrees,
		seed:   DefaultSeed,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Importance is one predictor's share of the forest's impurity decrease.
type Importance struct {
	Feature    string       `json:"feature"`
	Importance stats.Number `json:"importance"`
}

// Correlation is one column's Pearson correlation with the target.
type Correlation struct {
	Feature     string       `json:"feature"`
	Correlation stats.Number `json:"correlation"`
}

// Encoding lists the labels of a categorical column in code order.
type Encoding struct {
	Column string   `json:"column"`
	Labels []string `json:"labels"`
}

// Report is the outcome of one analysis pass.
type Report struct {
	Target       string        `json:"target"`
	Rows         int           `json:"rows"`
	Trees        int           `json:"trees"`
	Seed         int64         `json:"seed"`
	TrainR2      stats.Number  `json:"trainR2"`
	Importances  []Importance  `json:"importances"`
	Correlations []Correlation `json:"correlations"`
	Encodings    []Encoding    `json:"encodings"`
}

// Analyze label-encodes the view, fits the forest on the rows that have a
// target value and reports importances and target correlations, both sorted
// in descending order.
func (a *Analyzer) Analyze(view dataset.View) (*Report, error) {
	target := a.schema.Target
	kind, ok := a.schema.KindOf(target)
	if !ok {
		return nil, errors.Wrapf(ErrModelFit, "target %q not in schema", target)
	}
	if kind != schema.Numeric {
		return nil, errors.Wrapf(ErrModelFit, "target %q is not numeric", target)
	}
	t := view.Table()
	if t == nil {
		return nil, ErrNoRows
	}
	if _, ok := t.Column(target); !ok {
		return nil, errors.Wrapf(ErrModelFit, "target %q not in dataset", target)
	}
	if view.Len() == 0 {
		return nil, ErrNoRows
	}

	start := time.Now()
	report := &Report{Target: target, Trees: a.trees, Seed: a.seed}

	var (
		names   []string
		columns [][]float64
		y       []float64
	)
	for _, c := range t.Columns() {
		var vals []float64
		if c.Kind == schema.Numeric {
			vals, _ = view.Floats(c.Name)
		} else {
			raw, null, _ := view.Strings(c.Name)
			var labels []string
			vals, labels = LabelEncode(raw, null)
			report.Encodings = append(report.Encodings, Encoding{Column: c.Name, Labels: labels})
		}
		if c.Name == target {
			y = vals
		}
		names = append(names, c.Name)
		columns = append(columns, vals)
	}

	for i, name := range names {
		report.Correlations = append(report.Correlations, Correlation{
			Feature:     name,
			Correlation: stats.Number(stats.Pearson(columns[i], y)),
		})
	}
	sort.SliceStable(report.Correlations, func(i, j int) bool {
		return report.Correlations[i].Correlation > report.Correlations[j].Correlation
	})

	var predictors []int
	for i, name := range names {
		if name != target {
			predictors = append(predictors, i)
		}
	}
	if len(predictors) == 0 {
		return nil, errors.Wrap(ErrModelFit, "no predictor columns")
	}

	var X [][]float64
	var yFit []float64
	for r := 0; r < view.Len(); r++ {
		if math.IsNaN(y[r]) {
			continue
		}
		row := make([]float64, len(predictors))
		for j, p := range predictors {
			row[j] = columns[p][r]
		}
		X = append(X, row)
		yFit = append(yFit, y[r])
	}
	if len(X) == 0 {
		return nil, ErrNoRows
	}
	report.Rows = len(X)

	forest := NewForest(a.trees, a.seed)
	if a.progress != nil {
		done := 0
		forest.OnTree = func() {
			done++
			a.progress(done, a.trees)
		}
	}
	if err := forest.Fit(X, yFit); err != nil {
		return nil, errors.Wrap(ErrModelFit, err.Error())
	}

	for j, imp := range forest.FeatureImportances() {
		report.Importances = append(report.Importances, Importance{
			Feature:    names[predictors[j]],
			Importance: stats.Number(imp),
		})
	}
	sort.SliceStable(report.Importances, func(i, j int) bool {
		return report.Importances[i].Importance > report.Importances[j].Importance
	})
	report.TrainR2 = stats.Number(stat.RSquaredFrom(forest.Predict(X), yFit, nil))

	a.logger.Info("feature analysis complete",
		"rows", report.Rows,
		"features", len(predictors),
		"trees", a.trees,
		"duration", time.Since(start),
	)
	return report, nil
}
