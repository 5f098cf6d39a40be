package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

func testSchema() schema.Descriptor {
	return schema.Descriptor{
		Target:          schema.DefaultTarget,
		ContinentColumn: schema.DefaultContinentColumn,
		CategoryColumn:  schema.DefaultCategoryColumn,
		Columns: []schema.Column{
			{Name: schema.DefaultContinentColumn, Kind: schema.Categorical},
			{Name: schema.DefaultCategoryColumn, Kind: schema.Categorical},
			{Name: "Literacy", Kind: schema.Numeric},
			{Name: "Noise", Kind: schema.Numeric},
			{Name: schema.DefaultTarget, Kind: schema.Numeric},
		},
	}
}

// signalTable builds rows where the target is driven by Literacy.
func signalTable(t *testing.T, n int, target func(lit float64) float64) *dataset.Table {
	t.Helper()
	rnd := rand.New(rand.NewSource(7))
	continents := []string{"Asia", "Europe", "Africa"}
	cats := []string{"Low", "Medium", "High"}

	var cont, cat []string
	var lit, noise, growth []float64
	for i := 0; i < n; i++ {
		cont = append(cont, continents[i%3])
		cat = append(cat, cats[(i/3)%3])
		l := float64(i)
		lit = append(lit, l)
		noise = append(noise, rnd.Float64())
		growth = append(growth, target(l))
	}
	tbl, err := dataset.NewTable("test", []*dataset.Column{
		{Name: schema.DefaultContinentColumn, Kind: schema.Categorical, Strings: cont, Null: make([]bool, n)},
		{Name: schema.DefaultCategoryColumn, Kind: schema.Categorical, Strings: cat, Null: make([]bool, n)},
		{Name: "Literacy", Kind: schema.Numeric, Numbers: lit},
		{Name: "Noise", Kind: schema.Numeric, Numbers: noise},
		{Name: schema.DefaultTarget, Kind: schema.Numeric, Numbers: growth},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func importanceSum(r *Report) float64 {
	sum := 0.0
	for _, imp := range r.Importances {
		sum += float64(imp.Importance)
	}
	return sum
}

func TestLabelEncodeSorted(t *testing.T) {
	codes, labels := LabelEncode(
		[]string{"Europe", "Asia", "", "Africa", "Asia"},
		[]bool{false, false, true, false, false},
	)
	if diff := cmp.Diff([]string{"Africa", "Asia", "Europe"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	want := []float64{2, 1, math.NaN(), 0, 1}
	for i := range want {
		if math.IsNaN(want[i]) != math.IsNaN(codes[i]) || (!math.IsNaN(want[i]) && want[i] != codes[i]) {
			t.Errorf("codes[%d] = %v, want %v", i, codes[i], want[i])
		}
	}
}

func TestAnalyzeFindsSignal(t *testing.T) {
	tbl := signalTable(t, 60, func(l float64) float64 {
		if l < 30 {
			return 1
		}
		return 5
	})
	r, err := NewAnalyzer(testSchema(), WithTrees(30)).Analyze(tbl.All())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if r.Rows != 60 || r.Trees != 30 || r.Seed != DefaultSeed {
		t.Errorf("report header = %+v", r)
	}
	if len(r.Importances) != 4 {
		t.Fatalf("got %d importances, want 4", len(r.Importances))
	}
	if r.Importances[0].Feature != "Literacy" {
		t.Errorf("top feature = %q, want Literacy", r.Importances[0].Feature)
	}
	if s := importanceSum(r); math.Abs(s-1) > 1e-9 {
		t.Errorf("importances sum to %v, want 1", s)
	}
	for i := 1; i < len(r.Importances); i++ {
		if r.Importances[i].Importance > r.Importances[i-1].Importance {
			t.Error("importances not sorted descending")
		}
	}

	if r.Correlations[0].Feature != schema.DefaultTarget || math.Abs(float64(r.Correlations[0].Correlation)-1) > 1e-9 {
		t.Errorf("target should correlate 1 with itself, got %+v", r.Correlations[0])
	}
	if len(r.Correlations) != 5 {
		t.Errorf("got %d correlations, want 5", len(r.Correlations))
	}
	if len(r.Encodings) != 2 {
		t.Errorf("got %d encodings, want 2", len(r.Encodings))
	}
}

func TestAnalyzeConstantTarget(t *testing.T) {
	tbl := signalTable(t, 20, func(float64) float64 { return 3.3 })
	r, err := NewAnalyzer(testSchema(), WithTrees(10)).Analyze(tbl.All())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	s := importanceSum(r)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		t.Fatalf("importance sum = %v, want finite", s)
	}
	if s != 0 {
		t.Errorf("importance sum = %v, want 0 for a constant target", s)
	}
	for _, c := range r.Correlations {
		if float64(c.Correlation) != 0 {
			t.Errorf("correlation of %s = %v, want 0", c.Feature, c.Correlation)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	tbl := signalTable(t, 40, func(l float64) float64 { return math.Sin(l / 5) })
	run := func() *Report {
		r, err := NewAnalyzer(testSchema(), WithTrees(25), WithSeed(42)).Analyze(tbl.All())
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		return r
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("reports differ between runs (-first +second):\n%s", diff)
	}
}

func TestAnalyzeProgress(t *testing.T) {
	tbl := signalTable(t, 15, func(l float64) float64 { return l })
	var calls, last int
	_, err := NewAnalyzer(testSchema(), WithTrees(12), WithProgress(func(done, total int) {
		calls++
		last = done
		if total != 12 {
			t.Errorf("total = %d", total)
		}
	})).Analyze(tbl.All())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if calls != 12 || last != 12 {
		t.Errorf("progress calls = %d, last = %d", calls, last)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tbl := signalTable(t, 10, func(l float64) float64 { return l })

	noTarget := testSchema()
	noTarget.Target = "Missing"
	if _, err := NewAnalyzer(noTarget).Analyze(tbl.All()); !errors.Is(err, ErrModelFit) {
		t.Errorf("missing target: err = %v, want ErrModelFit", err)
	}

	catTarget := testSchema()
	catTarget.Target = schema.DefaultContinentColumn
	if _, err := NewAnalyzer(catTarget).Analyze(tbl.All()); !errors.Is(err, ErrModelFit) {
		t.Errorf("categorical target: err = %v, want ErrModelFit", err)
	}

	if _, err := NewAnalyzer(testSchema()).Analyze(tbl.SubView(nil)); !errors.Is(err, ErrNoRows) {
		t.Errorf("empty view: err = %v, want ErrNoRows", err)
	}
}

func TestAnalyzeDropsMissingTarget(t *testing.T) {
	tbl := signalTable(t, 12, func(l float64) float64 {
		if int(l)%2 == 0 {
			return math.NaN()
		}
		return l
	})
	r, err := NewAnalyzer(testSchema(), WithTrees(5)).Analyze(tbl.All())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Rows != 6 {
		t.Errorf("Rows = %d, want 6", r.Rows)
	}

	allMissing := signalTable(t, 4, func(float64) float64 { return math.NaN() })
	if _, err := NewAnalyzer(testSchema()).Analyze(allMissing.All()); !errors.Is(err, ErrNoRows) {
		t.Errorf("all-missing target: err = %v, want ErrNoRows", err)
	}
}

func TestForestHandlesMissingPredictors(t *testing.T) {
	X := [][]float64{{1}, {2}, {math.NaN()}, {10}, {11}, {math.NaN()}}
	y := []float64{0, 0, 0, 9, 9, 9}
	f := NewForest(1, 1)
	f.Bootstrap = false
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	preds := f.Predict([][]float64{{1.5}, {10.5}})
	if preds[0] >= preds[1] {
		t.Errorf("predictions %v do not follow the split", preds)
	}
	if imp := f.FeatureImportances(); imp[0] != 1 {
		t.Errorf("importance = %v, want 1", imp)
	}
}
