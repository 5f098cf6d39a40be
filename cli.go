// cli.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/Arif-miad/education-economic-dashboard/internal/analysis"
	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

// CLI selects a one-shot mode instead of serving HTTP.
type CLI struct {
	Discover bool
	Analyze  bool
	JSON     bool
}

// dataFS opens the directory holding path so absolute and relative paths
// both work with the fs.FS based readers.
func dataFS(path string) (fs.FS, string) {
	return os.DirFS(filepath.Dir(path)), filepath.Base(path)
}

// runDiscover prints a schema descriptor inferred from the data file.
func runDiscover(cfg *Config, w io.Writer) error {
	fsys, name := dataFS(cfg.DataPath)
	records, err := dataset.ReadRecords(fsys, name)
	if err != nil {
		return err
	}
	desc, err := schema.Discover(records, cfg.DataPath)
	if err != nil {
		return err
	}
	return writeJSON(w, desc)
}

// runAnalyze fits the feature analysis on the whole dataset with a
// progress bar on stderr and prints the report as tables, or as JSON when
// asJSON is set.
func runAnalyze(cfg *Config, sch schema.Descriptor, w io.Writer, asJSON bool) error {
	fsys, name := dataFS(cfg.DataPath)
	table, err := dataset.NewLoader(fsys, name, sch).Load()
	if err != nil {
		return err
	}

	bar := pb.New(cfg.Trees)
	bar.Output = os.Stderr
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.SetMaxWidth(80)
	bar.Prefix("Fitting trees ")
	bar.Start()

	analyzer := analysis.NewAnalyzer(sch,
		analysis.WithTrees(cfg.Trees),
		analysis.WithSeed(cfg.Seed),
		analysis.WithProgress(func(done, total int) { bar.Set(done) }),
	)
	report, err := analyzer.Analyze(table.All())
	bar.Finish()
	if err != nil {
		return errors.Wrap(err, "feature analysis")
	}
	if asJSON {
		return writeJSON(w, report)
	}
	printReport(w, report)
	return nil
}

func printReport(w io.Writer, report *analysis.Report) {
	fmt.Fprintf(w, "Target: %s (%d rows, %d trees, seed %d, training R2 %s)\n\n",
		report.Target, report.Rows, report.Trees, report.Seed, report.TrainR2)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Feature", "Importance"})
	for i, imp := range report.Importances {
		table.Append([]string{strconv.Itoa(i + 1), imp.Feature, imp.Importance.String()})
	}
	table.Render()
	fmt.Fprintln(w)

	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Feature", "Correlation with " + report.Target})
	for _, c := range report.Correlations {
		table.Append([]string{c.Feature, c.Correlation.String()})
	}
	table.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode output")
}
