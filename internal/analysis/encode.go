package analysis

import (
	"math"
	"sort"
)

// LabelEncode replaces each non-null value with its position in the sorted
// list of distinct values. Nulls become NaN. The sorted labels are returned
// alongside so codes can be mapped back.
func LabelEncode(vals []string, null []bool) (codes []float64, labels []string) {
	seen := make(map[string]bool)
	for i, v := range vals {
		if null[i] || seen[v] {
			continue
		}
		seen[v] = true
		labels = append(labels, v)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	codes = make([]float64, len(vals))
	for i, v := range vals {
		if null[i] {
			codes[i] = math.NaN()
			continue
		}
		codes[i] = float64(index[v])
	}
	return codes, labels
}
