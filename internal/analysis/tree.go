package analysis

import (
	"math"
	"sort"
)

// minImpurity is the node error below which a node is treated as pure.
const minImpurity = 1e-12

// regressionTree is a CART regressor with the squared-error criterion.
// Missing predictor values (NaN) are sent to whichever child gives the
// larger impurity decrease during fitting.
type regressionTree struct {
	minSamplesSplit int
	minSamplesLeaf  int
	maxDepth        int // 0 => unlimited

	root *treeNode
	// importance accumulates the weighted impurity decrease per feature.
	importance []float64
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64 // x <= threshold goes left
	nanLeft   bool
	left      *treeNode
	right     *treeNode
}

type split struct {
	feature   int
	threshold float64
	nanLeft   bool
	gain      float64
	left      []int
	right     []int
}

type pair struct {
	v float64
	i int
}

func newRegressionTree() *regressionTree {
	return &regressionTree{minSamplesSplit: 2, minSamplesLeaf: 1}
}

// fit grows the tree over the rows listed in idx. Rows may repeat, which is
// how bootstrap samples are passed in.
func (t *regressionTree) fit(X [][]float64, y []float64, idx []int) {
	p := 0
	if len(X) > 0 {
		p = len(X[0])
	}
	t.importance = make([]float64, p)
	t.root = t.build(X, y, idx, 0, p)
}

func (t *regressionTree) build(X [][]float64, y []float64, idx []int, depth, p int) *treeNode {
	sum, _ := sums(y, idx)
	n := float64(len(idx))
	mean := sum / n
	sse := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	node := &treeNode{leaf: true, value: mean}

	if len(idx) < t.minSamplesSplit || sse <= minImpurity*n {
		return node
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return node
	}

	best := split{feature: -1}
	for f := 0; f < p; f++ {
		s := t.bestSplitForFeature(X, y, idx, f)
		if s.feature >= 0 && s.gain > best.gain {
			best = s
		}
	}
	if best.feature < 0 || best.gain <= minImpurity {
		return node
	}

	t.importance[best.feature] += best.gain
	node.leaf = false
	node.feature = best.feature
	node.threshold = best.threshold
	node.nanLeft = best.nanLeft
	node.left = t.build(X, y, best.left, depth+1, p)
	node.right = t.build(X, y, best.right, depth+1, p)
	return node
}

// bestSplitForFeature scans every threshold between distinct sorted values
// of feature f, trying the NaN rows on each side.
func (t *regressionTree) bestSplitForFeature(X [][]float64, y []float64, idx []int, f int) split {
	result := split{feature: -1}

	valid := make([]pair, 0, len(idx))
	var nans []int
	for _, i := range idx {
		v := X[i][f]
		if math.IsNaN(v) {
			nans = append(nans, i)
			continue
		}
		valid = append(valid, pair{v, i})
	}
	if len(valid) < 2 {
		return result
	}
	sort.SliceStable(valid, func(a, b int) bool { return valid[a].v < valid[b].v })

	nanSum, nanSumSq := sums(y, nans)
	nanN := float64(len(nans))
	totalSum, totalSumSq := sums(y, idx)
	total := float64(len(idx))
	parentSSE := totalSumSq - totalSum*totalSum/total

	var leftSum, leftSumSq float64
	bestPos := -1
	for s := 1; s < len(valid); s++ {
		yv := y[valid[s-1].i]
		leftSum += yv
		leftSumSq += yv * yv
		if valid[s].v == valid[s-1].v {
			continue
		}
		leftN := float64(s)

		for _, nanLeft := range []bool{false, true} {
			ln, ls, lss := leftN, leftSum, leftSumSq
			if nanLeft {
				ln += nanN
				ls += nanSum
				lss += nanSumSq
			}
			rn := total - ln
			if ln < float64(t.minSamplesLeaf) || rn < float64(t.minSamplesLeaf) {
				continue
			}
			rs := totalSum - ls
			rss := totalSumSq - lss
			childSSE := (lss - ls*ls/ln) + (rss - rs*rs/rn)
			gain := parentSSE - childSSE
			if gain > result.gain {
				result.feature = f
				result.gain = gain
				result.threshold = midpoint(valid[s-1].v, valid[s].v)
				result.nanLeft = nanLeft
				bestPos = s
			}
		}
	}
	if bestPos < 0 {
		return result
	}
	if len(nans) == 0 {
		// Unseen missing values at predict time follow the larger child.
		result.nanLeft = bestPos >= len(valid)-bestPos
	}

	for _, pv := range valid[:bestPos] {
		result.left = append(result.left, pv.i)
	}
	for _, pv := range valid[bestPos:] {
		result.right = append(result.right, pv.i)
	}
	if result.nanLeft {
		result.left = append(result.left, nans...)
	} else {
		result.right = append(result.right, nans...)
	}
	return result
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		v := x[node.feature]
		switch {
		case math.IsNaN(v):
			if node.nanLeft {
				node = node.left
			} else {
				node = node.right
			}
		case v <= node.threshold:
			node = node.left
		default:
			node = node.right
		}
	}
	return node.value
}

// midpoint returns a threshold lo <= t < hi.
func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi {
		return lo
	}
	return m
}

func sums(y []float64, idx []int) (sum, sumSq float64) {
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	return sum, sumSq
}
