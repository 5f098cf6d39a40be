package analysis

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Forest is a bagged ensemble of regression trees.
type Forest struct {
	NEstimators int
	RandomState int64
	Bootstrap   bool

	// OnTree, if set, is called once per fitted tree. Calls are serialized.
	OnTree func()

	trees []*regressionTree
	nFeat int
}

// NewForest returns a forest of n trees seeded with seed.
func NewForest(n int, seed int64) *Forest {
	return &Forest{NEstimators: n, RandomState: seed, Bootstrap: true}
}

// Fit trains every tree on its own bootstrap sample. Tree i draws from a
// source seeded with RandomState+i, so a fixed seed gives a fixed forest no
// matter how the trees are scheduled.
func (rf *Forest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.New("forest: empty X")
	}
	if len(y) != n {
		return errors.New("forest: X and y length mismatch")
	}
	if rf.NEstimators < 1 {
		return errors.Errorf("forest: need at least one tree, got %d", rf.NEstimators)
	}
	rf.nFeat = len(X[0])
	for i := range X {
		if len(X[i]) != rf.nFeat {
			return errors.New("forest: inconsistent number of features in X rows")
		}
	}

	rf.trees = make([]*regressionTree, rf.NEstimators)
	sem := make(chan struct{}, runtime.NumCPU())
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(idx)))
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := newRegressionTree()
			tree.fit(X, y, sample)
			rf.trees[idx] = tree

			if rf.OnTree != nil {
				mu.Lock()
				rf.OnTree()
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return nil
}

// Predict averages the tree predictions for each row of X.
func (rf *Forest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.trees) == 0 {
		return out
	}
	for i, x := range X {
		sum := 0.0
		for _, t := range rf.trees {
			sum += t.predict(x)
		}
		out[i] = sum / float64(len(rf.trees))
	}
	return out
}

// FeatureImportances returns the mean decrease in impurity per feature.
// Each tree's decreases are normalized to sum to one; trees that never split
// are left out; the average is renormalized. With no splitting tree every
// importance is zero.
func (rf *Forest) FeatureImportances() []float64 {
	out := make([]float64, rf.nFeat)
	used := 0
	for _, t := range rf.trees {
		total := 0.0
		for _, v := range t.importance {
			total += v
		}
		if total <= 0 {
			continue
		}
		for f, v := range t.importance {
			out[f] += v / total
		}
		used++
	}
	if used == 0 {
		return out
	}
	sum := 0.0
	for f := range out {
		out[f] /= float64(used)
		sum += out[f]
	}
	for f := range out {
		out[f] /= sum
	}
	return out
}
