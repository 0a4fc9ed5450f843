package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// IsolationConfig holds isolation-forest parameters
type IsolationConfig struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          uint64
}

// DefaultIsolationConfig returns 100 trees, 256-row subsamples and a 10% outlier fraction
func DefaultIsolationConfig() IsolationConfig {
	return IsolationConfig{
		Trees:         100,
		SampleSize:    256,
		Contamination: 0.1,
		Seed:          42,
	}
}

type isoNode struct {
	leaf      bool
	size      int
	feature   int
	threshold float64
	left      int
	right     int
}

type isoTree struct {
	nodes []isoNode
}

func (t *isoTree) pathLength(x []float64) float64 {
	i, depth := 0, 0
	for {
		n := &t.nodes[i]
		if n.leaf {
			return float64(depth) + averagePathLength(n.size)
		}
		if x[n.feature] < n.threshold {
			i = n.left
		} else {
			i = n.right
		}
		depth++
	}
}

// IsolationForest scores rows by how quickly random partitions isolate them
// Rows scoring above the fitted contamination quantile are anomalies
type IsolationForest struct {
	cfg       IsolationConfig
	nFeatures int
	psi       int
	trees     []*isoTree
	threshold float64
}

// NewIsolationForest creates an unfitted detector
func NewIsolationForest(cfg IsolationConfig) *IsolationForest {
	if cfg.Trees <= 0 {
		cfg.Trees = 1
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 256
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 0.5 {
		cfg.Contamination = 0.1
	}
	return &IsolationForest{cfg: cfg}
}

// Fit builds the trees and derives the anomaly threshold from training scores
func (f *IsolationForest) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("fit isolation forest: %w: no rows", ErrDimension)
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("fit isolation forest: %w: row %d has %d columns, want %d",
				ErrDimension, i, len(row), d)
		}
	}

	psi := f.cfg.SampleSize
	if psi > len(X) {
		psi = len(X)
	}
	maxDepth := int(math.Ceil(math.Log2(math.Max(float64(psi), 2))))

	f.nFeatures = d
	f.psi = psi
	f.trees = make([]*isoTree, f.cfg.Trees)
	for t := range f.trees {
		rng := rand.New(rand.NewPCG(f.cfg.Seed, uint64(t)+1))
		sample := rng.Perm(len(X))[:psi]
		tree := &isoTree{}
		growIsolation(tree, X, sample, 0, maxDepth, rng)
		f.trees[t] = tree
	}

	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = f.score(row)
	}
	sort.Float64s(scores)
	f.threshold = stat.Quantile(1-f.cfg.Contamination, stat.Empirical, scores, nil)
	return nil
}

// Threshold is the fitted score above which rows are anomalous
func (f *IsolationForest) Threshold() float64 {
	return f.threshold
}

// Score returns the anomaly score in (0, 1]; higher is more anomalous
func (f *IsolationForest) Score(x []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != f.nFeatures {
		return 0, fmt.Errorf("score: %w: got %d columns, want %d", ErrDimension, len(x), f.nFeatures)
	}
	return f.score(x), nil
}

// IsAnomaly reports whether x scores strictly above the fitted threshold
func (f *IsolationForest) IsAnomaly(x []float64) (bool, error) {
	s, err := f.Score(x)
	if err != nil {
		return false, err
	}
	return s > f.threshold, nil
}

func (f *IsolationForest) score(x []float64) float64 {
	var total float64
	for _, t := range f.trees {
		total += t.pathLength(x)
	}
	mean := total / float64(len(f.trees))
	c := averagePathLength(f.psi)
	if c == 0 {
		return 0.5
	}
	return math.Pow(2, -mean/c)
}

func growIsolation(t *isoTree, X [][]float64, idx []int, depth, maxDepth int, rng *rand.Rand) int {
	if depth >= maxDepth || len(idx) <= 1 {
		t.nodes = append(t.nodes, isoNode{leaf: true, size: len(idx)})
		return len(t.nodes) - 1
	}

	d := len(X[0])
	for _, feature := range rng.Perm(d) {
		lo, hi := X[idx[0]][feature], X[idx[0]][feature]
		for _, i := range idx[1:] {
			v := X[i][feature]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if lo == hi {
			continue
		}

		threshold := lo + rng.Float64()*(hi-lo)
		var left, right []int
		for _, i := range idx {
			if X[i][feature] < threshold {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}

		t.nodes = append(t.nodes, isoNode{feature: feature, threshold: threshold})
		id := len(t.nodes) - 1
		l := growIsolation(t, X, left, depth+1, maxDepth, rng)
		r := growIsolation(t, X, right, depth+1, maxDepth, rng)
		t.nodes[id].left = l
		t.nodes[id].right = r
		return id
	}

	// every feature is constant on this partition
	t.nodes = append(t.nodes, isoNode{leaf: true, size: len(idx)})
	return len(t.nodes) - 1
}

// averagePathLength is c(n), the mean unsuccessful-search path length of a
// binary search tree with n nodes
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+0.5772156649) - 2*(fn-1)/fn
	}
}
