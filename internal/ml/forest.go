package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrSingleClass is returned when a classifier is fitted on fewer than two labels
var ErrSingleClass = errors.New("need at least two classes")

// ForestConfig holds random-forest hyper-parameters
type ForestConfig struct {
	Trees               int
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	BalancedClassWeight bool
	Seed                uint64
}

// DefaultForestConfig returns 300 trees, depth 15, split/leaf 3/1, balanced weights
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:               300,
		MaxDepth:            15,
		MinSamplesSplit:     3,
		MinSamplesLeaf:      1,
		BalancedClassWeight: true,
		Seed:                42,
	}
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      int
	right     int
	proba     []float64
}

type decisionTree struct {
	nodes []treeNode
}

func (t *decisionTree) proba(x []float64) []float64 {
	i := 0
	for {
		n := &t.nodes[i]
		if n.leaf {
			return n.proba
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// RandomForest is a bagged ensemble of CART trees using weighted Gini impurity
type RandomForest struct {
	cfg       ForestConfig
	classes   []string
	nFeatures int
	trees     []*decisionTree
}

// NewRandomForest creates an unfitted forest
func NewRandomForest(cfg ForestConfig) *RandomForest {
	if cfg.Trees <= 0 {
		cfg.Trees = 1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = math.MaxInt32
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}
	return &RandomForest{cfg: cfg}
}

// Classes returns the sorted label set the forest predicts over
func (f *RandomForest) Classes() []string {
	return append([]string(nil), f.classes...)
}

// Fit trains the forest on rows X with labels y
func (f *RandomForest) Fit(X [][]float64, y []string) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("fit forest: %w: %d rows, %d labels", ErrDimension, len(X), len(y))
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("fit forest: %w: row %d has %d columns, want %d", ErrDimension, i, len(row), d)
		}
	}

	classes, yIdx := indexLabels(y)
	if len(classes) < 2 {
		return fmt.Errorf("fit forest: %w", ErrSingleClass)
	}

	classWeight := make([]float64, len(classes))
	for k := range classWeight {
		classWeight[k] = 1
	}
	if f.cfg.BalancedClassWeight {
		counts := make([]float64, len(classes))
		for _, k := range yIdx {
			counts[k]++
		}
		for k, c := range counts {
			classWeight[k] = float64(len(y)) / (float64(len(classes)) * c)
		}
	}

	maxFeatures := int(math.Sqrt(float64(d)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	f.classes = classes
	f.nFeatures = d
	f.trees = make([]*decisionTree, f.cfg.Trees)
	for t := range f.trees {
		rng := rand.New(rand.NewPCG(f.cfg.Seed, uint64(t)+1))
		b := &treeBuilder{
			cfg:         f.cfg,
			X:           X,
			y:           yIdx,
			nClasses:    len(classes),
			maxFeatures: maxFeatures,
			rng:         rng,
			weights:     make([]float64, len(X)),
		}

		for range X {
			b.weights[rng.IntN(len(X))]++
		}
		indices := make([]int, 0, len(X))
		for i, w := range b.weights {
			if w > 0 {
				b.weights[i] = w * classWeight[yIdx[i]]
				indices = append(indices, i)
			}
		}

		tree := &decisionTree{}
		b.tree = tree
		b.grow(indices, 0)
		f.trees[t] = tree
	}
	return nil
}

// PredictProba returns class probabilities aligned with Classes()
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	if len(x) != f.nFeatures {
		return nil, fmt.Errorf("predict: %w: got %d columns, want %d", ErrDimension, len(x), f.nFeatures)
	}
	out := make([]float64, len(f.classes))
	for _, t := range f.trees {
		for k, p := range t.proba(x) {
			out[k] += p
		}
	}
	for k := range out {
		out[k] /= float64(len(f.trees))
	}
	return out, nil
}

// Predict returns the most probable label and its probability
func (f *RandomForest) Predict(x []float64) (string, float64, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return "", 0, err
	}
	best := 0
	for k, p := range proba {
		if p > proba[best] {
			best = k
		}
	}
	return f.classes[best], proba[best], nil
}

type treeBuilder struct {
	cfg         ForestConfig
	X           [][]float64
	y           []int
	weights     []float64
	nClasses    int
	maxFeatures int
	rng         *rand.Rand
	tree        *decisionTree
}

func (b *treeBuilder) classTotals(indices []int) ([]float64, float64) {
	totals := make([]float64, b.nClasses)
	var sum float64
	for _, i := range indices {
		totals[b.y[i]] += b.weights[i]
		sum += b.weights[i]
	}
	return totals, sum
}

func (b *treeBuilder) leaf(totals []float64, sum float64) int {
	proba := make([]float64, len(totals))
	for k, v := range totals {
		if sum > 0 {
			proba[k] = v / sum
		} else {
			proba[k] = 1 / float64(len(totals))
		}
	}
	b.tree.nodes = append(b.tree.nodes, treeNode{leaf: true, proba: proba})
	return len(b.tree.nodes) - 1
}

func (b *treeBuilder) grow(indices []int, depth int) int {
	totals, sum := b.classTotals(indices)
	parent := gini(totals, sum)

	if depth >= b.cfg.MaxDepth || len(indices) < b.cfg.MinSamplesSplit || parent == 0 {
		return b.leaf(totals, sum)
	}

	feature, threshold, impurity, ok := b.bestSplit(indices, sum)
	if !ok || impurity >= parent-1e-12 {
		return b.leaf(totals, sum)
	}

	var left, right []int
	for _, i := range indices {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.tree.nodes = append(b.tree.nodes, treeNode{feature: feature, threshold: threshold})
	id := len(b.tree.nodes) - 1
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.tree.nodes[id].left = l
	b.tree.nodes[id].right = r
	return id
}

// bestSplit searches a random subset of non-constant features for the split
// with the lowest weighted child impurity
func (b *treeBuilder) bestSplit(indices []int, sum float64) (int, float64, float64, bool) {
	d := len(b.X[0])
	order := b.rng.Perm(d)

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := math.Inf(1)
	evaluated := 0

	sorted := make([]int, len(indices))
	for _, feature := range order {
		if evaluated >= b.maxFeatures {
			break
		}
		copy(sorted, indices)
		sort.Slice(sorted, func(a, c int) bool {
			return b.X[sorted[a]][feature] < b.X[sorted[c]][feature]
		})
		if b.X[sorted[0]][feature] == b.X[sorted[len(sorted)-1]][feature] {
			continue
		}
		evaluated++

		left := make([]float64, b.nClasses)
		right, _ := b.classTotals(sorted)
		var wl float64
		n := len(sorted)
		for p := 0; p < n-1; p++ {
			i := sorted[p]
			left[b.y[i]] += b.weights[i]
			right[b.y[i]] -= b.weights[i]
			wl += b.weights[i]

			lo, hi := b.X[i][feature], b.X[sorted[p+1]][feature]
			if lo == hi {
				continue
			}
			if p+1 < b.cfg.MinSamplesLeaf || n-(p+1) < b.cfg.MinSamplesLeaf {
				continue
			}
			wr := sum - wl
			impurity := (wl*gini(left, wl) + wr*gini(right, wr)) / sum
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}
	return bestFeature, bestThreshold, bestImpurity, bestFeature >= 0
}

func gini(totals []float64, sum float64) float64 {
	if sum <= 0 {
		return 0
	}
	g := 1.0
	for _, v := range totals {
		p := v / sum
		g -= p * p
	}
	if g < 0 {
		return 0
	}
	return g
}

func indexLabels(y []string) ([]string, []int) {
	set := make(map[string]struct{})
	for _, label := range y {
		set[label] = struct{}{}
	}
	classes := make([]string, 0, len(set))
	for label := range set {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	pos := make(map[string]int, len(classes))
	for k, c := range classes {
		pos[c] = k
	}
	idx := make([]int, len(y))
	for i, label := range y {
		idx[i] = pos[label]
	}
	return classes, idx
}
