package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/contract-sentinel/internal/ml"
)

func TestStratifiedFolds_SpreadsLabels(t *testing.T) {
	y := []string{"a", "b", "a", "b", "a", "b"}
	folds := ml.StratifiedFolds(y, 3)

	perFold := make(map[int]map[string]int)
	for i, f := range folds {
		if perFold[f] == nil {
			perFold[f] = make(map[string]int)
		}
		perFold[f][y[i]]++
	}
	require.Len(t, perFold, 3)
	for fold, counts := range perFold {
		assert.Equal(t, 1, counts["a"], "fold %d", fold)
		assert.Equal(t, 1, counts["b"], "fold %d", fold)
	}
}

func TestCrossValidate(t *testing.T) {
	X, y := separable(10)
	acc, err := ml.CrossValidate(smallForest(), X, y, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	assert.Greater(t, acc, 0.8)
}

func TestCrossValidate_Degenerate(t *testing.T) {
	X, y := separable(3)

	_, err := ml.CrossValidate(smallForest(), X, y, 1)
	assert.ErrorIs(t, err, ml.ErrDegenerateFold)

	_, err = ml.CrossValidate(smallForest(), X[:1], y[:1], 5)
	assert.ErrorIs(t, err, ml.ErrDegenerateFold)

	// the single "b" row leaves one training fold with only "a"
	_, err = ml.CrossValidate(smallForest(),
		[][]float64{{0}, {1}, {2}, {3}},
		[]string{"a", "a", "a", "b"}, 2)
	assert.ErrorIs(t, err, ml.ErrDegenerateFold)
}
