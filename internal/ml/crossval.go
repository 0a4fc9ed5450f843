package ml

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDegenerateFold is returned when a training fold cannot fit a classifier
var ErrDegenerateFold = errors.New("degenerate cross-validation fold")

// StratifiedFolds assigns every row to one of k folds, spreading each label
// round-robin across folds. Assignment is deterministic
func StratifiedFolds(y []string, k int) []int {
	order := make([]int, len(y))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return y[order[a]] < y[order[b]]
	})

	folds := make([]int, len(y))
	for pos, i := range order {
		folds[i] = pos % k
	}
	return folds
}

// CrossValidate returns the mean fold accuracy of a forest trained with cfg
// It fails with ErrDegenerateFold when k < 2 or any training fold holds
// fewer than two distinct labels
func CrossValidate(cfg ForestConfig, X [][]float64, y []string, k int) (float64, error) {
	if len(X) != len(y) {
		return 0, fmt.Errorf("cross-validate: %w: %d rows, %d labels", ErrDimension, len(X), len(y))
	}
	if k > len(X) {
		k = len(X)
	}
	if k < 2 {
		return 0, fmt.Errorf("cross-validate: %w: k=%d", ErrDegenerateFold, k)
	}

	folds := StratifiedFolds(y, k)
	var total float64
	for fold := 0; fold < k; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []string
		for i := range X {
			if folds[i] == fold {
				testX = append(testX, X[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}
		if len(testX) == 0 {
			return 0, fmt.Errorf("cross-validate: %w: fold %d is empty", ErrDegenerateFold, fold)
		}

		model := NewRandomForest(cfg)
		if err := model.Fit(trainX, trainY); err != nil {
			if errors.Is(err, ErrSingleClass) {
				return 0, fmt.Errorf("cross-validate: %w: fold %d: %v", ErrDegenerateFold, fold, err)
			}
			return 0, fmt.Errorf("cross-validate: fold %d: %w", fold, err)
		}

		correct := 0
		for i, row := range testX {
			label, _, err := model.Predict(row)
			if err != nil {
				return 0, fmt.Errorf("cross-validate: fold %d: %w", fold, err)
			}
			if label == testY[i] {
				correct++
			}
		}
		total += float64(correct) / float64(len(testX))
	}
	return total / float64(k), nil
}
