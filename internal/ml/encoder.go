// Package ml contains the small set of learners the risk engine trains:
// a column encoder, a random-forest classifier and an isolation forest
package ml

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrDimension is returned when an input row does not match the fitted shape
var ErrDimension = errors.New("input dimension mismatch")

// ErrNotFitted is returned when a model is used before Fit
var ErrNotFitted = errors.New("model not fitted")

// Encoder standardizes numeric columns and one-hot encodes categorical
// columns. Categories not seen during Fit encode as an all-zero block
type Encoder struct {
	means      []float64
	scales     []float64
	categories [][]string
	index      []map[string]int
	width      int
}

// FitEncoder learns column moments and category vocabularies
func FitEncoder(numeric [][]float64, categorical [][]string) (*Encoder, error) {
	if len(numeric) == 0 {
		return nil, fmt.Errorf("fit encoder: %w: no rows", ErrDimension)
	}
	if len(categorical) != len(numeric) {
		return nil, fmt.Errorf("fit encoder: %w: %d numeric rows, %d categorical rows",
			ErrDimension, len(numeric), len(categorical))
	}

	nNum := len(numeric[0])
	nCat := len(categorical[0])
	enc := &Encoder{
		means:      make([]float64, nNum),
		scales:     make([]float64, nNum),
		categories: make([][]string, nCat),
		index:      make([]map[string]int, nCat),
	}

	col := make([]float64, len(numeric))
	for j := 0; j < nNum; j++ {
		for i, row := range numeric {
			if len(row) != nNum {
				return nil, fmt.Errorf("fit encoder: %w: row %d has %d numeric values, want %d",
					ErrDimension, i, len(row), nNum)
			}
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		enc.means[j] = mean
		enc.scales[j] = std
	}

	for j := 0; j < nCat; j++ {
		seen := make(map[string]struct{})
		for i, row := range categorical {
			if len(row) != nCat {
				return nil, fmt.Errorf("fit encoder: %w: row %d has %d categorical values, want %d",
					ErrDimension, i, len(row), nCat)
			}
			seen[row[j]] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for c := range seen {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		enc.categories[j] = cats
		enc.index[j] = make(map[string]int, len(cats))
		for k, c := range cats {
			enc.index[j][c] = k
		}
	}

	enc.width = nNum
	for _, cats := range enc.categories {
		enc.width += len(cats)
	}
	return enc, nil
}

// Width is the length of an encoded row
func (e *Encoder) Width() int {
	return e.width
}

// Categories returns the fitted vocabulary of categorical column j
func (e *Encoder) Categories(j int) []string {
	if j < 0 || j >= len(e.categories) {
		return nil
	}
	return append([]string(nil), e.categories[j]...)
}

// Transform encodes one row
func (e *Encoder) Transform(numeric []float64, categorical []string) ([]float64, error) {
	if e == nil {
		return nil, ErrNotFitted
	}
	if len(numeric) != len(e.means) || len(categorical) != len(e.categories) {
		return nil, fmt.Errorf("transform: %w: got %d+%d columns, want %d+%d",
			ErrDimension, len(numeric), len(categorical), len(e.means), len(e.categories))
	}

	out := make([]float64, e.width)
	for j, x := range numeric {
		out[j] = (x - e.means[j]) / e.scales[j]
	}
	offset := len(e.means)
	for j, c := range categorical {
		if k, ok := e.index[j][c]; ok {
			out[offset+k] = 1
		}
		offset += len(e.categories[j])
	}
	return out, nil
}

// TransformAll encodes a batch of rows
func (e *Encoder) TransformAll(numeric [][]float64, categorical [][]string) ([][]float64, error) {
	if len(numeric) != len(categorical) {
		return nil, fmt.Errorf("transform: %w: %d numeric rows, %d categorical rows",
			ErrDimension, len(numeric), len(categorical))
	}
	out := make([][]float64, len(numeric))
	for i := range numeric {
		row, err := e.Transform(numeric[i], categorical[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = row
	}
	return out, nil
}
