package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/contract-sentinel/internal/ml"
)

func TestEncoder_StandardizesAndOneHots(t *testing.T) {
	enc, err := ml.FitEncoder(
		[][]float64{{1, 5}, {3, 5}},
		[][]string{{"KE"}, {"UG"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 4, enc.Width())
	assert.Equal(t, []string{"KE", "UG"}, enc.Categories(0))
	assert.Nil(t, enc.Categories(3))

	row, err := enc.Transform([]float64{3, 5}, []string{"UG"})
	require.NoError(t, err)
	// mean 2, population std 1; the constant column scales by 1
	assert.InDeltaSlice(t, []float64{1, 0, 0, 1}, row, 1e-9)
}

func TestEncoder_UnseenCategoryIsZeroBlock(t *testing.T) {
	enc, err := ml.FitEncoder([][]float64{{0}, {1}}, [][]string{{"a"}, {"b"}})
	require.NoError(t, err)

	row, err := enc.Transform([]float64{0.5}, []string{"never-seen"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, row[1:])
}

func TestEncoder_DimensionErrors(t *testing.T) {
	_, err := ml.FitEncoder(nil, nil)
	assert.ErrorIs(t, err, ml.ErrDimension)

	_, err = ml.FitEncoder([][]float64{{1}, {1, 2}}, [][]string{{}, {}})
	assert.ErrorIs(t, err, ml.ErrDimension)

	enc, err := ml.FitEncoder([][]float64{{1}}, [][]string{{"x"}})
	require.NoError(t, err)
	_, err = enc.Transform([]float64{1, 2}, []string{"x"})
	assert.ErrorIs(t, err, ml.ErrDimension)

	var unfitted *ml.Encoder
	_, err = unfitted.Transform([]float64{1}, []string{"x"})
	assert.ErrorIs(t, err, ml.ErrNotFitted)
}
