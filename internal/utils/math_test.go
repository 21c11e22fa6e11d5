package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-3, 1, 8))
	assert.Equal(t, 8, Clamp(12, 1, 8))
	assert.Equal(t, 2.5, Clamp(2.5, 0.0, 3.0))
}

func TestFiniteRangeSkipsMissing(t *testing.T) {
	lo, hi, ok := FiniteRange(
		[]float64{math.NaN(), 3, -1},
		[]float64{math.Inf(1), 7},
	)
	assert.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)

	_, _, ok = FiniteRange([]float64{math.NaN()}, nil)
	assert.False(t, ok)
}

func TestRescale(t *testing.T) {
	assert.InDelta(t, 5.0, Rescale(0.5, 0, 1, 0, 10), 1e-12)
	assert.InDelta(t, -1.0, Rescale(2, 2, 4, -1, 1), 1e-12)
	assert.InDelta(t, 0.0, Rescale(3, 3, 3, -1, 1), 1e-12)
}
