package rerank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.InDelta(t, 0.42, clamp01(0.42), 1e-9)
}

func TestSoftmax(t *testing.T) {
	t.Run("sums to one", func(t *testing.T) {
		out := softmax([]float64{0.9, 0.5, 0.1}, 0.7)
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("preserves order", func(t *testing.T) {
		out := softmax([]float64{0.9, 0.5, 0.1}, 0.7)
		assert.Greater(t, out[0], out[1])
		assert.Greater(t, out[1], out[2])
	})

	t.Run("uniform input yields uniform output", func(t *testing.T) {
		out := softmax([]float64{0.5, 0.5, 0.5, 0.5}, 0.7)
		for _, v := range out {
			assert.InDelta(t, 0.25, v, 1e-9)
		}
	})

	t.Run("lower temperature sharpens", func(t *testing.T) {
		warm := softmax([]float64{0.9, 0.1}, 1.0)
		cold := softmax([]float64{0.9, 0.1}, 0.1)
		assert.Greater(t, cold[0], warm[0])
	})

	t.Run("single element", func(t *testing.T) {
		out := softmax([]float64{0.3}, 0.7)
		require.Len(t, out, 1)
		assert.InDelta(t, 1.0, out[0], 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, softmax(nil, 0.7))
	})

	t.Run("near-zero tau does not blow up", func(t *testing.T) {
		out := softmax([]float64{1, 0}, 0)
		require.Len(t, out, 2)
		assert.False(t, math.IsNaN(out[0]))
		assert.InDelta(t, 1.0, out[0]+out[1], 1e-9)
	})
}
