package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	assert.InDelta(t, 2.5, Quantile(xs, 0.5), 1e-12)
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.Equal(t, 4.0, Quantile(xs, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestWinsorize(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 100}
	out := Winsorize(xs, 0, 0.75)
	assert.Equal(t, []float64{1, 2, 3, 4, 4}, out)
	assert.Equal(t, 100.0, xs[4], "input must not be modified")
}

func TestRollingZ(t *testing.T) {
	z := RollingZ([]float64{1, 2, 3, 10}, 3)
	assert.True(t, math.IsNaN(z[0]))
	assert.True(t, math.IsNaN(z[1]))
	assert.InDelta(t, 1.0, z[2], 1e-12)
	assert.Greater(t, z[3], 1.0)

	flat := RollingZ([]float64{2, 2, 2}, 3)
	assert.True(t, math.IsNaN(flat[2]))
}

func TestDiffAndLogReturns(t *testing.T) {
	assert.Equal(t, []float64{1, -2}, Diff([]float64{1, 2, 0}))
	assert.Nil(t, Diff([]float64{1}))

	lr := LogReturns([]float64{1, math.E, 0})
	assert.InDelta(t, 1.0, lr[0], 1e-12)
	assert.True(t, math.IsNaN(lr[1]))
}
