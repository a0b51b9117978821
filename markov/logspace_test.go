package markov

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPlusRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		p := -rng.Float64() * math.Pow(10, float64(rng.IntN(4)))
		q := -rng.Float64() * 50
		got := math.Exp(LogPlus(p, q))
		want := math.Exp(p) + math.Exp(q)
		require.InEpsilon(t, want, got, 1e-9, "p=%v q=%v", p, q)
		assert.Equal(t, LogPlus(p, q), LogPlus(q, p))
	}
}

func TestLogPlusInfinity(t *testing.T) {
	negInf := math.Inf(-1)
	tests := []struct {
		p, q, want float64
	}{
		{-1.5, negInf, -1.5},
		{negInf, -0.25, -0.25},
		{0, negInf, 0},
		{negInf, negInf, negInf},
		{math.Log(0.5), math.Log(0.5), 0},
		{-100, -1, -1}, // below the cutoff the smaller term vanishes
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, LogPlus(tt.p, tt.q), 1e-15, "LogPlus(%v, %v)", tt.p, tt.q)
	}
	assert.True(t, math.IsInf(LogPlus(negInf, negInf), -1))
}

func TestLogSum(t *testing.T) {
	assert.True(t, math.IsInf(LogSum(), -1))
	got := LogSum(math.Log(0.1), math.Log(0.2), math.Log(0.3), math.Inf(-1))
	assert.InDelta(t, math.Log(0.6), got, 1e-12)
}

func TestNormalize(t *testing.T) {
	row := []float64{1, 3, 0}
	require.True(t, Normalize(row))
	assert.InDeltaSlice(t, []float64{0.25, 0.75, 0}, row, 1e-15)

	empty := []float64{0, 0}
	assert.False(t, Normalize(empty))
	assert.Equal(t, []float64{0, 0}, empty)
}
