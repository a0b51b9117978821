package markov

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViterbiBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	for trial := range 10 {
		m := Random(3, 4, rand.NewPCG(uint64(trial), 5))
		seq := randomSequence(rng, 4, 5)

		best := math.Inf(-1)
		enumeratePaths(3, len(seq), func(path []int) {
			best = math.Max(best, pathLogProb(m, path, seq))
		})

		path, score, err := Viterbi(m, seq)
		require.NoError(t, err)
		assert.InDelta(t, best, score, 1e-9, "trial %d", trial)
		assert.InDelta(t, score, pathLogProb(m, path, seq), 1e-9, "returned path must score what Viterbi reports")
	}
}

func TestViterbiOneHotEmissions(t *testing.T) {
	// State k always emits symbol k, so decoding is a lookup.
	m, err := New(3, 3,
		nil,
		[][]float64{{0.6, 0.3, 0.1}, {0.2, 0.2, 0.6}, {0.3, 0.4, 0.3}},
		[][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	require.NoError(t, err)

	seq := Sequence{0, 2, 1, 1, 0, 2, 2}
	path, score, err := Viterbi(m, seq)
	require.NoError(t, err)
	assert.Equal(t, []int(seq), path)
	assert.False(t, math.IsInf(score, 0))
}

func TestViterbiTiesPreferLowestState(t *testing.T) {
	m, err := New(3, 2, nil, nil, nil)
	require.NoError(t, err)

	path, score, err := Viterbi(m, Sequence{1, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, path)
	assert.InDelta(t, 4*math.Log(1.0/3)+4*math.Log(0.5), score, 1e-12)
}

func TestDecodeNames(t *testing.T) {
	names, _, err := DiceModel().Decode(Sequence{0, 1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "B", "A"}, names)

	_, _, err = DiceModel().Decode(nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}
