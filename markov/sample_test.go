package markov

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleEmissionFrequencies(t *testing.T) {
	m := DiceModel()
	states, symbols := m.Sample(20000, rand.NewPCG(31, 32))
	require.Len(t, states, 20000)
	require.Len(t, symbols, 20000)

	var visits, zeros [2]int
	for i, k := range states {
		visits[k]++
		if symbols[i] == 0 {
			zeros[k]++
		}
	}
	assert.InDelta(t, 0.2, float64(zeros[0])/float64(visits[0]), 0.03)
	assert.InDelta(t, 0.9, float64(zeros[1])/float64(visits[1]), 0.03)
}

func TestGenerateReproducible(t *testing.T) {
	a := Generate(DiceModel(), 5, 8, rand.NewPCG(1, 2))
	b := Generate(DiceModel(), 5, 8, rand.NewPCG(1, 2))
	require.Len(t, a, 5)
	assert.Equal(t, a, b)
	for _, seq := range a {
		assert.Len(t, seq, 8)
		assert.NoError(t, DiceModel().Validate(seq))
	}

	states, symbols := DiceModel().Sample(0, rand.NewPCG(1, 2))
	assert.Empty(t, states)
	assert.Empty(t, symbols)
}
