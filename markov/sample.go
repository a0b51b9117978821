package markov

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DiceModel returns the two biased dice model: die A mostly shows 1, die
// B mostly shows 0, and the chain prefers moving to B.
func DiceModel() *Model {
	m, err := New(2, 2,
		[]float64{0.5, 0.5},
		[][]float64{{0.1, 0.9}, {0.2, 0.8}},
		[][]float64{{0.2, 0.8}, {0.9, 0.1}},
	)
	if err != nil {
		panic(err)
	}
	m, err = m.WithStateNames([]string{"A", "B"})
	if err != nil {
		panic(err)
	}
	return m
}

// sampler draws from a model's distributions.
type sampler struct {
	initial     distuv.Categorical
	transitions []distuv.Categorical
	emissions   []distuv.Categorical
}

func newSampler(m *Model, src rand.Source) *sampler {
	s := &sampler{
		initial:     distuv.NewCategorical(m.Pi(), src),
		transitions: make([]distuv.Categorical, m.nstate),
		emissions:   make([]distuv.Categorical, m.nstate),
	}
	for k := range m.nstate {
		s.transitions[k] = distuv.NewCategorical(expRow(m.logA[k]), src)
		s.emissions[k] = distuv.NewCategorical(expRow(m.logB[k]), src)
	}
	return s
}

func (s *sampler) sample(length int) ([]int, Sequence) {
	states := make([]int, length)
	symbols := make(Sequence, length)
	if length == 0 {
		return states, symbols
	}
	k := int(s.initial.Rand())
	for i := range length {
		states[i] = k
		symbols[i] = int(s.emissions[k].Rand())
		k = int(s.transitions[k].Rand())
	}
	return states, symbols
}

// Sample draws a hidden path and the observations it emits.
func (m *Model) Sample(length int, src rand.Source) ([]int, Sequence) {
	return newSampler(m, src).sample(length)
}

// Generate draws n independent sequences of the given length.
func Generate(m *Model, n, length int, src rand.Source) []Sequence {
	s := newSampler(m, src)
	out := make([]Sequence, n)
	for i := range out {
		_, out[i] = s.sample(length)
	}
	return out
}
