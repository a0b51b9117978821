// Package markov implements a discrete hidden Markov model: Forward,
// Backward and Viterbi over log probabilities, posterior decoding, and
// Baum-Welch re-estimation.
package markov

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// rowTolerance is how far a parameter row may sum from one.
const rowTolerance = 1e-6

// Sequence is an observed sequence of symbol indices.
type Sequence []int

// Model holds HMM parameters in log space. A Model is never mutated after
// construction; training produces new models.
type Model struct {
	nstate int
	nesym  int
	logPi  []float64   // [nstate] log P(first state = k)
	logA   [][]float64 // [nstate][nstate] log P(k -> ell)
	logB   [][]float64 // [nstate][nesym] log P(emit b | k)
	states []string
}

// Params is a probability-space snapshot of a model, used for display.
type Params struct {
	States      []string    `json:"states,omitempty"`
	Initial     []float64   `json:"initial"`
	Transitions [][]float64 `json:"transitions"`
	Emissions   [][]float64 `json:"emissions"`
}

// New builds a model from probability-space parameters. A nil initial
// vector, transition matrix or emission matrix is replaced by the uniform
// distribution. Every row must be a probability distribution.
func New(nstate, nesym int, initial []float64, transitions, emissions [][]float64) (*Model, error) {
	if nstate < 1 || nesym < 1 {
		return nil, fmt.Errorf("markov: %w: need at least one state and one symbol, got %d states, %d symbols",
			ErrShapeMismatch, nstate, nesym)
	}
	if initial == nil {
		initial = uniform(nstate)
	}
	if transitions == nil {
		transitions = uniformMatrix(nstate, nstate)
	}
	if emissions == nil {
		emissions = uniformMatrix(nstate, nesym)
	}

	if len(initial) != nstate {
		return nil, fmt.Errorf("markov: %w: initial has %d entries, want %d", ErrShapeMismatch, len(initial), nstate)
	}
	if len(transitions) != nstate {
		return nil, fmt.Errorf("markov: %w: transitions has %d rows, want %d", ErrShapeMismatch, len(transitions), nstate)
	}
	if len(emissions) != nstate {
		return nil, fmt.Errorf("markov: %w: emissions has %d rows, want %d", ErrShapeMismatch, len(emissions), nstate)
	}
	for k := range nstate {
		if len(transitions[k]) != nstate {
			return nil, fmt.Errorf("markov: %w: transitions row %d has %d entries, want %d",
				ErrShapeMismatch, k, len(transitions[k]), nstate)
		}
		if len(emissions[k]) != nesym {
			return nil, fmt.Errorf("markov: %w: emissions row %d has %d entries, want %d",
				ErrShapeMismatch, k, len(emissions[k]), nesym)
		}
	}

	if err := checkDistribution("initial", initial); err != nil {
		return nil, err
	}
	for k := range nstate {
		if err := checkDistribution(fmt.Sprintf("transitions row %d", k), transitions[k]); err != nil {
			return nil, err
		}
		if err := checkDistribution(fmt.Sprintf("emissions row %d", k), emissions[k]); err != nil {
			return nil, err
		}
	}

	return fromProbabilities(initial, transitions, emissions, nil), nil
}

// Random returns a model whose parameters are independent draws from
// Uniform(0.5, 1.5), normalized per row. The draws come from src, so equal
// seeds give equal models. Random panics if nstate or nesym is less than
// one.
func Random(nstate, nesym int, src rand.Source) *Model {
	if nstate < 1 || nesym < 1 {
		panic(fmt.Sprintf("markov: %v: %d states, %d symbols", ErrShapeMismatch, nstate, nesym))
	}
	u := distuv.Uniform{Min: 0.5, Max: 1.5, Src: src}
	draw := func(n int) []float64 {
		row := make([]float64, n)
		for i := range row {
			row[i] = u.Rand()
		}
		Normalize(row)
		return row
	}

	initial := draw(nstate)
	transitions := make([][]float64, nstate)
	emissions := make([][]float64, nstate)
	for k := range nstate {
		transitions[k] = draw(nstate)
		emissions[k] = draw(nesym)
	}
	return fromProbabilities(initial, transitions, emissions, nil)
}

// fromProbabilities builds a model from already validated parameters.
func fromProbabilities(initial []float64, transitions, emissions [][]float64, states []string) *Model {
	m := &Model{
		nstate: len(initial),
		nesym:  len(emissions[0]),
		logPi:  logRow(initial),
		logA:   make([][]float64, len(transitions)),
		logB:   make([][]float64, len(emissions)),
		states: states,
	}
	for k := range transitions {
		m.logA[k] = logRow(transitions[k])
		m.logB[k] = logRow(emissions[k])
	}
	return m
}

func checkDistribution(name string, row []float64) error {
	for i, p := range row {
		if math.IsNaN(p) || p < 0 || p > 1+rowTolerance {
			return fmt.Errorf("markov: %w: %s entry %d is %v", ErrInvalidDistribution, name, i, p)
		}
	}
	if sum := floats.Sum(row); math.Abs(sum-1) > rowTolerance {
		return fmt.Errorf("markov: %w: %s sums to %v", ErrInvalidDistribution, name, sum)
	}
	return nil
}

func uniform(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = 1 / float64(n)
	}
	return row
}

func uniformMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = uniform(cols)
	}
	return m
}

// WithStateNames returns a copy of m labelled with the given state names.
func (m *Model) WithStateNames(names []string) (*Model, error) {
	if len(names) != m.nstate {
		return nil, fmt.Errorf("markov: %w: %d state names for %d states", ErrShapeMismatch, len(names), m.nstate)
	}
	c := *m
	c.states = append([]string(nil), names...)
	return &c, nil
}

// NumStates returns the number of hidden states.
func (m *Model) NumStates() int { return m.nstate }

// NumSymbols returns the size of the emission alphabet.
func (m *Model) NumSymbols() int { return m.nesym }

// StateName returns the label of state k, or its index when unlabelled.
func (m *Model) StateName(k int) string {
	if k >= 0 && k < len(m.states) {
		return m.states[k]
	}
	return fmt.Sprint(k)
}

// LogPi returns a copy of the log initial-state distribution.
func (m *Model) LogPi() []float64 { return append([]float64(nil), m.logPi...) }

// LogA returns a copy of the log transition matrix.
func (m *Model) LogA() [][]float64 { return copyMatrix(m.logA) }

// LogB returns a copy of the log emission matrix.
func (m *Model) LogB() [][]float64 { return copyMatrix(m.logB) }

// Pi returns the initial-state distribution.
func (m *Model) Pi() []float64 { return expRow(m.logPi) }

// A returns the transition matrix.
func (m *Model) A() [][]float64 { return expMatrix(m.logA) }

// B returns the emission matrix.
func (m *Model) B() [][]float64 { return expMatrix(m.logB) }

// Params returns the model's parameters in probability space.
func (m *Model) Params() Params {
	return Params{
		States:      append([]string(nil), m.states...),
		Initial:     m.Pi(),
		Transitions: m.A(),
		Emissions:   m.B(),
	}
}

// Validate checks that every symbol of seq belongs to the model's alphabet.
func (m *Model) Validate(seq Sequence) error {
	if len(seq) == 0 {
		return fmt.Errorf("markov: %w", ErrEmptySequence)
	}
	for i, x := range seq {
		if x < 0 || x >= m.nesym {
			return fmt.Errorf("markov: %w: symbol %d at position %d, alphabet has %d symbols",
				ErrUnknownSymbol, x, i, m.nesym)
		}
	}
	return nil
}

func copyMatrix(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func expMatrix(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = expRow(row)
	}
	return out
}
