package markov

import (
	"fmt"
	"math"
)

// start is the lattice column of the non-emitting start state. Real
// state k lives in column k+1.
const start = 0

// Lattice is the dynamic-programming table of one Forward or Backward
// pass: (L+1) rows by (nstate+1) columns of log probabilities. Row 0 is
// the boundary before the first observation; row i holds position i-1.
type Lattice struct {
	cells   [][]float64
	logProb float64
}

func newLattice(rows, cols int) *Lattice {
	cells := make([][]float64, rows)
	for i := range cells {
		cells[i] = make([]float64, cols)
		for j := range cells[i] {
			cells[i][j] = logZero
		}
	}
	return &Lattice{cells: cells}
}

// Len returns the number of observations the lattice covers.
func (l *Lattice) Len() int { return len(l.cells) - 1 }

// NumStates returns the number of real states in the lattice.
func (l *Lattice) NumStates() int { return len(l.cells[0]) - 1 }

// LogProb returns the sequence log-likelihood computed with the lattice.
func (l *Lattice) LogProb() float64 { return l.logProb }

// At returns the log value for observation position pos (0-based) and
// state k.
func (l *Lattice) At(pos, k int) float64 {
	return l.cells[pos+1][k+1]
}

// Forward computes f[i][k] = log P(x_1..x_i, state at i = k) and the
// sequence log-likelihood. The likelihood is -Inf for sequences the model
// cannot produce.
func Forward(m *Model, seq Sequence) (*Lattice, float64, error) {
	if err := m.Validate(seq); err != nil {
		return nil, 0, err
	}
	L, N := len(seq), m.nstate
	f := newLattice(L+1, N+1)
	f.cells[0][start] = 0

	for ell := range N {
		f.cells[1][ell+1] = m.logPi[ell] + m.logB[ell][seq[0]]
	}
	for i := 2; i <= L; i++ {
		prev, cur := f.cells[i-1], f.cells[i]
		x := seq[i-1]
		for ell := range N {
			sum := logZero
			for k := range N {
				sum = LogPlus(sum, prev[k+1]+m.logA[k][ell])
			}
			cur[ell+1] = m.logB[ell][x] + sum
		}
	}

	f.logProb = LogSum(f.cells[L][1:]...)
	return f, f.logProb, nil
}

// Backward computes b[i][k] = log P(x_{i+1}..x_L | state at i = k). The
// start cell of row 0 carries the sequence log-likelihood, which agrees
// with Forward's.
func Backward(m *Model, seq Sequence) (*Lattice, float64, error) {
	if err := m.Validate(seq); err != nil {
		return nil, 0, err
	}
	L, N := len(seq), m.nstate
	b := newLattice(L+1, N+1)
	for k := range N {
		b.cells[L][k+1] = 0
	}

	for i := L - 1; i >= 1; i-- {
		next, cur := b.cells[i+1], b.cells[i]
		x := seq[i]
		for k := range N {
			sum := logZero
			for ell := range N {
				sum = LogPlus(sum, m.logA[k][ell]+m.logB[ell][x]+next[ell+1])
			}
			cur[k+1] = sum
		}
	}

	sum := logZero
	for ell := range N {
		sum = LogPlus(sum, m.logPi[ell]+m.logB[ell][seq[0]]+b.cells[1][ell+1])
	}
	b.cells[0][start] = sum
	b.logProb = sum
	return b, sum, nil
}

// Posterior returns P(state at pos = k | whole sequence) from a Forward
// and Backward lattice of the same model and sequence. Positions are
// 0-based observation indices.
func Posterior(fwd, bwd *Lattice, pos, k int) (float64, error) {
	if err := checkLattices(fwd, bwd); err != nil {
		return 0, err
	}
	if pos < 0 || pos >= fwd.Len() || k < 0 || k >= fwd.NumStates() {
		return 0, fmt.Errorf("markov: %w: position %d, state %d in a %dx%d lattice",
			ErrPositionOutOfRange, pos, k, fwd.Len(), fwd.NumStates())
	}
	return posterior(fwd, bwd, pos+1, k+1), nil
}

// Posteriors returns the full [L][nstate] table of posterior state
// probabilities.
func Posteriors(fwd, bwd *Lattice) ([][]float64, error) {
	if err := checkLattices(fwd, bwd); err != nil {
		return nil, err
	}
	L, N := fwd.Len(), fwd.NumStates()
	out := make([][]float64, L)
	for i := range L {
		out[i] = make([]float64, N)
		for k := range N {
			out[i][k] = posterior(fwd, bwd, i+1, k+1)
		}
	}
	return out, nil
}

// posterior works on raw lattice coordinates.
func posterior(fwd, bwd *Lattice, row, col int) float64 {
	if math.IsInf(fwd.logProb, -1) {
		return 0
	}
	return math.Exp(fwd.cells[row][col] + bwd.cells[row][col] - fwd.logProb)
}

func checkLattices(fwd, bwd *Lattice) error {
	if fwd == nil || bwd == nil {
		return fmt.Errorf("markov: %w: nil lattice", ErrLatticeMismatch)
	}
	if fwd.Len() != bwd.Len() || fwd.NumStates() != bwd.NumStates() {
		return fmt.Errorf("markov: %w: %dx%d vs %dx%d", ErrLatticeMismatch,
			fwd.Len(), fwd.NumStates(), bwd.Len(), bwd.NumStates())
	}
	return nil
}
