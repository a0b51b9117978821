package markov

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TrainerConfig holds Baum-Welch hyperparameters.
type TrainerConfig struct {
	Threshold     float64 // stop when |ΔlogL| over one iteration is at most this
	MaxIterations int     // hard cap on iterations, <= 0 for none
}

// DefaultTrainerConfig returns the default training config.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Threshold:     1e-6,
		MaxIterations: 1000,
	}
}

// TrainerState is the lifecycle stage of a Trainer.
type TrainerState int

const (
	// Initialized means the corpus was evaluated but no iteration ran.
	Initialized TrainerState = iota
	// Iterating means at least one iteration ran without meeting a stop rule.
	Iterating
	// Converged means the log-likelihood change fell within the threshold.
	Converged
	// MaxIterationsReached means training stopped at the iteration cap.
	MaxIterationsReached
)

func (s TrainerState) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max-iterations-reached"
	}
	return fmt.Sprintf("TrainerState(%d)", int(s))
}

// Done reports whether the state is terminal.
func (s TrainerState) Done() bool {
	return s == Converged || s == MaxIterationsReached
}

// Result summarizes a finished training run.
type Result struct {
	Model         *Model
	Iterations    int
	LogLikelihood float64
	State         TrainerState
	History       []float64 // corpus log-likelihood before the first and after every iteration
	Fallbacks     int       // rows re-used from the previous model for lack of data
}

// Trainer runs Baum-Welch re-estimation over a fixed corpus. A Trainer is
// not safe for concurrent use.
type Trainer struct {
	config    TrainerConfig
	corpus    []Sequence
	model     *Model
	fwds      []*Lattice
	bwds      []*Lattice
	logL      float64
	history   []float64
	iter      int
	fallbacks int
	state     TrainerState
}

// NewTrainer validates the corpus against initial and evaluates it once.
// Sequences shorter than two observations carry no transition evidence and
// are skipped with a warning. A symbol outside the model's alphabet, or a
// sequence the initial model cannot produce, is an error.
func NewTrainer(initial *Model, corpus []Sequence, config TrainerConfig) (*Trainer, error) {
	if initial == nil {
		return nil, fmt.Errorf("markov: %w", ErrNoModel)
	}
	kept := make([]Sequence, 0, len(corpus))
	for i, seq := range corpus {
		if len(seq) <= 1 {
			slog.Warn("Skipping trivial sequence", "index", i, "length", len(seq))
			continue
		}
		if err := initial.Validate(seq); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		kept = append(kept, seq)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("markov: %w: no sequences longer than one observation", ErrEmptyCorpus)
	}

	t := &Trainer{
		config: config,
		corpus: kept,
		model:  initial,
		fwds:   make([]*Lattice, len(kept)),
		bwds:   make([]*Lattice, len(kept)),
	}
	if err := t.evaluate(); err != nil {
		return nil, err
	}
	for i, f := range t.fwds {
		if math.IsInf(f.logProb, -1) {
			return nil, fmt.Errorf("markov: %w: sequence %d", ErrZeroLikelihood, i)
		}
	}
	t.history = append(t.history, t.logL)
	slog.Debug("Baum-Welch initialized", "sequences", len(kept), "log_likelihood", t.logL)
	return t, nil
}

// Train runs Baum-Welch from initial until convergence or the iteration cap.
func Train(initial *Model, corpus []Sequence, config TrainerConfig) (*Result, error) {
	t, err := NewTrainer(initial, corpus, config)
	if err != nil {
		return nil, err
	}
	return t.Run()
}

// Run iterates until the trainer reaches a terminal state.
func (t *Trainer) Run() (*Result, error) {
	for !t.state.Done() {
		if _, err := t.Step(); err != nil {
			return nil, err
		}
	}
	return t.Result(), nil
}

// Step performs one EM iteration and returns the corpus log-likelihood
// under the new model. Stepping a finished trainer is a no-op.
func (t *Trainer) Step() (float64, error) {
	if t.state.Done() {
		return t.logL, nil
	}
	t.state = Iterating

	st := newStats(t.model.nstate, t.model.nesym)
	for s, seq := range t.corpus {
		part := newStats(t.model.nstate, t.model.nesym)
		part.accumulate(t.model, seq, t.fwds[s], t.bwds[s])
		st.merge(part)
	}
	next, fallbacks := st.reestimate(t.model)
	t.fallbacks += fallbacks

	prev := t.logL
	t.model = next
	if err := t.evaluate(); err != nil {
		return 0, err
	}
	t.iter++
	t.history = append(t.history, t.logL)

	delta := math.Abs(t.logL - prev)
	slog.Debug("Baum-Welch iteration", "iteration", t.iter, "log_likelihood", t.logL, "delta", delta)

	switch {
	case delta <= t.config.Threshold:
		t.state = Converged
		slog.Debug("Baum-Welch converged", "iteration", t.iter, "log_likelihood", t.logL)
	case t.config.MaxIterations > 0 && t.iter >= t.config.MaxIterations:
		t.state = MaxIterationsReached
		slog.Debug("Baum-Welch stopped at iteration cap", "iteration", t.iter, "log_likelihood", t.logL)
	}
	return t.logL, nil
}

// evaluate recomputes the lattices and corpus log-likelihood under the
// current model.
func (t *Trainer) evaluate() error {
	total := 0.0
	for s, seq := range t.corpus {
		fwd, logP, err := Forward(t.model, seq)
		if err != nil {
			return err
		}
		bwd, _, err := Backward(t.model, seq)
		if err != nil {
			return err
		}
		t.fwds[s], t.bwds[s] = fwd, bwd
		total += logP
	}
	t.logL = total
	return nil
}

// Model returns the current model.
func (t *Trainer) Model() *Model { return t.model }

// LogLikelihood returns the corpus log-likelihood under the current model.
func (t *Trainer) LogLikelihood() float64 { return t.logL }

// Iterations returns the number of completed iterations.
func (t *Trainer) Iterations() int { return t.iter }

// State returns the trainer's lifecycle state.
func (t *Trainer) State() TrainerState { return t.state }

// Fallbacks returns how many parameter rows were carried over from a
// previous model because their expected counts were zero.
func (t *Trainer) Fallbacks() int { return t.fallbacks }

// History returns the corpus log-likelihood before training and after
// each iteration.
func (t *Trainer) History() []float64 { return append([]float64(nil), t.history...) }

// Result snapshots the trainer.
func (t *Trainer) Result() *Result {
	return &Result{
		Model:         t.model,
		Iterations:    t.iter,
		LogLikelihood: t.logL,
		State:         t.state,
		History:       t.History(),
		Fallbacks:     t.fallbacks,
	}
}

// stats holds the expected sufficient statistics of one iteration, in
// linear space.
type stats struct {
	initial     []float64   // [nstate]
	transitions [][]float64 // [nstate][nstate]
	emissions   [][]float64 // [nstate][nesym]
}

func newStats(nstate, nesym int) *stats {
	st := &stats{
		initial:     make([]float64, nstate),
		transitions: make([][]float64, nstate),
		emissions:   make([][]float64, nstate),
	}
	for k := range nstate {
		st.transitions[k] = make([]float64, nstate)
		st.emissions[k] = make([]float64, nesym)
	}
	return st
}

// accumulate adds the expected counts of one sequence. fwd and bwd must
// come from m and seq, and the sequence likelihood must be non-zero.
func (st *stats) accumulate(m *Model, seq Sequence, fwd, bwd *Lattice) {
	L, N := len(seq), m.nstate
	logP := fwd.logProb

	first := make([]float64, N)
	for k := range N {
		first[k] = math.Exp(fwd.cells[1][k+1] + bwd.cells[1][k+1] - logP)
	}
	if Normalize(first) {
		floats.Add(st.initial, first)
	}

	for i := 1; i <= L; i++ {
		x := seq[i-1]
		for k := range N {
			st.emissions[k][x] += math.Exp(fwd.cells[i][k+1] + bwd.cells[i][k+1] - logP)
		}
	}

	for i := 1; i < L; i++ {
		x := seq[i]
		for k := range N {
			fk := fwd.cells[i][k+1]
			for ell := range N {
				st.transitions[k][ell] += math.Exp(fk + m.logA[k][ell] + m.logB[ell][x] + bwd.cells[i+1][ell+1] - logP)
			}
		}
	}
}

// merge adds other's counts into st.
func (st *stats) merge(other *stats) {
	floats.Add(st.initial, other.initial)
	for k := range st.transitions {
		floats.Add(st.transitions[k], other.transitions[k])
		floats.Add(st.emissions[k], other.emissions[k])
	}
}

// reestimate normalizes the counts into a new model. A row with no
// expected counts keeps prev's row; the number of such rows is returned.
func (st *stats) reestimate(prev *Model) (*Model, int) {
	fallbacks := 0
	keep := func(name string, row []float64, prevLog []float64) []float64 {
		out := append([]float64(nil), row...)
		if Normalize(out) {
			return out
		}
		slog.Warn("Zero denominator in re-estimation, keeping previous row", "row", name)
		fallbacks++
		return expRow(prevLog)
	}

	initial := keep("initial", st.initial, prev.logPi)
	transitions := make([][]float64, prev.nstate)
	emissions := make([][]float64, prev.nstate)
	for k := range prev.nstate {
		transitions[k] = keep(fmt.Sprintf("transitions[%d]", k), st.transitions[k], prev.logA[k])
		emissions[k] = keep(fmt.Sprintf("emissions[%d]", k), st.emissions[k], prev.logB[k])
	}
	return fromProbabilities(initial, transitions, emissions, prev.states), fallbacks
}
