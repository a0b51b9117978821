package markov

import "errors"

var (
	// ErrShapeMismatch reports parameter dimensions that disagree with the
	// declared number of states or symbols.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidDistribution reports a parameter row that is not a
	// probability distribution.
	ErrInvalidDistribution = errors.New("invalid probability distribution")

	// ErrEmptySequence is returned when an algorithm is handed a sequence
	// with no observations.
	ErrEmptySequence = errors.New("empty sequence")

	// ErrUnknownSymbol reports a symbol index outside the model's alphabet.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrEmptyCorpus is returned when no trainable sequences remain.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrZeroLikelihood reports a training sequence that the model assigns
	// probability zero.
	ErrZeroLikelihood = errors.New("sequence has zero likelihood")

	// ErrLatticeMismatch reports a Forward and Backward lattice of
	// different shapes.
	ErrLatticeMismatch = errors.New("forward and backward lattices disagree")

	// ErrPositionOutOfRange reports a posterior query outside the lattice.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrNoModel is returned when training is started without a model.
	ErrNoModel = errors.New("no initial model")
)
