package hmm

import (
	"fmt"
	"math/rand/v2"

	"github.com/happyhackingspace/hmm/internal/corpus"
	"github.com/happyhackingspace/hmm/markov"
)

// TrainConfig holds configuration for training. Threshold and
// MaxIterations are passed to the trainer as given: a zero threshold runs
// until the likelihood stops changing, and a cap of zero or less means none.
type TrainConfig struct {
	States        int
	Threshold     float64
	MaxIterations int
	Seed          uint64
	// Symbols fixes the emission alphabet and its order. Empty means the
	// alphabet is whatever the corpus contains, in first-seen order.
	Symbols []string
	// Initial overrides the random starting model.
	Initial *markov.Model
}

// DefaultTrainConfig returns the configuration Train uses for a nil config.
func DefaultTrainConfig() TrainConfig {
	tc := markov.DefaultTrainerConfig()
	return TrainConfig{
		States:        2,
		Threshold:     tc.Threshold,
		MaxIterations: tc.MaxIterations,
		Seed:          1,
	}
}

// TrainResult holds a trained model together with the alphabet its
// emission columns refer to.
type TrainResult struct {
	*markov.Result
	Symbols   []string
	Sequences int
}

// Params is the printable form of a trained model.
type Params struct {
	markov.Params
	Symbols       []string `json:"symbols"`
	Iterations    int      `json:"iterations"`
	LogLikelihood float64  `json:"log_likelihood"`
	State         string   `json:"state"`
}

// Params returns the learned parameters for display.
func (r *TrainResult) Params() Params {
	return Params{
		Params:        r.Model.Params(),
		Symbols:       r.Symbols,
		Iterations:    r.Iterations,
		LogLikelihood: r.LogLikelihood,
		State:         r.State.String(),
	}
}

// Train runs Baum-Welch on the sequences in dataFile, starting from a
// seeded random model unless config.Initial is set.
func Train(dataFile string, config *TrainConfig) (*TrainResult, error) {
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}
	trainerConfig := markov.TrainerConfig{
		Threshold:     cfg.Threshold,
		MaxIterations: cfg.MaxIterations,
	}

	vocab := corpus.NewVocabulary(cfg.Symbols...)
	opts := corpus.DefaultLoadOptions()
	opts.FixedVocabulary = len(cfg.Symbols) > 0
	seqs, err := corpus.NewStorage(dataFile).Load(vocab, opts)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("hmm: %w: no sequences in %s", markov.ErrEmptyCorpus, dataFile)
	}

	initial := cfg.Initial
	if initial == nil {
		if cfg.States < 1 {
			return nil, fmt.Errorf("hmm: %w: %d states", markov.ErrShapeMismatch, cfg.States)
		}
		initial = markov.Random(cfg.States, vocab.Size(), rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	if initial.NumSymbols() != vocab.Size() {
		return nil, fmt.Errorf("hmm: %w: model emits %d symbols, corpus has %d",
			markov.ErrShapeMismatch, initial.NumSymbols(), vocab.Size())
	}

	res, err := markov.Train(initial, seqs, trainerConfig)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	return &TrainResult{
		Result:    res,
		Symbols:   vocab.Symbols(),
		Sequences: len(seqs),
	}, nil
}
