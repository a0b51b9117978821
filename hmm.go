// Package hmm trains and decodes discrete hidden Markov models over
// corpus files.
//
//	res, _ := hmm.Train("data.txt", &hmm.TrainConfig{States: 2})
//	fmt.Println(res.Model.Params())
//
// The algorithms themselves live in package markov.
package hmm

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/happyhackingspace/hmm/internal/corpus"
	"github.com/happyhackingspace/hmm/markov"
)

// LogProb is a log probability that marshals -Inf, which JSON cannot
// represent as a number, as the string "-Inf".
type LogProb float64

// MarshalJSON implements json.Marshaler.
func (p LogProb) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(p), -1) {
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(float64(p))
}

// Decoding is the analysis of one observed sequence under a fixed model.
type Decoding struct {
	Symbols       []string    `json:"symbols"`
	Path          []string    `json:"path"`
	PathLogProb   LogProb     `json:"path_log_prob"`
	LogLikelihood LogProb     `json:"log_likelihood"`
	Posteriors    [][]float64 `json:"posteriors,omitempty"`
}

// DecodeConfig holds configuration for decoding.
type DecodeConfig struct {
	// Symbols names the model's emission columns in order. Empty means
	// "0", "1", ... up to the model's alphabet size.
	Symbols    []string
	Posteriors bool
}

// GenerateConfig holds configuration for sampling a corpus.
type GenerateConfig struct {
	Sequences int
	Length    int
	Seed      uint64
	Symbols   []string
}

// BuildModel creates a model from flat row-major parameter slices, as
// given on the command line. Nil slices mean uniform parameters.
func BuildModel(states, symbols int, initial, transitions, emissions []float64, names []string) (*markov.Model, error) {
	a, err := reshape(transitions, states, states)
	if err != nil {
		return nil, fmt.Errorf("hmm: transitions: %w", err)
	}
	b, err := reshape(emissions, states, symbols)
	if err != nil {
		return nil, fmt.Errorf("hmm: emissions: %w", err)
	}
	m, err := markov.New(states, symbols, initial, a, b)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	if len(names) > 0 {
		if m, err = m.WithStateNames(names); err != nil {
			return nil, fmt.Errorf("hmm: %w", err)
		}
	}
	return m, nil
}

func reshape(flat []float64, rows, cols int) ([][]float64, error) {
	if flat == nil {
		return nil, nil
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", markov.ErrShapeMismatch, len(flat), rows, cols)
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols]
	}
	return out, nil
}

// Decode runs Viterbi and Forward-Backward over every sequence in
// dataFile.
func Decode(dataFile string, model *markov.Model, config *DecodeConfig) ([]Decoding, error) {
	if config == nil {
		config = &DecodeConfig{}
	}
	symbols := config.Symbols
	if len(symbols) == 0 {
		symbols = indexSymbols(model.NumSymbols())
	}
	if len(symbols) != model.NumSymbols() {
		return nil, fmt.Errorf("hmm: %w: %d symbol names for %d symbols", markov.ErrShapeMismatch, len(symbols), model.NumSymbols())
	}
	vocab := corpus.NewVocabulary(symbols...)
	opts := corpus.LoadOptions{FixedVocabulary: true, MinLength: 1}
	seqs, err := corpus.NewStorage(dataFile).Load(vocab, opts)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}

	out := make([]Decoding, 0, len(seqs))
	for i, seq := range seqs {
		d, err := decodeOne(model, seq, vocab, config.Posteriors)
		if err != nil {
			return nil, fmt.Errorf("hmm: sequence %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeOne(model *markov.Model, seq markov.Sequence, vocab *corpus.Vocabulary, posteriors bool) (Decoding, error) {
	path, score, err := model.Decode(seq)
	if err != nil {
		return Decoding{}, err
	}
	fwd, logP, err := markov.Forward(model, seq)
	if err != nil {
		return Decoding{}, err
	}
	d := Decoding{
		Symbols:       make([]string, len(seq)),
		Path:          path,
		PathLogProb:   LogProb(score),
		LogLikelihood: LogProb(logP),
	}
	for i, id := range seq {
		d.Symbols[i] = vocab.Symbol(id)
	}
	if posteriors {
		bwd, _, err := markov.Backward(model, seq)
		if err != nil {
			return Decoding{}, err
		}
		if d.Posteriors, err = markov.Posteriors(fwd, bwd); err != nil {
			return Decoding{}, err
		}
	}
	return d, nil
}

// Generate samples a corpus from model and writes it to outFile.
func Generate(outFile string, model *markov.Model, config *GenerateConfig) error {
	if config == nil || config.Sequences <= 0 || config.Length <= 0 {
		return fmt.Errorf("hmm: generate needs a positive sequence count and length")
	}
	symbols := config.Symbols
	if len(symbols) == 0 {
		symbols = indexSymbols(model.NumSymbols())
	}
	if len(symbols) != model.NumSymbols() {
		return fmt.Errorf("hmm: %w: %d symbol names for %d symbols", markov.ErrShapeMismatch, len(symbols), model.NumSymbols())
	}

	seqs := markov.Generate(model, config.Sequences, config.Length, rand.NewPCG(config.Seed, config.Seed))
	if err := corpus.NewStorage(outFile).Save(seqs, corpus.NewVocabulary(symbols...)); err != nil {
		return fmt.Errorf("hmm: %w", err)
	}
	return nil
}

// indexSymbols names n emission columns by their index.
func indexSymbols(n int) []string {
	out := make([]string, n)
	for b := range out {
		out[b] = fmt.Sprint(b)
	}
	return out
}
