// Package corpus reads and writes observation corpora: one sequence per
// line, symbols separated by commas.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/happyhackingspace/hmm/markov"
)

// ErrUnknownSymbol reports a symbol that is missing from a fixed vocabulary.
// It is the same value as markov.ErrUnknownSymbol.
var ErrUnknownSymbol = markov.ErrUnknownSymbol

// Storage wraps a corpus file.
type Storage struct {
	Path string
}

// NewStorage creates a Storage for the given corpus file.
func NewStorage(path string) *Storage {
	return &Storage{Path: path}
}

// LoadOptions controls how a corpus is read.
type LoadOptions struct {
	// FixedVocabulary rejects symbols the vocabulary does not already hold
	// instead of adding them.
	FixedVocabulary bool
	// MinLength drops sequences shorter than this many symbols.
	MinLength int
}

// DefaultLoadOptions returns the options used for training: the
// vocabulary grows as symbols are seen and sequences of length <= 1 are
// dropped.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MinLength: 2}
}

// Load reads every sequence of the corpus file, resolving symbols through
// vocab.
func (s *Storage) Load(vocab *Vocabulary, opts LoadOptions) ([]markov.Sequence, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	seqs, err := Read(f, vocab, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return seqs, nil
}

// Save writes seqs to the corpus file, replacing it.
func (s *Storage) Save(seqs []markov.Sequence, vocab *Vocabulary) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	if err := Write(f, seqs, vocab); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read parses a corpus from r. Blank lines are ignored, as are empty
// fields, so trailing commas are allowed.
func Read(r io.Reader, vocab *Vocabulary, opts LoadOptions) ([]markov.Sequence, error) {
	var seqs []markov.Sequence
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		seq, err := parseLine(scanner.Text(), vocab, opts.FixedVocabulary)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(seq) == 0 {
			continue
		}
		if len(seq) < opts.MinLength {
			slog.Warn("Skipping short sequence", "line", line, "length", len(seq))
			continue
		}
		seqs = append(seqs, seq)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seqs, nil
}

func parseLine(text string, vocab *Vocabulary, fixed bool) (markov.Sequence, error) {
	var seq markov.Sequence
	for _, field := range strings.Split(text, ",") {
		sym := strings.TrimSpace(field)
		if sym == "" {
			continue
		}
		id := vocab.Get(sym)
		if id < 0 {
			if fixed {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, sym)
			}
			id = vocab.Add(sym)
		}
		seq = append(seq, id)
	}
	return seq, nil
}

// Write writes seqs to w in the corpus format.
func Write(w io.Writer, seqs []markov.Sequence, vocab *Vocabulary) error {
	bw := bufio.NewWriter(w)
	for i, seq := range seqs {
		fields := make([]string, len(seq))
		for j, id := range seq {
			sym := vocab.Symbol(id)
			if sym == "" {
				return fmt.Errorf("sequence %d: %w: id %d", i, ErrUnknownSymbol, id)
			}
			fields[j] = sym
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
