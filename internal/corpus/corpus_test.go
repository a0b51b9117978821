package corpus

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/happyhackingspace/hmm/markov"
)

func TestVocabulary(t *testing.T) {
	v := NewVocabulary("H", "T")
	id0 := v.Add("H")
	id2 := v.Add("X")

	if id0 != 0 || id2 != 2 {
		t.Errorf("IDs: %d, %d; want 0, 2", id0, id2)
	}
	if v.Size() != 3 {
		t.Errorf("Size = %d, want 3", v.Size())
	}
	if v.Get("missing") != -1 {
		t.Error("Get missing should return -1")
	}
	if v.Symbol(1) != "T" || v.Symbol(7) != "" {
		t.Errorf("Symbol lookups wrong: %q %q", v.Symbol(1), v.Symbol(7))
	}
	syms := v.Symbols()
	syms[0] = "changed"
	if v.Symbol(0) != "H" {
		t.Error("Symbols must return a copy")
	}
}

func TestRead(t *testing.T) {
	input := "0,1,1,0,\n\n1\n 1 , 0 ,2\n"
	v := NewVocabulary()
	seqs, err := Read(strings.NewReader(input), v, DefaultLoadOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2 (short line dropped)", len(seqs))
	}
	want := []markov.Sequence{{0, 1, 1, 0}, {1, 0, 2}}
	for i := range want {
		if len(seqs[i]) != len(want[i]) {
			t.Fatalf("sequence %d = %v, want %v", i, seqs[i], want[i])
		}
		for j := range want[i] {
			if seqs[i][j] != want[i][j] {
				t.Errorf("sequence %d = %v, want %v", i, seqs[i], want[i])
				break
			}
		}
	}
	if got := v.Symbols(); strings.Join(got, "") != "012" {
		t.Errorf("vocabulary = %v, want first-seen order [0 1 2]", got)
	}
}

func TestReadKeepsShortWhenAsked(t *testing.T) {
	seqs, err := Read(strings.NewReader("a\nb,a\n"), NewVocabulary(), LoadOptions{MinLength: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Errorf("got %d sequences, want 2", len(seqs))
	}
}

func TestReadFixedVocabulary(t *testing.T) {
	v := NewVocabulary("0", "1")
	_, err := Read(strings.NewReader("0,1\n0,7\n"), v, LoadOptions{FixedVocabulary: true})
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("err = %v, want ErrUnknownSymbol", err)
	}
	if !errors.Is(err, markov.ErrUnknownSymbol) {
		t.Errorf("err = %v, want markov.ErrUnknownSymbol", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should name the line", err)
	}
	if v.Size() != 2 {
		t.Error("fixed vocabulary must not grow")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	v := NewVocabulary("heads", "tails")
	seqs := []markov.Sequence{{0, 1, 1}, {1, 0}}

	store := NewStorage(path)
	if err := store.Save(seqs, v); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load(v, LoadOptions{FixedVocabulary: true, MinLength: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || len(loaded[0]) != 3 || loaded[0][2] != 1 || loaded[1][0] != 1 {
		t.Errorf("loaded = %v, want %v", loaded, seqs)
	}
}

func TestWriteUnknownID(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []markov.Sequence{{0, 3}}, NewVocabulary("a"))
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("err = %v, want ErrUnknownSymbol", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewStorage(filepath.Join(t.TempDir(), "nope.txt")).Load(NewVocabulary(), DefaultLoadOptions())
	if err == nil {
		t.Error("expected error for missing corpus file")
	}
}
