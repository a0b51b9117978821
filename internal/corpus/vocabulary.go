package corpus

// Vocabulary maps between observed symbols and integer indices.
type Vocabulary struct {
	ToID  map[string]int `json:"to_id"`
	ToStr []string       `json:"to_str"`
}

// NewVocabulary creates a vocabulary holding symbols in the given order.
func NewVocabulary(symbols ...string) *Vocabulary {
	v := &Vocabulary{
		ToID: make(map[string]int),
	}
	for _, s := range symbols {
		v.Add(s)
	}
	return v
}

// Add adds a symbol if not already present, returns its ID.
func (v *Vocabulary) Add(s string) int {
	if id, ok := v.ToID[s]; ok {
		return id
	}
	id := len(v.ToStr)
	v.ToID[s] = id
	v.ToStr = append(v.ToStr, s)
	return id
}

// Get returns the ID for a symbol, or -1 if not found.
func (v *Vocabulary) Get(s string) int {
	if id, ok := v.ToID[s]; ok {
		return id
	}
	return -1
}

// Symbol returns the symbol with the given ID, or "" if out of range.
func (v *Vocabulary) Symbol(id int) string {
	if id < 0 || id >= len(v.ToStr) {
		return ""
	}
	return v.ToStr[id]
}

// Size returns the number of symbols.
func (v *Vocabulary) Size() int {
	return len(v.ToStr)
}

// Symbols returns a copy of the symbols in ID order.
func (v *Vocabulary) Symbols() []string {
	return append([]string(nil), v.ToStr...)
}
