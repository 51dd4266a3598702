package report

import "strings"

// KeySet is an insertion-ordered set of dynamic column keys. A key's index is
// its offset inside the dynamic column block.
type KeySet struct {
	keys  []string
	index map[string]int
}

// NewKeySet creates an empty KeySet
func NewKeySet() *KeySet {
	return &KeySet{
		keys:  []string{},
		index: make(map[string]int),
	}
}

// Add appends key if unseen. It returns the key's index and whether it was added.
func (s *KeySet) Add(key string) (int, bool) {
	if i, ok := s.index[key]; ok {
		return i, false
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	return len(s.keys) - 1, true
}

// Index returns the position of key, if present.
func (s *KeySet) Index(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// Keys returns a copy of the keys in first-seen order.
func (s *KeySet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of distinct keys.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// DiscoverKeys scans the records once and collects the distinct keys of the
// chosen nested collection in first-seen order. Blank keys are ignored.
func DiscoverKeys(records []SourceRecord, src Source) *KeySet {
	set := NewKeySet()
	for _, rec := range records {
		for _, e := range rec.Nested(src) {
			key := strings.TrimSpace(e.Key)
			if key == "" {
				continue
			}
			set.Add(key)
		}
	}
	return set
}
