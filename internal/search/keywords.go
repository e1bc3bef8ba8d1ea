package search

import (
	"slices"
	"strings"
)

// KeywordSet is the ordered list of active search keywords. Entries are
// trimmed and unique (case-sensitive).
type KeywordSet struct {
	items []string
}

// NewKeywordSet returns a set seeded with initial, skipping blanks and
// duplicates.
func NewKeywordSet(initial ...string) *KeywordSet {
	s := &KeywordSet{}
	for _, kw := range initial {
		s.Add(kw)
	}
	return s
}

// Add appends kw after trimming it. It returns false for blank or already
// present keywords.
func (s *KeywordSet) Add(kw string) bool {
	kw = strings.TrimSpace(kw)
	if kw == "" || slices.Contains(s.items, kw) {
		return false
	}
	s.items = append(s.items, kw)
	return true
}

// Remove deletes kw and reports whether it was present.
func (s *KeywordSet) Remove(kw string) bool {
	i := slices.Index(s.items, kw)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *KeywordSet) Contains(kw string) bool { return slices.Contains(s.items, kw) }

// List returns a copy in insertion order.
func (s *KeywordSet) List() []string { return append(make([]string, 0, len(s.items)), s.items...) }

func (s *KeywordSet) Len() int { return len(s.items) }
