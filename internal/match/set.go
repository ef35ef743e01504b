package match

// Set is an insertion-ordered set of identifiers.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns a set holding ids in first-seen order.
func NewSet(ids ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s *Set) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of identifiers.
func (s *Set) Len() int {
	return len(s.order)
}

// Items returns a copy of the identifiers in insertion order.
func (s *Set) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Difference returns the items of s not present in other, in s order.
func (s *Set) Difference(other *Set) []string {
	var out []string
	for _, id := range s.order {
		if other == nil || !other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Usage accumulates which candidates have been seen across any number of
// texts. The candidate set is never modified; used identifiers go into a
// separate set and the unused ones are derived as a difference on demand.
type Usage struct {
	candidates *Set
	patterns   []Pattern
	used       *Set
}

// NewUsage prepares a usage tracker over candidates.
func NewUsage(candidates *Set, chars Charset) *Usage {
	return &Usage{
		candidates: candidates,
		patterns:   Compile(candidates.Items(), chars),
		used:       NewSet(),
	}
}

// Scan marks every candidate referenced in text as used and returns the
// identifiers matched by this text.
func (u *Usage) Scan(text string) []string {
	found := Find(u.patterns, text)
	for _, id := range found {
		u.used.Add(id)
	}
	return found
}

// Used returns the candidates seen so far, in candidate order.
func (u *Usage) Used() []string {
	var out []string
	for _, id := range u.candidates.order {
		if u.used.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Unused returns the candidates never seen, in candidate order.
func (u *Usage) Unused() []string {
	return u.candidates.Difference(u.used)
}

// IsUsed reports whether id has been seen.
func (u *Usage) IsUsed(id string) bool {
	return u.used.Has(id)
}
