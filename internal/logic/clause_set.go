package logic

// PredicateKey groups clauses whose heads can possibly unify: the same trait
// for Implemented, or WellFormed.
type PredicateKey string

const KeyWellFormed PredicateKey = "WellFormed"

// ImplementedKey is the key of Implemented(_: trait).
func ImplementedKey(trait string) PredicateKey {
	return PredicateKey("Implemented(" + trait + ")")
}

// ClauseSet is the program clauses indexed by head predicate. A set may sit
// on top of a parent; lookups return the parent's clauses first, then the
// set's own, each in insertion order. The parent is never written through
// the child.
type ClauseSet struct {
	parent *ClauseSet
	byKey  map[PredicateKey][]ProgramClause
	keys   []PredicateKey
	count  int
}

// NewClauseSet creates an empty set layered over parent, which may be nil.
func NewClauseSet(parent *ClauseSet) *ClauseSet {
	return &ClauseSet{parent: parent, byKey: make(map[PredicateKey][]ProgramClause)}
}

// Add appends c under the key of its head.
func (s *ClauseSet) Add(c ProgramClause) {
	k := c.Head.Key()
	if _, ok := s.byKey[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.byKey[k] = append(s.byKey[k], c)
	s.count++
}

// AddAll appends every clause of cs.
func (s *ClauseSet) AddAll(cs []ProgramClause) {
	for _, c := range cs {
		s.Add(c)
	}
}

// ForKey returns the clauses whose head has predicate k.
func (s *ClauseSet) ForKey(k PredicateKey) []ProgramClause {
	own := s.byKey[k]
	if s.parent == nil {
		return own
	}
	inherited := s.parent.ForKey(k)
	if len(own) == 0 {
		return inherited
	}
	out := make([]ProgramClause, 0, len(inherited)+len(own))
	out = append(out, inherited...)
	return append(out, own...)
}

// Len counts the clauses of the set and its ancestors.
func (s *ClauseSet) Len() int {
	if s.parent == nil {
		return s.count
	}
	return s.count + s.parent.Len()
}

// All lists every clause, grouped by key in first-insertion order.
func (s *ClauseSet) All() []ProgramClause {
	var out []ProgramClause
	if s.parent != nil {
		out = s.parent.All()
	}
	for _, k := range s.keys {
		out = append(out, s.byKey[k]...)
	}
	return out
}
