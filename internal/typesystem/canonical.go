package typesystem

import (
	"fmt"
	"strings"
)

// CanonicalVar describes one binder of a canonical value: the kind of the
// inference variable it replaced and that variable's universe.
type CanonicalVar struct {
	Kind     Kind
	Universe int
}

func (c CanonicalVar) String() string {
	if IsLifetime(c.Kind) {
		return fmt.Sprintf("'?U%d", c.Universe)
	}
	return fmt.Sprintf("?U%d", c.Universe)
}

// Canonical is a value whose unbound inference variables have been replaced
// by bound variables of an outer binder. Two goals that differ only in the
// numbering of their inference variables have the same canonical form.
type Canonical[T any] struct {
	Binders []CanonicalVar
	Value   T
}

// BindersString renders the binder list, e.g. "?U0, '?U1".
func BindersString(binders []CanonicalVar) string {
	parts := make([]string, len(binders))
	for i, b := range binders {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// Canonicalizer is the folder that produces canonical values. Run it over
// every part of a value in a fixed order; variables are numbered by first
// appearance.
type Canonicalizer struct {
	IdentityFolder
	bindings Bindings
	vars     []InferVar
	binders  []CanonicalVar
	index    map[InferVar]int
}

// NewCanonicalizer starts a canonicalization against b.
func NewCanonicalizer(b Bindings) *Canonicalizer {
	return &Canonicalizer{bindings: b, index: map[InferVar]int{}}
}

func (c *Canonicalizer) FoldInfer(v InferVar, k Kind, outer int) Term {
	if val, ok := c.bindings.Probe(v); ok {
		return Fold(val, c, outer)
	}
	idx, ok := c.index[v]
	if !ok {
		idx = len(c.vars)
		c.index[v] = idx
		c.vars = append(c.vars, v)
		c.binders = append(c.binders, CanonicalVar{Kind: k, Universe: c.bindings.Universe(v)})
	}
	return MakeBound(k, BoundVar{Debruijn: outer, Index: idx})
}

// Binders returns the binders collected so far.
func (c *Canonicalizer) Binders() []CanonicalVar { return c.binders }

// Vars returns the inference variables replaced so far, in binder order.
func (c *Canonicalizer) Vars() []InferVar { return c.vars }

// Canonicalize closes a single term.
func Canonicalize(t Term, b Bindings) Canonical[Term] {
	c := NewCanonicalizer(b)
	v := Fold(t, c, 0)
	return Canonical[Term]{Binders: c.Binders(), Value: v}
}

// InstantiateBinders creates one fresh variable per canonical binder, in the
// binder's universe, and returns them as instantiation arguments.
func (b Bindings) InstantiateBinders(binders []CanonicalVar) (Bindings, []Term) {
	terms := make([]Term, len(binders))
	for i, cv := range binders {
		var v InferVar
		b, v = b.NewVar(cv.Kind, cv.Universe)
		terms[i] = MakeInfer(cv.Kind, v)
	}
	return b, terms
}

// MaxUniverse returns the highest universe mentioned by binders or by the
// placeholders of the given terms.
func MaxUniverse(binders []CanonicalVar, terms ...Term) int {
	max := 0
	for _, cv := range binders {
		if cv.Universe > max {
			max = cv.Universe
		}
	}
	for _, t := range terms {
		Walk(t, func(sub Term) bool {
			switch s := sub.(type) {
			case TPlaceholder:
				if s.Placeholder.Universe > max {
					max = s.Placeholder.Universe
				}
			case LPlaceholder:
				if s.Placeholder.Universe > max {
					max = s.Placeholder.Universe
				}
			}
			return true
		})
	}
	return max
}

// PlaceholderCollector records the highest placeholder universe seen during
// a fold. It leaves the folded value unchanged.
type PlaceholderCollector struct {
	IdentityFolder
	Max int
}

func (p *PlaceholderCollector) FoldPlaceholder(pl Placeholder, k Kind, outer int) Term {
	if pl.Universe > p.Max {
		p.Max = pl.Universe
	}
	return MakePlaceholder(k, pl)
}

// Subst maps the variables of a binder, by position, to values.
type Subst []Term

func (s Subst) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = fmt.Sprintf("?%d := %s", i, t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsIdentity reports whether s maps every position i to the distinct bound
// variable ^0.i, i.e. it carries no information.
func (s Subst) IsIdentity() bool {
	for i, t := range s {
		var v BoundVar
		switch typ := t.(type) {
		case TBound:
			v = typ.Var
		case LBound:
			v = typ.Var
		default:
			return false
		}
		if v.Debruijn != 0 || v.Index != i {
			return false
		}
	}
	return true
}
