package solve

import (
	"strings"

	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// AnswerKind classifies the outcome of a query.
type AnswerKind int

const (
	NoSolution AnswerKind = iota
	Unique
	Ambiguous
	Floundered
)

func (k AnswerKind) String() string {
	switch k {
	case Unique:
		return "Unique"
	case Ambiguous:
		return "Ambiguous"
	case Floundered:
		return "Floundered"
	}
	return "NoSolution"
}

// Guidance is what an ambiguous answer still knows about the query's
// variables.
type Guidance int

const (
	// GuidanceUnknown: nothing can be said about the variables.
	GuidanceUnknown Guidance = iota
	// GuidanceDefinite: every solution has this substitution.
	GuidanceDefinite
	// GuidanceSuggested: the known solutions agree on this substitution, but
	// others may not.
	GuidanceSuggested
)

// ConstrainedSubst is a substitution for a goal's variables together with
// the lifetime constraints that must hold for it.
type ConstrainedSubst struct {
	Subst       ts.Subst
	Constraints []ts.LifetimeEq
}

func (c ConstrainedSubst) String() string {
	parts := make([]string, len(c.Constraints))
	for i, eq := range c.Constraints {
		parts[i] = eq.String()
	}
	return "substitution " + c.Subst.String() + ", lifetime constraints [" + strings.Join(parts, ", ") + "]"
}

// Answer is the result of solving a goal.
//
// For Unique, Solution is the substitution of the goal's variables; its
// binders are the variables the answer leaves open. For Ambiguous with
// definite or suggested guidance, Solution holds the guidance substitution
// and no constraints.
type Answer struct {
	Kind     AnswerKind
	Guidance Guidance
	Solution ts.Canonical[ConstrainedSubst]
}

func noSolution() Answer { return Answer{Kind: NoSolution} }

func floundered() Answer { return Answer{Kind: Floundered} }

func unique(c ts.Canonical[ConstrainedSubst]) Answer {
	return Answer{Kind: Unique, Solution: c}
}

func ambiguous(g Guidance, subst ts.Canonical[ts.Subst]) Answer {
	if g == GuidanceUnknown {
		return Answer{Kind: Ambiguous}
	}
	return Answer{
		Kind:     Ambiguous,
		Guidance: g,
		Solution: ts.Canonical[ConstrainedSubst]{
			Binders: subst.Binders,
			Value:   ConstrainedSubst{Subst: subst.Value},
		},
	}
}

// trivialAnswer is the Unique answer that binds nothing: every variable of a
// goal with the given binders maps to itself.
func trivialAnswer(binders []ts.CanonicalVar) Answer {
	kinds := make([]ts.Kind, len(binders))
	for i, b := range binders {
		kinds[i] = b.Kind
	}
	return unique(ts.Canonical[ConstrainedSubst]{
		Binders: binders,
		Value:   ConstrainedSubst{Subst: ts.IdentityArgs(kinds)},
	})
}

// IsTriviallyTrue reports whether a is Unique without binding anything and
// without lifetime constraints. Such an answer cannot be improved upon.
func (a Answer) IsTriviallyTrue() bool {
	return a.Kind == Unique && a.Solution.Value.Subst.IsIdentity() && len(a.Solution.Value.Constraints) == 0
}

func (a Answer) String() string {
	switch a.Kind {
	case Unique:
		return "Unique; " + renderCanonical(a.Solution.Binders, a.Solution.Value.String())
	case Ambiguous:
		switch a.Guidance {
		case GuidanceDefinite:
			return "Ambiguous; definite substitution " + renderCanonical(a.Solution.Binders, a.Solution.Value.Subst.String())
		case GuidanceSuggested:
			return "Ambiguous; suggested substitution " + renderCanonical(a.Solution.Binders, a.Solution.Value.Subst.String())
		}
		return "Ambiguous; no inference guidance"
	case Floundered:
		return "Floundered"
	}
	return "No possible solution"
}

// Matches reports whether the rendering of a starts with expected, so that
// "Ambiguous" matches every ambiguous answer.
func (a Answer) Matches(expected string) bool {
	return strings.HasPrefix(a.String(), strings.TrimSpace(expected))
}

func renderCanonical(binders []ts.CanonicalVar, body string) string {
	if len(binders) == 0 {
		return body
	}
	return "for<" + ts.BindersString(binders) + "> { " + body + " }"
}

// Equal compares two answers up to alpha-equivalence of their binders.
func (a Answer) Equal(b Answer) bool {
	if a.Kind != b.Kind || a.Guidance != b.Guidance {
		return false
	}
	return equalBinders(a.Solution.Binders, b.Solution.Binders) &&
		ts.EqualAll(a.Solution.Value.Subst, b.Solution.Value.Subst) &&
		equalConstraints(a.Solution.Value.Constraints, b.Solution.Value.Constraints)
}

func equalBinders(a, b []ts.CanonicalVar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Universe != b[i].Universe || !a[i].Kind.Equal(b[i].Kind) {
			return false
		}
	}
	return true
}

func equalConstraints(a, b []ts.LifetimeEq) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ts.Equal(a[i].A, b[i].A) || !ts.Equal(a[i].B, b[i].B) {
			return false
		}
	}
	return true
}

// guidanceSubst extracts the substitution an answer suggests, if any.
func (a Answer) guidanceSubst() (ts.Canonical[ts.Subst], bool) {
	switch {
	case a.Kind == Unique, a.Kind == Ambiguous && a.Guidance != GuidanceUnknown:
		return ts.Canonical[ts.Subst]{Binders: a.Solution.Binders, Value: a.Solution.Value.Subst}, true
	}
	return ts.Canonical[ts.Subst]{}, false
}

// combine merges the answers of two alternative derivations of one goal.
//
// No solution is the identity. A trivially true answer absorbs the other
// one. Floundering is contagious otherwise. Equal answers stay as they are;
// different ones become ambiguous, keeping the substitution as a suggestion
// when both sides agree on it.
func combine(a, b Answer) Answer {
	switch {
	case a.Kind == NoSolution:
		return b
	case b.Kind == NoSolution:
		return a
	case a.IsTriviallyTrue():
		return a
	case b.IsTriviallyTrue():
		return b
	case a.Kind == Floundered || b.Kind == Floundered:
		return floundered()
	case a.Equal(b):
		return a
	}

	sa, okA := a.guidanceSubst()
	sb, okB := b.guidanceSubst()
	if okA && okB && equalBinders(sa.Binders, sb.Binders) && ts.EqualAll(sa.Value, sb.Value) {
		return ambiguous(GuidanceSuggested, sa)
	}
	return ambiguous(GuidanceUnknown, ts.Canonical[ts.Subst]{})
}
