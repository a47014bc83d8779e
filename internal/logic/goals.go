package logic

import (
	"strings"

	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// TraitRef names a trait applied to its arguments. Args[0] is the Self type.
type TraitRef struct {
	Trait string
	Args  []ts.Term
}

// Self returns the type the trait is asked about.
func (r TraitRef) Self() ts.Ty {
	if len(r.Args) == 0 {
		return nil
	}
	ty, _ := r.Args[0].(ts.Ty)
	return ty
}

func (r TraitRef) String() string {
	if len(r.Args) == 0 {
		return "?: " + r.Trait
	}
	s := r.Args[0].String() + ": " + r.Trait
	if len(r.Args) > 1 {
		s += "<" + ts.JoinTerms(r.Args[1:]) + ">"
	}
	return s
}

// NewTraitRef builds Self: Trait<params...>.
func NewTraitRef(trait string, self ts.Ty, params ...ts.Term) TraitRef {
	args := make([]ts.Term, 0, 1+len(params))
	args = append(args, self)
	args = append(args, params...)
	return TraitRef{Trait: trait, Args: args}
}

// DomainGoal is an atomic predicate: the head of a program clause or a leaf
// of a goal.
type DomainGoal interface {
	String() string
	Key() PredicateKey
	isDomainGoal()
}

// Implemented is the predicate "Self implements Trait".
type Implemented struct {
	Ref TraitRef
}

func (d Implemented) String() string    { return "Implemented(" + d.Ref.String() + ")" }
func (d Implemented) Key() PredicateKey { return ImplementedKey(d.Ref.Trait) }
func (Implemented) isDomainGoal()       {}

// WellFormed is the predicate "Ty is a well-formed type".
type WellFormed struct {
	Ty ts.Ty
}

func (d WellFormed) String() string    { return "WellFormed(" + d.Ty.String() + ")" }
func (d WellFormed) Key() PredicateKey { return KeyWellFormed }
func (WellFormed) isDomainGoal()       {}

// Goal is the closed set of goal forms understood by the resolver.
type Goal interface {
	String() string
	isGoal()
}

// AtomGoal proves a single domain goal.
type AtomGoal struct {
	Domain DomainGoal
}

func (g AtomGoal) String() string { return g.Domain.String() }
func (AtomGoal) isGoal()          {}

// AllGoal is a conjunction. The empty conjunction is trivially true.
type AllGoal struct {
	Goals []Goal
}

func (g AllGoal) String() string {
	if len(g.Goals) == 0 {
		return "true"
	}
	return joinGoals(g.Goals, ", ")
}
func (AllGoal) isGoal() {}

// AnyGoal is a disjunction. The empty disjunction is false.
type AnyGoal struct {
	Goals []Goal
}

func (g AnyGoal) String() string {
	if len(g.Goals) == 0 {
		return "false"
	}
	return "(" + joinGoals(g.Goals, "; ") + ")"
}
func (AnyGoal) isGoal() {}

// QuantifierKind selects between exists and forall.
type QuantifierKind int

const (
	Exists QuantifierKind = iota
	ForAll
)

func (q QuantifierKind) String() string {
	if q == ForAll {
		return "forall"
	}
	return "exists"
}

// QuantifiedGoal introduces Binders for Goal. Inside Goal the new variables
// are ^0.i; everything from outside is shifted by one level.
type QuantifiedGoal struct {
	Kind    QuantifierKind
	Binders []ts.Kind
	Goal    Goal
}

func (g QuantifiedGoal) String() string {
	return g.Kind.String() + "<" + kindList(g.Binders) + "> { " + g.Goal.String() + " }"
}
func (QuantifiedGoal) isGoal() {}

// ImpliesGoal proves Goal with Hypotheses added to the environment.
type ImpliesGoal struct {
	Hypotheses []ProgramClause
	Goal       Goal
}

func (g ImpliesGoal) String() string {
	hs := make([]string, len(g.Hypotheses))
	for i, h := range g.Hypotheses {
		hs[i] = h.String()
	}
	return "if (" + strings.Join(hs, ", ") + ") { " + g.Goal.String() + " }"
}
func (ImpliesGoal) isGoal() {}

// EqGoal holds when A and B unify.
type EqGoal struct {
	A ts.Term
	B ts.Term
}

func (g EqGoal) String() string { return g.A.String() + " = " + g.B.String() }
func (EqGoal) isGoal()          {}

// NotGoal holds when Goal has no solution. It can only be decided once Goal
// is free of inference variables.
type NotGoal struct {
	Goal Goal
}

func (g NotGoal) String() string { return "not { " + g.Goal.String() + " }" }
func (NotGoal) isGoal()          {}

// Holds lifts a domain goal to a goal.
func Holds(d DomainGoal) Goal { return AtomGoal{Domain: d} }

// Impl builds the goal Self: Trait<params...>.
func Impl(trait string, self ts.Ty, params ...ts.Term) Goal {
	return AtomGoal{Domain: Implemented{Ref: NewTraitRef(trait, self, params...)}}
}

// WF builds the goal WellFormed(ty).
func WF(ty ts.Ty) Goal { return AtomGoal{Domain: WellFormed{Ty: ty}} }

// And builds a conjunction, flattening a single goal.
func And(goals ...Goal) Goal {
	if len(goals) == 1 {
		return goals[0]
	}
	return AllGoal{Goals: goals}
}

// Or builds a disjunction.
func Or(goals ...Goal) Goal { return AnyGoal{Goals: goals} }

// ExistsGoal wraps g in exists<kinds>.
func ExistsGoal(kinds []ts.Kind, g Goal) Goal {
	return QuantifiedGoal{Kind: Exists, Binders: kinds, Goal: g}
}

// ForAllGoal wraps g in forall<kinds>.
func ForAllGoal(kinds []ts.Kind, g Goal) Goal {
	return QuantifiedGoal{Kind: ForAll, Binders: kinds, Goal: g}
}

// Implies builds if (hyps) { g }.
func Implies(hyps []ProgramClause, g Goal) Goal {
	return ImpliesGoal{Hypotheses: hyps, Goal: g}
}

func joinGoals(goals []Goal, sep string) string {
	parts := make([]string, len(goals))
	for i, g := range goals {
		parts[i] = g.String()
	}
	return strings.Join(parts, sep)
}

func kindList(kinds []ts.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		if ts.IsLifetime(k) {
			parts[i] = "lifetime"
		} else {
			parts[i] = "type"
		}
	}
	return strings.Join(parts, ", ")
}
