package logic

import (
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// FoldTraitRef folds every argument of r.
func FoldTraitRef(r TraitRef, f ts.Folder, outer int) TraitRef {
	return TraitRef{Trait: r.Trait, Args: ts.FoldAll(r.Args, f, outer)}
}

// FoldDomainGoal folds the terms of a domain goal.
func FoldDomainGoal(d DomainGoal, f ts.Folder, outer int) DomainGoal {
	switch dg := d.(type) {
	case Implemented:
		return Implemented{Ref: FoldTraitRef(dg.Ref, f, outer)}
	case WellFormed:
		return WellFormed{Ty: ts.FoldTy(dg.Ty, f, outer)}
	}
	return d
}

// FoldClause folds a clause. The clause binder counts as one level.
func FoldClause(c ProgramClause, f ts.Folder, outer int) ProgramClause {
	inner := outer + 1
	conds := make([]Goal, len(c.Conditions))
	for i, g := range c.Conditions {
		conds[i] = FoldGoal(g, f, inner)
	}
	return ProgramClause{
		Binders:    c.Binders,
		Head:       FoldDomainGoal(c.Head, f, inner),
		Conditions: conds,
	}
}

// FoldClauses folds a list of clauses.
func FoldClauses(cs []ProgramClause, f ts.Folder, outer int) []ProgramClause {
	if cs == nil {
		return nil
	}
	out := make([]ProgramClause, len(cs))
	for i, c := range cs {
		out[i] = FoldClause(c, f, outer)
	}
	return out
}

// FoldGoal rebuilds g with every term passed through f.
func FoldGoal(g Goal, f ts.Folder, outer int) Goal {
	switch goal := g.(type) {
	case AtomGoal:
		return AtomGoal{Domain: FoldDomainGoal(goal.Domain, f, outer)}
	case AllGoal:
		return AllGoal{Goals: foldGoals(goal.Goals, f, outer)}
	case AnyGoal:
		return AnyGoal{Goals: foldGoals(goal.Goals, f, outer)}
	case QuantifiedGoal:
		return QuantifiedGoal{Kind: goal.Kind, Binders: goal.Binders, Goal: FoldGoal(goal.Goal, f, outer+1)}
	case ImpliesGoal:
		return ImpliesGoal{Hypotheses: FoldClauses(goal.Hypotheses, f, outer), Goal: FoldGoal(goal.Goal, f, outer)}
	case EqGoal:
		return EqGoal{A: ts.Fold(goal.A, f, outer), B: ts.Fold(goal.B, f, outer)}
	case NotGoal:
		return NotGoal{Goal: FoldGoal(goal.Goal, f, outer)}
	}
	return g
}

func foldGoals(gs []Goal, f ts.Folder, outer int) []Goal {
	out := make([]Goal, len(gs))
	for i, g := range gs {
		out[i] = FoldGoal(g, f, outer)
	}
	return out
}

// FoldInEnvironment folds both the environment and the goal.
func FoldInEnvironment(g InEnvironment, f ts.Folder, outer int) InEnvironment {
	return InEnvironment{
		Env:  Environment{Clauses: FoldClauses(g.Env.Clauses, f, outer)},
		Goal: FoldGoal(g.Goal, f, outer),
	}
}

// InstantiateGoal substitutes args for the variables of the binder that
// directly encloses g.
func InstantiateGoal(g Goal, args []ts.Term) Goal {
	return FoldGoal(g, ts.Substitutor{Args: args}, 0)
}

// InstantiateClause opens a clause: the head and conditions with the
// clause's own variables replaced by args.
func InstantiateClause(c ProgramClause, args []ts.Term) (DomainGoal, []Goal) {
	sub := ts.Substitutor{Args: args}
	head := FoldDomainGoal(c.Head, sub, 0)
	conds := foldGoals(c.Conditions, sub, 0)
	return head, conds
}

// ShiftGoalIn moves g under n additional binders.
func ShiftGoalIn(g Goal, n int) Goal {
	if n == 0 {
		return g
	}
	return FoldGoal(g, shiftFolder{amount: n}, 0)
}

// ShiftClauseIn moves c under n additional binders.
func ShiftClauseIn(c ProgramClause, n int) ProgramClause {
	if n == 0 {
		return c
	}
	return FoldClause(c, shiftFolder{amount: n}, 0)
}

type shiftFolder struct {
	ts.IdentityFolder
	amount int
}

func (s shiftFolder) FoldBound(v ts.BoundVar, k ts.Kind, outer int) ts.Term {
	if v.Debruijn >= outer {
		v = v.Shifted(s.amount)
	}
	return ts.MakeBound(k, v)
}

// ApplyGoal resolves every bound inference variable of g.
func ApplyGoal(g Goal, b ts.Bindings) Goal {
	return FoldGoal(g, b.Folder(), 0)
}

// ApplyInEnvironment resolves every bound inference variable of g.
func ApplyInEnvironment(g InEnvironment, b ts.Bindings) InEnvironment {
	return FoldInEnvironment(g, b.Folder(), 0)
}

// CanonicalizeGoal closes g over its unbound inference variables. The
// environment is folded before the goal, so numbering starts there.
func CanonicalizeGoal(g InEnvironment, b ts.Bindings) (CanonicalGoal, []ts.InferVar) {
	c := ts.NewCanonicalizer(b)
	v := FoldInEnvironment(g, c, 0)
	return CanonicalGoal{Binders: c.Binders(), Value: v}, c.Vars()
}

// WalkTerms calls fn for every top-level term mentioned by g, including the
// terms of hypotheses.
func WalkTerms(g Goal, fn func(ts.Term)) {
	switch goal := g.(type) {
	case AtomGoal:
		walkDomainTerms(goal.Domain, fn)
	case AllGoal:
		for _, sub := range goal.Goals {
			WalkTerms(sub, fn)
		}
	case AnyGoal:
		for _, sub := range goal.Goals {
			WalkTerms(sub, fn)
		}
	case QuantifiedGoal:
		WalkTerms(goal.Goal, fn)
	case ImpliesGoal:
		for _, h := range goal.Hypotheses {
			WalkClauseTerms(h, fn)
		}
		WalkTerms(goal.Goal, fn)
	case EqGoal:
		fn(goal.A)
		fn(goal.B)
	case NotGoal:
		WalkTerms(goal.Goal, fn)
	}
}

// WalkClauseTerms calls fn for every top-level term of c.
func WalkClauseTerms(c ProgramClause, fn func(ts.Term)) {
	walkDomainTerms(c.Head, fn)
	for _, g := range c.Conditions {
		WalkTerms(g, fn)
	}
}

func walkDomainTerms(d DomainGoal, fn func(ts.Term)) {
	switch dg := d.(type) {
	case Implemented:
		for _, a := range dg.Ref.Args {
			fn(a)
		}
	case WellFormed:
		fn(dg.Ty)
	}
}
