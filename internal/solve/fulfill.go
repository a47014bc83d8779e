package solve

import (
	"github.com/ChayimFriedman2/chalk/internal/logic"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// obligation is a goal left to prove, or, for refute, to disprove.
type obligation struct {
	env    logic.Environment
	goal   logic.Goal
	refute bool
}

// fulfill solves a conjunction of goals sharing one inference context.
//
// Compound goals are taken apart as they are pushed: exists creates
// inference variables, forall creates placeholders in a new universe,
// implications extend the environment and equalities are unified on the
// spot. What remains are obligations, each solved through the search graph
// in rounds until no round makes progress.
type fulfill struct {
	q           *query
	bindings    ts.Bindings
	constraints []ts.LifetimeEq
	obligations []obligation
	cannotProve bool
	mins        *minimums
}

func newFulfill(q *query, b ts.Bindings, mins *minimums) *fulfill {
	return &fulfill{q: q, bindings: b, mins: mins}
}

// push adds goal. It returns false when goal is already known to fail.
func (f *fulfill) push(env logic.Environment, goal logic.Goal) bool {
	switch g := goal.(type) {
	case logic.QuantifiedGoal:
		var args []ts.Term
		env2 := env
		if g.Kind == logic.Exists {
			f.bindings, args = f.bindings.NewVars(g.Binders, f.bindings.MaxUniverse())
		} else {
			var u int
			f.bindings, u = f.bindings.NewUniverse()
			args = make([]ts.Term, len(g.Binders))
			var wf []logic.ProgramClause
			for i, k := range g.Binders {
				args[i] = ts.MakePlaceholder(k, ts.Placeholder{Universe: u, Index: i})
				if ty, ok := args[i].(ts.Ty); ok {
					wf = append(wf, logic.Fact(logic.WellFormed{Ty: ty}))
				}
			}
			env2 = env.With(wf...)
		}
		return f.push(env2, logic.InstantiateGoal(g.Goal, args))
	case logic.ImpliesGoal:
		return f.push(env.With(g.Hypotheses...), g.Goal)
	case logic.AllGoal:
		for _, sub := range g.Goals {
			if !f.push(env, sub) {
				return false
			}
		}
		return true
	case logic.AnyGoal:
		switch len(g.Goals) {
		case 0:
			return false
		case 1:
			return f.push(env, g.Goals[0])
		}
		f.obligations = append(f.obligations, obligation{env: env, goal: g})
		return true
	case logic.EqGoal:
		res, err := ts.Unify(g.A, g.B, f.bindings)
		if err != nil {
			return false
		}
		f.bindings = res.Bindings
		f.constraints = append(f.constraints, res.Constraints...)
		return true
	case logic.NotGoal:
		f.obligations = append(f.obligations, obligation{env: env, goal: g.Goal, refute: true})
		return true
	}
	f.obligations = append(f.obligations, obligation{env: env, goal: goal})
	return true
}

// solve works off the obligations and describes the outcome in terms of
// subst, the terms standing for the variables of the goal being solved.
func (f *fulfill) solve(subst []ts.Term) Answer {
	for {
		progress := false
		var remaining []obligation
		for _, ob := range f.obligations {
			if f.q.cancelled() {
				return floundered()
			}
			var outcome obligationOutcome
			if ob.refute {
				outcome = f.refute(ob)
			} else {
				outcome = f.prove(ob)
			}
			switch outcome {
			case outcomeFailed:
				return noSolution()
			case outcomeProgress:
				progress = true
			case outcomeAmbiguous:
				remaining = append(remaining, ob)
			case outcomeAmbiguousProgress:
				progress = true
				remaining = append(remaining, ob)
			case outcomeFloundered:
				f.cannotProve = true
			}
		}
		f.obligations = remaining
		if !progress || len(remaining) == 0 {
			break
		}
	}

	for _, ob := range f.obligations {
		if ob.refute && !f.isGround(ob) {
			f.cannotProve = true
		}
	}
	if f.cannotProve {
		return floundered()
	}

	c := ts.NewCanonicalizer(f.bindings)
	canonSubst := ts.FoldAll(subst, c, 0)
	if len(f.obligations) == 0 {
		constraints := make([]ts.LifetimeEq, len(f.constraints))
		for i, eq := range f.constraints {
			constraints[i] = ts.LifetimeEq{
				A: ts.Fold(eq.A, c, 0).(ts.Lifetime),
				B: ts.Fold(eq.B, c, 0).(ts.Lifetime),
			}
		}
		return unique(ts.Canonical[ConstrainedSubst]{
			Binders: c.Binders(),
			Value:   ConstrainedSubst{Subst: canonSubst, Constraints: constraints},
		})
	}

	guidance := ts.Canonical[ts.Subst]{Binders: c.Binders(), Value: canonSubst}
	if guidance.Value.IsIdentity() {
		return ambiguous(GuidanceUnknown, guidance)
	}
	return ambiguous(GuidanceDefinite, guidance)
}

type obligationOutcome int

const (
	outcomeProgress obligationOutcome = iota
	outcomeAmbiguous
	outcomeAmbiguousProgress
	outcomeFailed
	outcomeFloundered
)

func (f *fulfill) prove(ob obligation) obligationOutcome {
	canon, vars := logic.CanonicalizeGoal(logic.InEnvironment{Env: ob.env, Goal: ob.goal}, f.bindings)
	answer := f.q.solveGoal(canon, f.mins)

	switch answer.Kind {
	case Unique:
		if !f.apply(vars, answer.Solution) {
			return outcomeFailed
		}
		return outcomeProgress
	case Ambiguous:
		if answer.Guidance == GuidanceDefinite {
			before := f.bindings.BoundCount()
			if !f.apply(vars, answer.Solution) {
				return outcomeFailed
			}
			if f.bindings.BoundCount() > before {
				return outcomeAmbiguousProgress
			}
		}
		return outcomeAmbiguous
	case Floundered:
		return outcomeFloundered
	}
	return outcomeFailed
}

// refute proves that ob.goal has no solution. Negation is only sound for
// ground goals: with inference variables left, a solution might exist for
// some other instantiation. Such obligations wait for other goals to bind
// their variables and flounder if none does.
func (f *fulfill) refute(ob obligation) obligationOutcome {
	if !f.isGround(ob) {
		return outcomeAmbiguous
	}

	sub := newFulfill(f.q, f.bindings, f.mins)
	if !sub.push(ob.env, ob.goal) {
		return outcomeProgress
	}
	switch sub.solve(nil).Kind {
	case NoSolution:
		return outcomeProgress
	case Unique:
		return outcomeFailed
	case Ambiguous:
		return outcomeAmbiguous
	}
	return outcomeFloundered
}

func (f *fulfill) isGround(ob obligation) bool {
	_, vars := logic.CanonicalizeGoal(logic.InEnvironment{Env: ob.env, Goal: ob.goal}, f.bindings)
	return len(vars) == 0
}

// apply instantiates a canonical answer for the variables vars and unifies
// it into the bindings.
func (f *fulfill) apply(vars []ts.InferVar, sol ts.Canonical[ConstrainedSubst]) bool {
	b, args := f.bindings.InstantiateBinders(sol.Binders)
	for i, v := range vars {
		if i >= len(sol.Value.Subst) {
			break
		}
		value := ts.Instantiate(sol.Value.Subst[i], args)
		res, err := ts.Unify(ts.MakeInfer(b.VarKind(v), v), value, b)
		if err != nil {
			return false
		}
		b = res.Bindings
		f.constraints = append(f.constraints, res.Constraints...)
	}
	for _, eq := range sol.Value.Constraints {
		f.constraints = append(f.constraints, ts.LifetimeEq{
			A: ts.Instantiate(eq.A, args).(ts.Lifetime),
			B: ts.Instantiate(eq.B, args).(ts.Lifetime),
		})
	}
	f.bindings = b
	return true
}
