package rules

import (
	"github.com/ChayimFriedman2/chalk/internal/logic"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// tupleClauses generates the clause family of tuples of arity n. With
// A1..An the tuple's components:
//
//	WellFormed((A1..An))           :- WellFormed(Ai).., Implemented(Ai: Sized) for i < n
//	Implemented((A1..An): Sized)   :- Implemented(An: Sized)
//	Implemented((A1..An): Copy)    :- Implemented(Ai: Copy)..
//	Implemented((A1..An): Clone)   :- Implemented(Ai: Clone)..
//	Implemented((A1..An): Auto)    :- Implemented(Ai: Auto)..
//
// For n = 0 every one of these is a fact. Lang traits the program does not
// declare produce no clause.
func (db *Database) tupleClauses(n int) []logic.ProgramClause {
	binders := ts.RepeatKind(ts.Star, n)
	elems := make([]ts.Ty, n)
	for i := range elems {
		elems[i] = ts.TBound{Var: ts.BoundVar{Index: i}}
	}
	self := ts.Tuple(elems...)

	sized, hasSized := db.program.LangTrait(logic.LangSized)

	var wfConds []logic.Goal
	for i, e := range elems {
		wfConds = append(wfConds, logic.WF(e))
		if hasSized && i < n-1 {
			wfConds = append(wfConds, logic.Impl(sized.Name, e))
		}
	}
	out := []logic.ProgramClause{{Binders: binders, Head: logic.WellFormed{Ty: self}, Conditions: wfConds}}

	if hasSized {
		var conds []logic.Goal
		if n > 0 {
			conds = append(conds, logic.Impl(sized.Name, elems[n-1]))
		}
		out = append(out, implClause(binders, sized.Name, self, conds))
	}

	for _, l := range []logic.LangItem{logic.LangCopy, logic.LangClone} {
		if t, ok := db.program.LangTrait(l); ok {
			out = append(out, implClause(binders, t.Name, self, eachImplements(t.Name, elems)))
		}
	}

	for _, auto := range db.autoTraits() {
		if db.hasExplicitImpl(auto.Name, headKey(self)) {
			continue
		}
		out = append(out, implClause(binders, auto.Name, self, eachImplements(auto.Name, elems)))
	}
	return out
}

// scalarClauses generates the facts of one scalar type: it is well formed,
// Sized, Copy, Clone and implements every auto trait it is not opted out of.
func (db *Database) scalarClauses(name string) []logic.ProgramClause {
	self := ts.Scalar(name)
	out := []logic.ProgramClause{logic.Fact(logic.WellFormed{Ty: self})}

	for _, l := range []logic.LangItem{logic.LangSized, logic.LangCopy, logic.LangClone} {
		if t, ok := db.program.LangTrait(l); ok {
			out = append(out, logic.Fact(logic.Implemented{Ref: logic.NewTraitRef(t.Name, self)}))
		}
	}
	for _, auto := range db.autoTraits() {
		if db.hasExplicitImpl(auto.Name, headKey(self)) {
			continue
		}
		out = append(out, logic.Fact(logic.Implemented{Ref: logic.NewTraitRef(auto.Name, self)}))
	}
	return out
}

// sliceClauses generates the clauses of [T]. A slice is never Sized, Copy
// or Clone, so only well-formedness and auto traits get clauses.
//
//	WellFormed([T])        :- WellFormed(T), Implemented(T: Sized)
//	Implemented([T]: Auto) :- Implemented(T: Auto)
func (db *Database) sliceClauses() []logic.ProgramClause {
	binders := ts.Kinds(ts.Star)
	elem := ts.TBound{Var: ts.BoundVar{Index: 0}}
	self := ts.Slice(elem)

	wfConds := []logic.Goal{logic.WF(elem)}
	if sized, ok := db.program.LangTrait(logic.LangSized); ok {
		wfConds = append(wfConds, logic.Impl(sized.Name, elem))
	}
	out := []logic.ProgramClause{{Binders: binders, Head: logic.WellFormed{Ty: self}, Conditions: wfConds}}

	for _, auto := range db.autoTraits() {
		if db.hasExplicitImpl(auto.Name, headKey(self)) {
			continue
		}
		out = append(out, implClause(binders, auto.Name, self, []logic.Goal{logic.Impl(auto.Name, elem)}))
	}
	return out
}

func implClause(binders []ts.Kind, trait string, self ts.Ty, conds []logic.Goal) logic.ProgramClause {
	return logic.ProgramClause{
		Binders:    binders,
		Head:       logic.Implemented{Ref: logic.NewTraitRef(trait, self)},
		Conditions: conds,
	}
}

func eachImplements(trait string, elems []ts.Ty) []logic.Goal {
	conds := make([]logic.Goal, len(elems))
	for i, e := range elems {
		conds[i] = logic.Impl(trait, e)
	}
	return conds
}
