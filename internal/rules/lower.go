// Package rules compiles a program's declarations into program clauses and
// generates the structural clauses for tuples, slices and scalars.
package rules

import (
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/ChayimFriedman2/chalk/internal/logic"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// Database is a lowered program: the declarations plus the clauses derived
// from them. It is immutable once Lower returns and may be shared by
// concurrent queries.
type Database struct {
	program *logic.Program
	base    *logic.ClauseSet
	arities map[int]bool
	scalars map[string]bool
}

// Lower validates p and compiles it into clauses.
func Lower(p *logic.Program) (*Database, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "lowering program")
	}

	db := &Database{
		program: p,
		base:    logic.NewClauseSet(nil),
		arities: make(map[int]bool),
		scalars: make(map[string]bool),
	}

	for _, impl := range p.Impls() {
		if impl.Negative {
			continue
		}
		db.base.Add(lowerImpl(impl))
	}
	for _, s := range p.Structs() {
		db.base.AddAll(db.lowerStruct(s))
	}
	db.base.AddAll(db.sliceClauses())

	fams := newFamilies()
	for _, impl := range p.Impls() {
		fams.collectTerms(impl.Ref.Args...)
		for _, w := range impl.Where {
			fams.collectGoal(w)
		}
	}
	for _, s := range p.Structs() {
		for _, f := range s.Fields {
			fams.collectTerms(f)
		}
		for _, w := range s.Where {
			fams.collectTerms(w.Args...)
		}
	}
	db.addFamilies(db.base, fams)
	return db, nil
}

// Program returns the declarations the database was lowered from.
func (db *Database) Program() *logic.Program { return db.program }

// Clauses returns the clauses of the program itself.
func (db *Database) Clauses() *logic.ClauseSet { return db.base }

// ForGoal returns the clauses needed to solve g: the program's clauses plus
// the structural families of every tuple arity and scalar that g mentions
// and the program does not. The program's set is never modified.
func (db *Database) ForGoal(g logic.Goal) *logic.ClauseSet {
	fams := newFamilies()
	fams.collectGoal(g)
	for n := range fams.arities {
		if db.arities[n] {
			delete(fams.arities, n)
		}
	}
	for s := range fams.scalars {
		if db.scalars[s] {
			delete(fams.scalars, s)
		}
	}
	if fams.empty() {
		return db.base
	}
	overlay := logic.NewClauseSet(db.base)
	db.addFamilies(overlay, fams)
	return overlay
}

func (db *Database) addFamilies(set *logic.ClauseSet, fams *families) {
	for _, n := range fams.sortedArities() {
		set.AddAll(db.tupleClauses(n))
		if set == db.base {
			db.arities[n] = true
		}
	}
	for _, s := range fams.sortedScalars() {
		set.AddAll(db.scalarClauses(s))
		if set == db.base {
			db.scalars[s] = true
		}
	}
}

func lowerImpl(impl *logic.ImplDatum) logic.ProgramClause {
	return logic.ProgramClause{
		Binders:    impl.Binders,
		Head:       logic.Implemented{Ref: impl.Ref},
		Conditions: impl.Where,
	}
}

// lowerStruct produces the well-formedness clause of s, its Sized clause
// and one clause per auto trait it is not opted out of.
//
//	forall<P..> { WellFormed(S<P..>) :- WellFormed(P_i).., where-clauses }
//	forall<P..> { Implemented(S<P..>: Sized) :- Implemented(last field: Sized) }
//	forall<P..> { Implemented(S<P..>: Auto) :- Implemented(field_i: Auto).. }
func (db *Database) lowerStruct(s *logic.StructDatum) []logic.ProgramClause {
	self := ts.App(s.Name, ts.IdentityArgs(s.Params)...)

	var wfConds []logic.Goal
	for i, k := range s.Params {
		if !ts.IsLifetime(k) {
			wfConds = append(wfConds, logic.WF(ts.TBound{Var: ts.BoundVar{Index: i}}))
		}
	}
	for _, w := range s.Where {
		wfConds = append(wfConds, logic.Holds(logic.Implemented{Ref: w}))
	}
	out := []logic.ProgramClause{{
		Binders:    s.Params,
		Head:       logic.WellFormed{Ty: self},
		Conditions: wfConds,
	}}

	if sized, ok := db.program.LangTrait(logic.LangSized); ok {
		var conds []logic.Goal
		if n := len(s.Fields); n > 0 {
			conds = append(conds, logic.Impl(sized.Name, s.Fields[n-1]))
		}
		out = append(out, logic.ProgramClause{
			Binders:    s.Params,
			Head:       logic.Implemented{Ref: logic.NewTraitRef(sized.Name, self)},
			Conditions: conds,
		})
	}

	for _, auto := range db.autoTraits() {
		if db.hasExplicitImpl(auto.Name, headKey(self)) {
			continue
		}
		conds := make([]logic.Goal, len(s.Fields))
		for i, f := range s.Fields {
			conds[i] = logic.Impl(auto.Name, f)
		}
		out = append(out, logic.ProgramClause{
			Binders:    s.Params,
			Head:       logic.Implemented{Ref: logic.NewTraitRef(auto.Name, self)},
			Conditions: conds,
		})
	}
	return out
}

func (db *Database) autoTraits() []*logic.TraitDatum {
	var out []*logic.TraitDatum
	for _, t := range db.program.Traits() {
		if t.Auto {
			out = append(out, t)
		}
	}
	return out
}

// hasExplicitImpl reports whether some impl, positive or negative, of trait
// targets a Self type with the given head. Such types get no structural
// auto-trait clause.
func (db *Database) hasExplicitImpl(trait, head string) bool {
	for _, impl := range db.program.Impls() {
		if impl.Ref.Trait != trait {
			continue
		}
		if h := headKey(impl.Ref.Self()); h != "" && h == head {
			return true
		}
	}
	return false
}

// headKey names the outermost constructor of a type, or "" for variables.
func headKey(t ts.Ty) string {
	switch typ := t.(type) {
	case ts.TApp:
		return "struct " + typ.Name
	case ts.TScalar:
		return "scalar " + typ.Name
	case ts.TSlice:
		return "slice"
	case ts.TTuple:
		return "tuple/" + strconv.Itoa(len(typ.Elements))
	}
	return ""
}

// families is the set of tuple arities and scalars a value mentions.
type families struct {
	arities map[int]bool
	scalars map[string]bool
}

func newFamilies() *families {
	return &families{arities: make(map[int]bool), scalars: make(map[string]bool)}
}

func (f *families) empty() bool { return len(f.arities) == 0 && len(f.scalars) == 0 }

func (f *families) collectTerms(terms ...ts.Term) {
	for _, t := range terms {
		ts.Walk(t, func(sub ts.Term) bool {
			switch s := sub.(type) {
			case ts.TTuple:
				f.arities[len(s.Elements)] = true
			case ts.TScalar:
				f.scalars[s.Name] = true
			}
			return true
		})
	}
}

func (f *families) collectGoal(g logic.Goal) {
	logic.WalkTerms(g, func(t ts.Term) { f.collectTerms(t) })
}

func (f *families) sortedArities() []int {
	out := make([]int, 0, len(f.arities))
	for n := range f.arities {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (f *families) sortedScalars() []string {
	out := make([]string, 0, len(f.scalars))
	for s := range f.scalars {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
