package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

var (
	u8 = ts.Scalar("u8")
	t0 = ts.TBound{Var: ts.BoundVar{Index: 0}}
)

func TestGoalStrings(t *testing.T) {
	tests := []struct {
		goal Goal
		want string
	}{
		{Impl("Copy", ts.Tuple(u8, u8)), "Implemented((u8, u8): Copy)"},
		{Impl("Foo", u8, ts.Static), "Implemented(u8: Foo<'static>)"},
		{WF(ts.Slice(u8)), "WellFormed([u8])"},
		{ExistsGoal(ts.Kinds(ts.Star), Impl("Copy", ts.Tuple(t0, u8))), "exists<type> { Implemented((^0.0, u8): Copy) }"},
		{
			ForAllGoal(ts.Kinds(ts.Star), Implies(
				[]ProgramClause{Fact(Implemented{Ref: NewTraitRef("Sized", t0)})},
				WF(ts.Tuple(t0, u8)),
			)),
			"forall<type> { if (Implemented(^0.0: Sized)) { WellFormed((^0.0, u8)) } }",
		},
		{And(), "true"},
		{Or(), "false"},
		{Or(WF(u8), WF(ts.Unit)), "(WellFormed(u8); WellFormed(()))"},
		{EqGoal{A: u8, B: t0}, "u8 = ^0.0"},
		{NotGoal{Goal: WF(u8)}, "not { WellFormed(u8) }"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.goal.String())
	}
}

func TestClauseStrings(t *testing.T) {
	c := ProgramClause{
		Binders:    ts.Kinds(ts.Star),
		Head:       Implemented{Ref: NewTraitRef("Foo", ts.App("Vec", t0))},
		Conditions: []Goal{Impl("Foo", t0)},
	}
	assert.Equal(t, "forall<type> { Implemented(Vec<^0.0>: Foo) :- Implemented(^0.0: Foo) }", c.String())
	assert.Equal(t, "WellFormed(u8)", Fact(WellFormed{Ty: u8}).String())
}

func TestInstantiateClause(t *testing.T) {
	c := ProgramClause{
		Binders:    ts.Kinds(ts.Star),
		Head:       Implemented{Ref: NewTraitRef("Foo", ts.App("Vec", t0))},
		Conditions: []Goal{ExistsGoal(ts.Kinds(ts.Star), Impl("Bar", t0, ts.TBound{Var: ts.BoundVar{Debruijn: 1}}))},
	}
	head, conds := InstantiateClause(c, []ts.Term{u8})
	assert.Equal(t, "Implemented(Vec<u8>: Foo)", head.String())
	require.Len(t, conds, 1)
	// the inner binder keeps ^0.0, the clause variable under it is replaced
	assert.Equal(t, "exists<type> { Implemented(^0.0: Bar<u8>) }", conds[0].String())
}

func TestCanonicalizeGoal(t *testing.T) {
	b := ts.NewBindings(0)
	b, v0 := b.NewVar(ts.Star, 0)
	b, v1 := b.NewVar(ts.Star, 0)

	g1 := InEnvironment{Goal: Impl("Copy", ts.Tuple(ts.TInfer{Var: v1}, u8))}
	g2 := InEnvironment{Goal: Impl("Copy", ts.Tuple(ts.TInfer{Var: v0}, u8))}

	c1, vars := CanonicalizeGoal(g1, b)
	c2, _ := CanonicalizeGoal(g2, b)
	assert.Equal(t, Key(c1), Key(c2))
	assert.Equal(t, []ts.InferVar{v1}, vars)
	assert.Equal(t, "for<?U0> Implemented((^0.0, u8): Copy)", Key(c1))

	// hypotheses are part of the key
	g3 := InEnvironment{
		Env:  Environment{}.With(Fact(Implemented{Ref: NewTraitRef("Copy", ts.TInfer{Var: v0})})),
		Goal: g2.Goal,
	}
	c3, _ := CanonicalizeGoal(g3, b)
	assert.NotEqual(t, Key(c2), Key(c3))
}

func TestWalkTerms(t *testing.T) {
	g := ForAllGoal(ts.Kinds(ts.Star), Implies(
		[]ProgramClause{Fact(Implemented{Ref: NewTraitRef("Sized", ts.Tuple(u8))})},
		And(WF(ts.Tuple(t0, u8, u8)), EqGoal{A: u8, B: ts.Slice(u8)}),
	))
	var seen []string
	WalkTerms(g, func(term ts.Term) { seen = append(seen, term.String()) })
	assert.Equal(t, []string{"(u8,)", "(^0.0, u8, u8)", "u8", "[u8]"}, seen)
}

func TestEnvironmentIsPersistent(t *testing.T) {
	base := Environment{}.With(Fact(WellFormed{Ty: u8}))
	left := base.With(Fact(Implemented{Ref: NewTraitRef("Copy", u8)}))
	right := base.With(Fact(WellFormed{Ty: ts.Unit}))

	assert.Len(t, base.Clauses, 1)
	assert.Len(t, left.ForKey(ImplementedKey("Copy")), 1)
	assert.Empty(t, right.ForKey(ImplementedKey("Copy")))
	assert.Len(t, right.ForKey(KeyWellFormed), 2)
}
