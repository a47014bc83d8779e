package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChayimFriedman2/chalk/internal/logic"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

var (
	u8 = ts.Scalar("u8")
	t0 = ts.TBound{Var: ts.BoundVar{Index: 0}}
)

func clauseStrings(cs []logic.ProgramClause) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

func langProgram(t *testing.T) *logic.Program {
	t.Helper()
	p := logic.NewProgram()
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Sized", Lang: logic.LangSized}))
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Copy", Lang: logic.LangCopy}))
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Send", Auto: true}))
	return p
}

func TestTupleFamily(t *testing.T) {
	db, err := Lower(langProgram(t))
	require.NoError(t, err)

	tests := []struct {
		arity int
		key   logic.PredicateKey
		want  []string
	}{
		{0, logic.KeyWellFormed, []string{"WellFormed(())"}},
		{0, logic.ImplementedKey("Sized"), []string{"Implemented((): Sized)"}},
		{1, logic.ImplementedKey("Sized"), []string{"forall<type> { Implemented((^0.0,): Sized) :- Implemented(^0.0: Sized) }"}},
		{2, logic.KeyWellFormed, []string{
			"forall<type, type> { WellFormed((^0.0, ^0.1)) :- WellFormed(^0.0), Implemented(^0.0: Sized), WellFormed(^0.1) }",
		}},
		{2, logic.ImplementedKey("Sized"), []string{
			"forall<type, type> { Implemented((^0.0, ^0.1): Sized) :- Implemented(^0.1: Sized) }",
		}},
		{2, logic.ImplementedKey("Copy"), []string{
			"forall<type, type> { Implemented((^0.0, ^0.1): Copy) :- Implemented(^0.0: Copy), Implemented(^0.1: Copy) }",
		}},
		{2, logic.ImplementedKey("Send"), []string{
			"forall<type, type> { Implemented((^0.0, ^0.1): Send) :- Implemented(^0.0: Send), Implemented(^0.1: Send) }",
		}},
	}

	for _, tt := range tests {
		var got []logic.ProgramClause
		for _, c := range db.tupleClauses(tt.arity) {
			if c.Head.Key() == tt.key {
				got = append(got, c)
			}
		}
		assert.Equal(t, tt.want, clauseStrings(got), "arity %d, %s", tt.arity, tt.key)
	}
}

func TestTupleFamilyWithoutLangItems(t *testing.T) {
	p := logic.NewProgram()
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Foo"}))
	db, err := Lower(p)
	require.NoError(t, err)

	// no Sized trait: well-formedness only asks for well-formed components
	assert.Equal(t,
		[]string{"forall<type, type> { WellFormed((^0.0, ^0.1)) :- WellFormed(^0.0), WellFormed(^0.1) }"},
		clauseStrings(db.tupleClauses(2)))
}

func TestScalarAndSliceClauses(t *testing.T) {
	db, err := Lower(langProgram(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"WellFormed(u8)",
		"Implemented(u8: Sized)",
		"Implemented(u8: Copy)",
		"Implemented(u8: Send)",
	}, clauseStrings(db.scalarClauses("u8")))

	assert.Equal(t, []string{
		"forall<type> { WellFormed([^0.0]) :- WellFormed(^0.0), Implemented(^0.0: Sized) }",
		"forall<type> { Implemented([^0.0]: Send) :- Implemented(^0.0: Send) }",
	}, clauseStrings(db.sliceClauses()))
}

func TestLowerStructsAndImpls(t *testing.T) {
	p := langProgram(t)
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Foo"}))
	require.NoError(t, p.AddStruct(logic.StructDatum{
		Name:   "Vec",
		Params: ts.Kinds(ts.Star),
		Fields: []ts.Ty{ts.Slice(t0)},
	}))
	require.NoError(t, p.AddStruct(logic.StructDatum{
		Name:   "Set",
		Params: ts.Kinds(ts.Star),
		Where:  []logic.TraitRef{logic.NewTraitRef("Copy", t0)},
	}))
	require.NoError(t, p.AddStruct(logic.StructDatum{Name: "Rc"}))
	require.NoError(t, p.AddImpl(logic.ImplDatum{
		Binders: ts.Kinds(ts.Star),
		Ref:     logic.NewTraitRef("Foo", ts.App("Vec", t0)),
		Where:   []logic.Goal{logic.Impl("Foo", t0)},
	}))
	require.NoError(t, p.AddImpl(logic.ImplDatum{Ref: logic.NewTraitRef("Send", ts.App("Rc")), Negative: true}))

	db, err := Lower(p)
	require.NoError(t, err)
	cs := db.Clauses()

	assert.Equal(t,
		[]string{"forall<type> { Implemented(Vec<^0.0>: Foo) :- Implemented(^0.0: Foo) }"},
		clauseStrings(cs.ForKey(logic.ImplementedKey("Foo"))))

	assert.Contains(t, clauseStrings(cs.ForKey(logic.KeyWellFormed)),
		"forall<type> { WellFormed(Set<^0.0>) :- WellFormed(^0.0), Implemented(^0.0: Copy) }")
	assert.Contains(t, clauseStrings(cs.ForKey(logic.ImplementedKey("Sized"))),
		"forall<type> { Implemented(Vec<^0.0>: Sized) :- Implemented([^0.0]: Sized) }")

	sends := clauseStrings(cs.ForKey(logic.ImplementedKey("Send")))
	assert.Contains(t, sends, "forall<type> { Implemented(Vec<^0.0>: Send) :- Implemented([^0.0]: Send) }")
	for _, s := range sends {
		assert.NotContains(t, s, "Rc", "negative impls suppress the structural auto impl")
	}
}

func TestForGoalOverlay(t *testing.T) {
	p := langProgram(t)
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Foo"}))
	require.NoError(t, p.AddImpl(logic.ImplDatum{Ref: logic.NewTraitRef("Foo", ts.Tuple(u8, u8))}))
	db, err := Lower(p)
	require.NoError(t, err)

	base := db.Clauses().Len()

	// arity 2 and u8 come from the program already
	same := db.ForGoal(logic.Impl("Foo", ts.Tuple(u8, u8)))
	assert.Same(t, db.Clauses(), same)

	overlay := db.ForGoal(logic.Impl("Copy", ts.Tuple(ts.Scalar("i32"), ts.Tuple(u8, u8, u8))))
	assert.NotSame(t, db.Clauses(), overlay)
	assert.Greater(t, overlay.Len(), base)
	assert.Equal(t, base, db.Clauses().Len(), "the program's clauses are untouched")

	copies := clauseStrings(overlay.ForKey(logic.ImplementedKey("Copy")))
	assert.Contains(t, copies, "Implemented(i32: Copy)")
	assert.Contains(t, copies,
		"forall<type, type, type> { Implemented((^0.0, ^0.1, ^0.2): Copy) :- Implemented(^0.0: Copy), Implemented(^0.1: Copy), Implemented(^0.2: Copy) }")
}

func TestLowerRejectsMalformedProgram(t *testing.T) {
	p := logic.NewProgram()
	require.NoError(t, p.AddTrait(logic.TraitDatum{Name: "Sized", Lang: logic.LangSized, Params: ts.Kinds(ts.Star)}))
	_, err := Lower(p)
	assert.ErrorIs(t, err, logic.ErrMalformedGoal)
}
