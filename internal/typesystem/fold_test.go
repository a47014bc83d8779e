package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringForms(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{Unit, "()"},
		{Tuple(Scalar("u8")), "(u8,)"},
		{Tuple(Scalar("u8"), Slice(Scalar("u8"))), "(u8, [u8])"},
		{App("Ref", Static, TBound{Var: BoundVar{Debruijn: 0, Index: 1}}), "Ref<'static, ^0.1>"},
		{TInfer{Var: 3}, "?3"},
		{LInfer{Var: 0}, "'?0"},
		{TPlaceholder{Placeholder: Placeholder{Universe: 1, Index: 0}}, "!1_0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.term.String())
	}
}

func TestAlphaEquivalence(t *testing.T) {
	// forall<T> { Vec<T> } and forall<U> { Vec<U> } are the same term
	a := App("Vec", TBound{Var: BoundVar{Index: 0}})
	b := App("Vec", TBound{Var: BoundVar{Index: 0}})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, App("Vec", TBound{Var: BoundVar{Index: 1}})))
	assert.False(t, Equal(Tuple(Scalar("u8")), Tuple(Scalar("u8"), Scalar("u8"))))
}

func TestShift(t *testing.T) {
	free := TBound{Var: BoundVar{Debruijn: 0, Index: 1}}
	shifted := ShiftIn(free, 2)
	assert.Equal(t, "^2.1", shifted.String())

	back, ok := ShiftOut(shifted, 2)
	require.True(t, ok)
	assert.True(t, Equal(free, back))

	_, ok = ShiftOut(free, 1)
	assert.False(t, ok, "shifting a variable out of its own binder must fail")
}

func TestInstantiate(t *testing.T) {
	// (^0.0, [^0.1], ^1.0) with ^0 := [u8, i32]
	body := Tuple(
		TBound{Var: BoundVar{Index: 0}},
		Slice(TBound{Var: BoundVar{Index: 1}}),
		TBound{Var: BoundVar{Debruijn: 1, Index: 0}},
	)
	out := Instantiate(body, []Term{Scalar("u8"), Scalar("i32")})
	assert.Equal(t, "(u8, [i32], ^0.0)", out.String())
	assert.True(t, HasFreeBound(out, 0))
	assert.False(t, HasFreeBound(Scalar("u8"), 0))
}

func TestCanonicalize(t *testing.T) {
	b := NewBindings(0)
	b, v0 := b.NewVar(Star, 0)
	b, v1 := b.NewVar(Star, 0)
	b, v2 := b.NewVar(Star, 0)

	res, err := Unify(TInfer{Var: v2}, Scalar("u8"), b)
	require.NoError(t, err)
	b = res.Bindings

	// the numbering follows first appearance, not arena order
	c1 := Canonicalize(Tuple(TInfer{Var: v1}, TInfer{Var: v0}, TInfer{Var: v2}), b)
	assert.Equal(t, "(^0.0, ^0.1, u8)", c1.Value.String())
	require.Len(t, c1.Binders, 2)
	assert.Equal(t, "?U0", c1.Binders[0].String())

	c2 := Canonicalize(Tuple(TInfer{Var: v0}, TInfer{Var: v1}, Scalar("u8")), b)
	assert.True(t, Equal(c1.Value, c2.Value))

	// instantiate back into a fresh arena and close it again
	fresh, args := NewBindings(0).InstantiateBinders(c1.Binders)
	reopened := Instantiate(c1.Value, args)
	assert.True(t, Equal(c1.Value, Canonicalize(reopened, fresh).Value))
}

func TestSubstIdentity(t *testing.T) {
	assert.True(t, Subst{TBound{Var: BoundVar{Index: 0}}, LBound{Var: BoundVar{Index: 1}}}.IsIdentity())
	assert.False(t, Subst{TBound{Var: BoundVar{Index: 0}}, TBound{Var: BoundVar{Index: 0}}}.IsIdentity())
	assert.False(t, Subst{Scalar("u8")}.IsIdentity())
	assert.True(t, Subst{}.IsIdentity())
	assert.Equal(t, "[?0 := u8]", Subst{Scalar("u8")}.String())
}
