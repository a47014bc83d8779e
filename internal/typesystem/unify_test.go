package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	u8  = Scalar("u8")
	i32 = Scalar("i32")
)

func TestUnifyStructural(t *testing.T) {
	tests := []struct {
		name    string
		t1      Ty
		t2      Ty
		wantErr error
	}{
		{name: "same scalar", t1: u8, t2: u8},
		{name: "different scalar", t1: u8, t2: i32, wantErr: ErrConstructorMismatch},
		{name: "tuple arity is identity", t1: Tuple(u8, u8), t2: Tuple(u8, u8, u8), wantErr: ErrConstructorMismatch},
		{name: "empty tuples", t1: Unit, t2: Tuple()},
		{name: "slice vs scalar", t1: Slice(u8), t2: u8, wantErr: ErrConstructorMismatch},
		{name: "nominal heads differ", t1: App("Vec", u8), t2: App("Box", u8), wantErr: ErrConstructorMismatch},
		{name: "nominal args differ", t1: App("Vec", u8), t2: App("Vec", i32), wantErr: ErrConstructorMismatch},
		{name: "nested tuple", t1: Tuple(i32, Tuple(i32)), t2: Tuple(i32, Tuple(i32))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unify(tt.t1, tt.t2, NewBindings(0))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsUnificationFailure(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUnifyBindsVariables(t *testing.T) {
	b, v := NewBindings(0).NewVar(Star, 0)
	x := TInfer{Var: v}

	res, err := Unify(Tuple(x, u8), Tuple(Slice(i32), u8), b)
	require.NoError(t, err)
	assert.Equal(t, "[i32]", res.Bindings.Apply(x).String())

	// the input snapshot is untouched
	_, bound := b.Probe(v)
	assert.False(t, bound)
}

func TestUnifyOccursCheck(t *testing.T) {
	b, v := NewBindings(0).NewVar(Star, 0)
	x := TInfer{Var: v}

	_, err := Unify(x, App("Vec", x), b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOccursCheck)

	_, err = Unify(Tuple(u8, x), Tuple(u8, Tuple(x)), b)
	assert.ErrorIs(t, err, ErrOccursCheck)
}

func TestUnifyVariableChains(t *testing.T) {
	b := NewBindings(0)
	b, v0 := b.NewVar(Star, 0)
	b, v1 := b.NewVar(Star, 0)
	x, y := TInfer{Var: v0}, TInfer{Var: v1}

	res, err := Unify(y, x, b)
	require.NoError(t, err)
	// the younger variable points at the older one
	_, bound := res.Bindings.Probe(v0)
	assert.False(t, bound)

	res, err = Unify(x, u8, res.Bindings)
	require.NoError(t, err)
	assert.Equal(t, "u8", res.Bindings.Apply(y).String())

	// Apply is idempotent
	once := res.Bindings.Apply(Tuple(x, y))
	assert.True(t, Equal(once, res.Bindings.Apply(once)))
}

func TestUnifyUniverses(t *testing.T) {
	b := NewBindings(0)
	b, outer := b.NewVar(Star, 0)
	b, u := b.NewUniverse()
	p := TPlaceholder{Placeholder: Placeholder{Universe: u}}

	// exists<T> { forall<U> { T = U } } has no solution
	_, err := Unify(TInfer{Var: outer}, p, b)
	assert.ErrorIs(t, err, ErrUniverseEscape)

	// forall<U> { exists<T> { T = U } } does
	b, inner := b.NewVar(Star, u)
	res, err := Unify(TInfer{Var: inner}, p, b)
	require.NoError(t, err)
	assert.Equal(t, p.String(), res.Bindings.Apply(TInfer{Var: inner}).String())

	// binding an outer variable to a term holding an inner variable pulls the
	// inner one down to the outer universe
	b, inner2 := b.NewVar(Star, u)
	res, err = Unify(TInfer{Var: outer}, App("Vec", TInfer{Var: inner2}), b)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Bindings.Universe(inner2))
}

func TestUnifyLifetimes(t *testing.T) {
	b := NewBindings(0)
	b, u := b.NewUniverse()
	p := LPlaceholder{Placeholder: Placeholder{Universe: u}}

	// rigid lifetimes produce constraints rather than failures
	res, err := Unify(App("Ref", Static, u8), App("Ref", p, u8), b)
	require.NoError(t, err)
	require.Len(t, res.Constraints, 1)
	assert.Equal(t, "'static == '!1_0", res.Constraints[0].String())

	// a variable that can name the other side is related directly
	b, lv := b.NewVar(LifetimeKind, u)
	res, err = Unify(LInfer{Var: lv}, p, b)
	require.NoError(t, err)
	assert.Empty(t, res.Constraints)
	assert.Equal(t, "'!1_0", res.Bindings.Apply(LInfer{Var: lv}).String())

	// a variable from an outer universe cannot, so a constraint is recorded
	b, outerLv := b.NewVar(LifetimeKind, 0)
	res, err = Unify(LInfer{Var: outerLv}, p, b)
	require.NoError(t, err)
	assert.Len(t, res.Constraints, 1)

	_, err = Unify(Static, u8, b)
	assert.ErrorIs(t, err, ErrKindMismatch)
}
