package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, "*", Star.String())
	assert.Equal(t, "'", LifetimeKind.String())

	assert.True(t, Star.Equal(KStar{}))
	assert.False(t, Star.Equal(LifetimeKind))
	assert.True(t, IsLifetime(LifetimeKind))
	assert.False(t, IsLifetime(Star))

	assert.Equal(t, []Kind{Star, Star, Star}, RepeatKind(Star, 3))
}

func TestTermKinds(t *testing.T) {
	tests := []struct {
		name     string
		term     Term
		wantKind Kind
	}{
		{name: "scalar", term: Scalar("u8"), wantKind: Star},
		{name: "tuple", term: Tuple(Scalar("u8"), Slice(Scalar("u8"))), wantKind: Star},
		{name: "nominal", term: App("Ref", Static, Scalar("u8")), wantKind: Star},
		{name: "bound type", term: TBound{Var: BoundVar{}}, wantKind: Star},
		{name: "bound lifetime", term: LBound{Var: BoundVar{}}, wantKind: LifetimeKind},
		{name: "static", term: Static, wantKind: LifetimeKind},
		{name: "lifetime var", term: MakeInfer(LifetimeKind, 3), wantKind: LifetimeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.term.Kind().Equal(tt.wantKind), "%s Kind() = %s, want %s", tt.term, tt.term.Kind(), tt.wantKind)
		})
	}
}

type declResolver map[string][]Kind

func (d declResolver) ResolveTypeParams(name string) ([]Kind, bool) {
	k, ok := d[name]
	return k, ok
}

func TestKindCheck(t *testing.T) {
	decls := declResolver{
		"Vec": {Star},
		"Ref": {LifetimeKind, Star},
	}
	scope := Scope{}.Push(Kinds(Star, LifetimeKind))

	tests := []struct {
		name    string
		term    Term
		wantErr bool
	}{
		{name: "well scoped", term: App("Vec", TBound{Var: BoundVar{Index: 0}}), wantErr: false},
		{name: "lifetime argument", term: App("Ref", LBound{Var: BoundVar{Index: 1}}, Scalar("u8")), wantErr: false},
		{name: "index out of binder", term: TBound{Var: BoundVar{Index: 2}}, wantErr: true},
		{name: "debruijn out of scope", term: TBound{Var: BoundVar{Debruijn: 1}}, wantErr: true},
		{name: "type var used as lifetime", term: App("Ref", LBound{Var: BoundVar{Index: 0}}, Scalar("u8")), wantErr: true},
		{name: "lifetime in type position", term: App("Vec", Static), wantErr: true},
		{name: "arity mismatch", term: App("Vec"), wantErr: true},
		{name: "unknown type", term: App("Missing"), wantErr: true},
		{name: "nested in tuple", term: Tuple(Scalar("u8"), TBound{Var: BoundVar{Index: 5}}), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := KindCheck(tt.term, scope, decls)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
