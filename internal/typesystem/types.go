package typesystem

import (
	"fmt"
	"strings"
)

// Term is the interface for everything that can appear as a generic argument:
// types and lifetimes.
type Term interface {
	String() string
	Kind() Kind
	isTerm()
}

// Ty is a type term.
type Ty interface {
	Term
	isTy()
}

// Lifetime is a lifetime term.
type Lifetime interface {
	Term
	isLifetime()
}

// BoundVar references a variable introduced by an enclosing binder.
// Debruijn counts binders outward from the use site (0 is the innermost),
// Index is the position inside that binder.
type BoundVar struct {
	Debruijn int
	Index    int
}

func (v BoundVar) String() string {
	return fmt.Sprintf("^%d.%d", v.Debruijn, v.Index)
}

// Shifted returns the variable moved under n additional binders.
func (v BoundVar) Shifted(n int) BoundVar {
	return BoundVar{Debruijn: v.Debruijn + n, Index: v.Index}
}

// InferVar is the key of a unification variable in a Bindings arena.
type InferVar int

func (v InferVar) String() string {
	return fmt.Sprintf("?%d", int(v))
}

// Placeholder is a rigid variable introduced by a universal quantifier.
// It lives in Universe and can only be named by inference variables
// of that universe or a higher one.
type Placeholder struct {
	Universe int
	Index    int
}

func (p Placeholder) String() string {
	return fmt.Sprintf("!%d_%d", p.Universe, p.Index)
}

// TApp is a nominal type applied to its generic arguments (e.g. Vec<u8>, Ref<'a, T>).
type TApp struct {
	Name string
	Args []Term
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "<" + joinTerms(t.Args) + ">"
}

func (t TApp) Kind() Kind { return Star }
func (TApp) isTerm()      {}
func (TApp) isTy()        {}

// TTuple is a tuple type. The arity is part of the constructor identity.
type TTuple struct {
	Elements []Ty
}

func (t TTuple) String() string {
	switch len(t.Elements) {
	case 0:
		return "()"
	case 1:
		return "(" + t.Elements[0].String() + ",)"
	}
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) Kind() Kind { return Star }
func (TTuple) isTerm()      {}
func (TTuple) isTy()        {}

// TSlice is a dynamically sized slice type [T].
type TSlice struct {
	Elem Ty
}

func (t TSlice) String() string { return "[" + t.Elem.String() + "]" }
func (t TSlice) Kind() Kind     { return Star }
func (TSlice) isTerm()          {}
func (TSlice) isTy()            {}

// TScalar is a primitive type such as u8, i32 or bool.
type TScalar struct {
	Name string
}

func (t TScalar) String() string { return t.Name }
func (t TScalar) Kind() Kind     { return Star }
func (TScalar) isTerm()          {}
func (TScalar) isTy()            {}

// TBound is a type bound by an enclosing binder.
type TBound struct {
	Var BoundVar
}

func (t TBound) String() string { return t.Var.String() }
func (t TBound) Kind() Kind     { return Star }
func (TBound) isTerm()          {}
func (TBound) isTy()            {}

// TInfer is a type unification variable.
type TInfer struct {
	Var InferVar
}

func (t TInfer) String() string { return t.Var.String() }
func (t TInfer) Kind() Kind     { return Star }
func (TInfer) isTerm()          {}
func (TInfer) isTy()            {}

// TPlaceholder is a rigid type introduced by forall.
type TPlaceholder struct {
	Placeholder Placeholder
}

func (t TPlaceholder) String() string { return t.Placeholder.String() }
func (t TPlaceholder) Kind() Kind     { return Star }
func (TPlaceholder) isTerm()          {}
func (TPlaceholder) isTy()            {}

// LBound is a lifetime bound by an enclosing binder.
type LBound struct {
	Var BoundVar
}

func (l LBound) String() string { return "'" + l.Var.String() }
func (l LBound) Kind() Kind     { return LifetimeKind }
func (LBound) isTerm()          {}
func (LBound) isLifetime()      {}

// LInfer is a lifetime unification variable.
type LInfer struct {
	Var InferVar
}

func (l LInfer) String() string { return "'" + l.Var.String() }
func (l LInfer) Kind() Kind     { return LifetimeKind }
func (LInfer) isTerm()          {}
func (LInfer) isLifetime()      {}

// LPlaceholder is a rigid lifetime introduced by forall.
type LPlaceholder struct {
	Placeholder Placeholder
}

func (l LPlaceholder) String() string { return "'" + l.Placeholder.String() }
func (l LPlaceholder) Kind() Kind     { return LifetimeKind }
func (LPlaceholder) isTerm()          {}
func (LPlaceholder) isLifetime()      {}

// LStatic is the 'static lifetime.
type LStatic struct{}

func (LStatic) String() string { return "'static" }
func (LStatic) Kind() Kind     { return LifetimeKind }
func (LStatic) isTerm()        {}
func (LStatic) isLifetime()    {}

// Static is the shared 'static value.
var Static Lifetime = LStatic{}

// Unit is the empty tuple.
var Unit Ty = TTuple{}

// Scalar returns the scalar type with the given name.
func Scalar(name string) Ty { return TScalar{Name: name} }

// Tuple builds a tuple type from its components.
func Tuple(elems ...Ty) Ty { return TTuple{Elements: elems} }

// Slice builds [elem].
func Slice(elem Ty) Ty { return TSlice{Elem: elem} }

// App builds a nominal type application.
func App(name string, args ...Term) Ty { return TApp{Name: name, Args: args} }

// MakeBound returns the bound variable v as a term of the given kind.
func MakeBound(k Kind, v BoundVar) Term {
	if IsLifetime(k) {
		return LBound{Var: v}
	}
	return TBound{Var: v}
}

// MakeInfer returns the inference variable v as a term of the given kind.
func MakeInfer(k Kind, v InferVar) Term {
	if IsLifetime(k) {
		return LInfer{Var: v}
	}
	return TInfer{Var: v}
}

// MakePlaceholder returns p as a term of the given kind.
func MakePlaceholder(k Kind, p Placeholder) Term {
	if IsLifetime(k) {
		return LPlaceholder{Placeholder: p}
	}
	return TPlaceholder{Placeholder: p}
}

// Equal reports structural equality. Bound variables are positional, so two
// terms that differ only in the names their binders had in source are equal.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case TApp:
		b, ok := b.(TApp)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case TTuple:
		b, ok := b.(TTuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case TSlice:
		b, ok := b.(TSlice)
		return ok && Equal(a.Elem, b.Elem)
	case TScalar, TBound, TInfer, TPlaceholder, LBound, LInfer, LPlaceholder, LStatic:
		return a == b
	}
	return false
}

// EqualAll compares two argument lists element-wise.
func EqualAll(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func joinTerms(ts []Term) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// JoinTerms renders a comma separated argument list.
func JoinTerms(ts []Term) string { return joinTerms(ts) }
