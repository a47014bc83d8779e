package typesystem

// Folder rewrites the variables of a term. outer is the number of binders
// entered since the fold started, so a BoundVar with Debruijn >= outer is
// free with respect to the folded value.
// Implementations must return a term of the same kind they were given.
type Folder interface {
	FoldBound(v BoundVar, k Kind, outer int) Term
	FoldInfer(v InferVar, k Kind, outer int) Term
	FoldPlaceholder(p Placeholder, k Kind, outer int) Term
}

// IdentityFolder leaves every variable untouched. Embed it to override
// only the cases a folder cares about.
type IdentityFolder struct{}

func (IdentityFolder) FoldBound(v BoundVar, k Kind, outer int) Term { return MakeBound(k, v) }
func (IdentityFolder) FoldInfer(v InferVar, k Kind, outer int) Term { return MakeInfer(k, v) }
func (IdentityFolder) FoldPlaceholder(p Placeholder, k Kind, outer int) Term {
	return MakePlaceholder(k, p)
}

// Fold rebuilds t bottom-up, handing every variable to f.
func Fold(t Term, f Folder, outer int) Term {
	if t == nil {
		return nil
	}
	switch typ := t.(type) {
	case TApp:
		return TApp{Name: typ.Name, Args: FoldAll(typ.Args, f, outer)}
	case TTuple:
		elems := make([]Ty, len(typ.Elements))
		for i, e := range typ.Elements {
			elems[i] = FoldTy(e, f, outer)
		}
		return TTuple{Elements: elems}
	case TSlice:
		return TSlice{Elem: FoldTy(typ.Elem, f, outer)}
	case TScalar, LStatic:
		return typ
	case TBound:
		return f.FoldBound(typ.Var, Star, outer)
	case TInfer:
		return f.FoldInfer(typ.Var, Star, outer)
	case TPlaceholder:
		return f.FoldPlaceholder(typ.Placeholder, Star, outer)
	case LBound:
		return f.FoldBound(typ.Var, LifetimeKind, outer)
	case LInfer:
		return f.FoldInfer(typ.Var, LifetimeKind, outer)
	case LPlaceholder:
		return f.FoldPlaceholder(typ.Placeholder, LifetimeKind, outer)
	default:
		return t
	}
}

// FoldTy folds a type and keeps its static type.
func FoldTy(t Ty, f Folder, outer int) Ty {
	return Fold(t, f, outer).(Ty)
}

// FoldAll folds every term of a list into a new list.
func FoldAll(ts []Term, f Folder, outer int) []Term {
	if ts == nil {
		return nil
	}
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = Fold(t, f, outer)
	}
	return out
}

// Walk visits t and every sub-term in pre-order. Returning false from fn
// stops the descent into the current term's children.
func Walk(t Term, fn func(Term) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch typ := t.(type) {
	case TApp:
		for _, a := range typ.Args {
			Walk(a, fn)
		}
	case TTuple:
		for _, e := range typ.Elements {
			Walk(e, fn)
		}
	case TSlice:
		Walk(typ.Elem, fn)
	}
}

type shifter struct {
	IdentityFolder
	amount int
}

func (s shifter) FoldBound(v BoundVar, k Kind, outer int) Term {
	if v.Debruijn >= outer {
		v = v.Shifted(s.amount)
	}
	return MakeBound(k, v)
}

// ShiftIn moves t under n additional binders.
func ShiftIn(t Term, n int) Term {
	if n == 0 {
		return t
	}
	return Fold(t, shifter{amount: n}, 0)
}

type outShifter struct {
	IdentityFolder
	amount  int
	escaped bool
}

func (s *outShifter) FoldBound(v BoundVar, k Kind, outer int) Term {
	if v.Debruijn >= outer {
		if v.Debruijn-s.amount < outer {
			s.escaped = true
			return MakeBound(k, v)
		}
		v.Debruijn -= s.amount
	}
	return MakeBound(k, v)
}

// ShiftOut moves t out of n binders. It fails when t references a variable
// bound by one of those binders.
func ShiftOut(t Term, n int) (Term, bool) {
	s := &outShifter{amount: n}
	out := Fold(t, s, 0)
	return out, !s.escaped
}

// Substitutor replaces the variables of the innermost binder with Args.
type Substitutor struct {
	IdentityFolder
	Args []Term
}

func (s Substitutor) FoldBound(v BoundVar, k Kind, outer int) Term {
	switch {
	case v.Debruijn == outer && v.Index < len(s.Args):
		return ShiftIn(s.Args[v.Index], outer)
	case v.Debruijn > outer:
		return MakeBound(k, BoundVar{Debruijn: v.Debruijn - 1, Index: v.Index})
	}
	return MakeBound(k, v)
}

// Instantiate substitutes args for the variables of the binder that
// directly encloses t.
func Instantiate(t Term, args []Term) Term {
	return Fold(t, Substitutor{Args: args}, 0)
}

// InstantiateTy is Instantiate for a type.
func InstantiateTy(t Ty, args []Term) Ty {
	return Instantiate(t, args).(Ty)
}

// HasFreeBound reports whether t references a bound variable with
// Debruijn >= depth, i.e. one not bound inside t itself.
func HasFreeBound(t Term, depth int) bool {
	found := false
	Walk(t, func(sub Term) bool {
		switch s := sub.(type) {
		case TBound:
			found = found || s.Var.Debruijn >= depth
		case LBound:
			found = found || s.Var.Debruijn >= depth
		}
		return !found
	})
	return found
}

// IdentityArgs returns the bound variables ^0.0 .. ^0.n-1 for a binder,
// i.e. the arguments that instantiate it to itself.
func IdentityArgs(kinds []Kind) []Term {
	args := make([]Term, len(kinds))
	for i, k := range kinds {
		args[i] = MakeBound(k, BoundVar{Index: i})
	}
	return args
}
