package typesystem

// LifetimeEq is a residual region constraint: A and B must denote the same
// lifetime. Lifetimes are solved outside the engine, so mismatches between
// rigid lifetimes are collected instead of failing unification.
type LifetimeEq struct {
	A Lifetime
	B Lifetime
}

func (c LifetimeEq) String() string {
	return c.A.String() + " == " + c.B.String()
}

// Result is the outcome of a successful unification.
type Result struct {
	Bindings    Bindings
	Constraints []LifetimeEq
}

// Unify attempts to make t1 and t2 equal under b.
//
// Both sides are decomposed structurally. A free variable is bound to the
// other side after the occurs check and the universe check; rigid
// constructors must agree exactly (same name, same tuple arity, same scalar).
// b itself is never modified.
func Unify(t1, t2 Term, b Bindings) (Result, error) {
	u := &unifier{bindings: b}
	if err := u.unify(t1, t2); err != nil {
		return Result{}, err
	}
	return Result{Bindings: u.bindings, Constraints: u.constraints}, nil
}

// UnifyAll unifies two argument lists pairwise.
func UnifyAll(ts1, ts2 []Term, b Bindings) (Result, error) {
	if len(ts1) != len(ts2) {
		return Result{}, errMismatch(TApp{Name: "_", Args: ts1}, TApp{Name: "_", Args: ts2})
	}
	u := &unifier{bindings: b}
	for i := range ts1 {
		if err := u.unify(ts1[i], ts2[i]); err != nil {
			return Result{}, err
		}
	}
	return Result{Bindings: u.bindings, Constraints: u.constraints}, nil
}

type unifier struct {
	bindings    Bindings
	constraints []LifetimeEq
}

func (u *unifier) unify(t1, t2 Term) error {
	t1 = u.bindings.Shallow(t1)
	t2 = u.bindings.Shallow(t2)

	if !t1.Kind().Equal(t2.Kind()) {
		return errKind(t1, t2)
	}

	if l1, ok := t1.(Lifetime); ok {
		return u.unifyLifetimes(l1, t2.(Lifetime))
	}

	switch a := t1.(type) {
	case TInfer:
		if b, ok := t2.(TInfer); ok {
			return u.unifyVars(a.Var, b.Var, Star)
		}
		return u.bindVar(a.Var, t2)
	}
	if b, ok := t2.(TInfer); ok {
		return u.bindVar(b.Var, t1)
	}

	switch a := t1.(type) {
	case TApp:
		b, ok := t2.(TApp)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return errMismatch(t1, t2)
		}
		for i := range a.Args {
			if err := u.unify(a.Args[i], b.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case TTuple:
		b, ok := t2.(TTuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return errMismatch(t1, t2)
		}
		for i := range a.Elements {
			if err := u.unify(a.Elements[i], b.Elements[i]); err != nil {
				return err
			}
		}
		return nil
	case TSlice:
		b, ok := t2.(TSlice)
		if !ok {
			return errMismatch(t1, t2)
		}
		return u.unify(a.Elem, b.Elem)
	case TScalar, TPlaceholder, TBound:
		if t1 == t2 {
			return nil
		}
		return errMismatch(t1, t2)
	}
	return errMismatch(t1, t2)
}

// unifyLifetimes relates a variable to a value when its universe allows it,
// and otherwise records an equality constraint.
func (u *unifier) unifyLifetimes(l1, l2 Lifetime) error {
	if l1 == l2 {
		return nil
	}
	v1, isVar1 := l1.(LInfer)
	v2, isVar2 := l2.(LInfer)
	switch {
	case isVar1 && isVar2:
		return u.unifyVars(v1.Var, v2.Var, LifetimeKind)
	case isVar1 && u.canName(v1.Var, l2):
		u.bindings = u.bindings.bind(v1.Var, l2)
		return nil
	case isVar2 && u.canName(v2.Var, l1):
		u.bindings = u.bindings.bind(v2.Var, l1)
		return nil
	}
	u.constraints = append(u.constraints, LifetimeEq{A: l1, B: l2})
	return nil
}

func (u *unifier) canName(v InferVar, l Lifetime) bool {
	if p, ok := l.(LPlaceholder); ok {
		return p.Placeholder.Universe <= u.bindings.Universe(v)
	}
	return true
}

// unifyVars binds the variable from the innermost universe to the other one;
// on a tie the younger variable points to the older, so query variables
// stay the representatives.
func (u *unifier) unifyVars(a, b InferVar, k Kind) error {
	if a == b {
		return nil
	}
	ua, ub := u.bindings.Universe(a), u.bindings.Universe(b)
	if ua < ub || (ua == ub && a < b) {
		a, b = b, a
	}
	u.bindings = u.bindings.bind(a, MakeInfer(k, b))
	return nil
}

// bindVar binds v to t.
// It fails when v occurs in t (infinite type) or when t names a placeholder
// from a universe v cannot see. Variables of t from deeper universes are
// pulled down to v's universe.
func (u *unifier) bindVar(v InferVar, t Term) error {
	resolved := u.bindings.Apply(t)
	universe := u.bindings.Universe(v)

	var err error
	Walk(resolved, func(sub Term) bool {
		if err != nil {
			return false
		}
		switch s := sub.(type) {
		case TInfer:
			if s.Var == v {
				err = errOccurs(v, resolved)
				return false
			}
			u.bindings = u.bindings.lowerUniverse(s.Var, universe)
		case LInfer:
			u.bindings = u.bindings.lowerUniverse(s.Var, universe)
		case TPlaceholder:
			if s.Placeholder.Universe > universe {
				err = errEscape(v, s.Placeholder)
			}
		case LPlaceholder:
			if s.Placeholder.Universe > universe {
				err = errEscape(v, s.Placeholder)
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	u.bindings = u.bindings.bind(v, resolved)
	return nil
}
