package typesystem

import (
	"github.com/cockroachdb/errors"
)

// ErrMalformed marks terms that cannot be solved at all: a bound variable
// outside its binder, a generic argument of the wrong kind, an unknown
// nominal type or a wrong number of arguments.
var ErrMalformed = errors.New("malformed term")

// Resolver lets kind checking look up nominal type declarations.
type Resolver interface {
	// ResolveTypeParams returns the parameter kinds of a nominal type.
	ResolveTypeParams(name string) ([]Kind, bool)
}

// Scope is the stack of binders enclosing a term, innermost last.
type Scope [][]Kind

// Push returns the scope extended with one more binder.
func (s Scope) Push(kinds []Kind) Scope {
	out := make(Scope, len(s), len(s)+1)
	copy(out, s)
	return append(out, kinds)
}

// Lookup finds the kind of a bound variable.
func (s Scope) Lookup(v BoundVar) (Kind, bool) {
	if v.Debruijn < 0 || v.Debruijn >= len(s) {
		return nil, false
	}
	binder := s[len(s)-1-v.Debruijn]
	if v.Index < 0 || v.Index >= len(binder) {
		return nil, false
	}
	return binder[v.Index], true
}

// KindCheck validates that every bound variable of t is in scope with the
// kind it is used at, and that nominal types get arguments of the declared
// kinds.
func KindCheck(t Term, scope Scope, r Resolver) error {
	if t == nil {
		return errors.Wrap(ErrMalformed, "missing term")
	}

	switch typ := t.(type) {
	case TBound:
		return checkBound(typ.Var, Star, scope)
	case LBound:
		return checkBound(typ.Var, LifetimeKind, scope)
	case TApp:
		return checkTAppKind(typ, scope, r)
	case TTuple:
		for _, elem := range typ.Elements {
			if err := KindCheck(elem, scope, r); err != nil {
				return err
			}
		}
		return nil
	case TSlice:
		return KindCheck(typ.Elem, scope, r)
	default:
		return nil
	}
}

// ExpectKind checks t and that its kind is k.
func ExpectKind(t Term, k Kind, scope Scope, r Resolver) error {
	if err := KindCheck(t, scope, r); err != nil {
		return err
	}
	if !t.Kind().Equal(k) {
		return errors.Wrapf(ErrMalformed, "%s has kind %s, expected %s", t, t.Kind(), k)
	}
	return nil
}

func checkBound(v BoundVar, used Kind, scope Scope) error {
	k, ok := scope.Lookup(v)
	if !ok {
		return errors.Wrapf(ErrMalformed, "bound variable %s is not in scope", v)
	}
	if !k.Equal(used) {
		return errors.Wrapf(ErrMalformed, "bound variable %s has kind %s but is used as %s", v, k, used)
	}
	return nil
}

func checkTAppKind(t TApp, scope Scope, r Resolver) error {
	if r == nil {
		return nil
	}
	params, ok := r.ResolveTypeParams(t.Name)
	if !ok {
		return errors.Wrapf(ErrMalformed, "unknown type %s", t.Name)
	}
	if len(params) != len(t.Args) {
		return errors.Wrapf(ErrMalformed, "type %s expects %d arguments, got %d", t.Name, len(params), len(t.Args))
	}
	for i, arg := range t.Args {
		if err := ExpectKind(arg, params[i], scope, r); err != nil {
			return errors.Wrapf(err, "argument %d of %s", i, t.Name)
		}
	}
	return nil
}
