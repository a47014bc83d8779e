package typesystem

import (
	"github.com/cockroachdb/errors"
)

// Unification failures. They never reach the caller of a query: the
// resolver treats any of them as "this candidate does not apply".
var (
	ErrOccursCheck         = errors.New("occurs check failed")
	ErrConstructorMismatch = errors.New("constructor mismatch")
	ErrUniverseEscape      = errors.New("placeholder escapes its universe")
	ErrKindMismatch        = errors.New("kind mismatch")
)

// IsUnificationFailure reports whether err is one of the local unification
// failures above.
func IsUnificationFailure(err error) bool {
	return errors.IsAny(err, ErrOccursCheck, ErrConstructorMismatch, ErrUniverseEscape, ErrKindMismatch)
}

func errMismatch(t1, t2 Term) error {
	return errors.Wrapf(ErrConstructorMismatch, "cannot unify %s with %s", t1, t2)
}

func errOccurs(v InferVar, t Term) error {
	return errors.Wrapf(ErrOccursCheck, "%s occurs in %s", v, t)
}

func errEscape(v InferVar, p Placeholder) error {
	return errors.Wrapf(ErrUniverseEscape, "%s cannot name %s", v, p)
}

func errKind(t1, t2 Term) error {
	return errors.Wrapf(ErrKindMismatch, "%s has kind %s, %s has kind %s", t1, t1.Kind(), t2, t2.Kind())
}
