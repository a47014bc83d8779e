package typesystem

// Kind represents the sort of a variable or generic parameter.
// * (Star) is the kind of types, ' (Lifetime) the kind of lifetimes.
type Kind interface {
	String() string
	Equal(Kind) bool
}

// KStar represents the kind of a type (*).
type KStar struct{}

func (k KStar) String() string { return "*" }
func (k KStar) Equal(other Kind) bool {
	_, ok := other.(KStar)
	return ok
}

// KLifetime represents the kind of a lifetime (').
type KLifetime struct{}

func (k KLifetime) String() string { return "'" }
func (k KLifetime) Equal(other Kind) bool {
	_, ok := other.(KLifetime)
	return ok
}

var Star Kind = KStar{}
var LifetimeKind Kind = KLifetime{}

// IsLifetime reports whether k is the lifetime kind.
func IsLifetime(k Kind) bool {
	_, ok := k.(KLifetime)
	return ok
}

// Kinds builds a binder list.
// e.g. Kinds(Star, LifetimeKind) for <T, 'a>
func Kinds(ks ...Kind) []Kind {
	return append([]Kind(nil), ks...)
}

// RepeatKind returns n copies of k, used for tuple families of arity n.
func RepeatKind(k Kind, n int) []Kind {
	out := make([]Kind, n)
	for i := range out {
		out[i] = k
	}
	return out
}
