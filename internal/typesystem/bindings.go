package typesystem

// varData records what the arena knows about one inference variable.
type varData struct {
	kind     Kind
	universe int
	value    Term // nil while unbound
}

// Bindings is the arena of inference variables for one resolution branch.
//
// It is a value type: every operation that changes it returns a new
// Bindings and leaves the receiver untouched, so alternative clause
// attempts can start from the same snapshot without interfering.
type Bindings struct {
	vars        []varData
	maxUniverse int
}

// NewBindings returns an empty arena whose highest universe is maxUniverse.
func NewBindings(maxUniverse int) Bindings {
	return Bindings{maxUniverse: maxUniverse}
}

func (b Bindings) clone() Bindings {
	vars := make([]varData, len(b.vars), len(b.vars)+4)
	copy(vars, b.vars)
	return Bindings{vars: vars, maxUniverse: b.maxUniverse}
}

// Len returns the number of variables ever created.
func (b Bindings) Len() int { return len(b.vars) }

// MaxUniverse is the innermost universe created so far.
func (b Bindings) MaxUniverse() int { return b.maxUniverse }

// NewUniverse enters a fresh universe, used for the placeholders of a forall.
func (b Bindings) NewUniverse() (Bindings, int) {
	nb := b.clone()
	nb.maxUniverse++
	return nb, nb.maxUniverse
}

// NewVar allocates an unbound variable of kind k in universe u.
func (b Bindings) NewVar(k Kind, u int) (Bindings, InferVar) {
	nb := b.clone()
	nb.vars = append(nb.vars, varData{kind: k, universe: u})
	if u > nb.maxUniverse {
		nb.maxUniverse = u
	}
	return nb, InferVar(len(nb.vars) - 1)
}

// NewVars allocates one variable per kind, all in universe u, and returns
// them as terms ready to instantiate a binder.
func (b Bindings) NewVars(kinds []Kind, u int) (Bindings, []Term) {
	terms := make([]Term, len(kinds))
	for i, k := range kinds {
		var v InferVar
		b, v = b.NewVar(k, u)
		terms[i] = MakeInfer(k, v)
	}
	return b, terms
}

// Probe returns the value v is bound to, if any.
func (b Bindings) Probe(v InferVar) (Term, bool) {
	if int(v) >= len(b.vars) {
		return nil, false
	}
	val := b.vars[v].value
	return val, val != nil
}

// Universe returns the universe of v.
func (b Bindings) Universe(v InferVar) int {
	if int(v) >= len(b.vars) {
		return 0
	}
	return b.vars[v].universe
}

// VarKind returns the kind of v.
func (b Bindings) VarKind(v InferVar) Kind {
	if int(v) >= len(b.vars) {
		return Star
	}
	return b.vars[v].kind
}

// BoundCount returns how many variables currently have a value.
func (b Bindings) BoundCount() int {
	n := 0
	for _, d := range b.vars {
		if d.value != nil {
			n++
		}
	}
	return n
}

func (b Bindings) bind(v InferVar, t Term) Bindings {
	nb := b.clone()
	nb.vars[v].value = t
	return nb
}

func (b Bindings) lowerUniverse(v InferVar, u int) Bindings {
	if b.vars[v].universe <= u {
		return b
	}
	nb := b.clone()
	nb.vars[v].universe = u
	return nb
}

// Shallow follows variable chains at the top of t only.
func (b Bindings) Shallow(t Term) Term {
	for {
		var v InferVar
		switch typ := t.(type) {
		case TInfer:
			v = typ.Var
		case LInfer:
			v = typ.Var
		default:
			return t
		}
		val, ok := b.Probe(v)
		if !ok {
			return t
		}
		t = val
	}
}

type resolver struct {
	IdentityFolder
	b Bindings
}

func (r resolver) FoldInfer(v InferVar, k Kind, outer int) Term {
	if val, ok := r.b.Probe(v); ok {
		// values are closed: they never mention bound variables
		return Fold(val, r, outer)
	}
	return MakeInfer(k, v)
}

// Folder returns a folder that replaces bound inference variables by their
// values, recursively.
func (b Bindings) Folder() Folder { return resolver{b: b} }

// Apply replaces every bound inference variable in t by its value.
// Applying twice yields the same term as applying once.
func (b Bindings) Apply(t Term) Term {
	return Fold(t, resolver{b: b}, 0)
}

// ApplyTy is Apply for a type.
func (b Bindings) ApplyTy(t Ty) Ty {
	return b.Apply(t).(Ty)
}

// IsUnboundVar reports whether t resolves to an unbound inference variable.
func (b Bindings) IsUnboundVar(t Term) bool {
	switch b.Shallow(t).(type) {
	case TInfer, LInfer:
		return true
	}
	return false
}
