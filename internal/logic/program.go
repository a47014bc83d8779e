package logic

import (
	"github.com/cockroachdb/errors"

	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ErrMalformedGoal is returned for goals and declarations that cannot be
// solved at all. It is the same sentinel the kind checker uses, so a single
// errors.Is covers both.
var ErrMalformedGoal = ts.ErrMalformed

// ErrDuplicateDecl is returned when a name is declared twice.
var ErrDuplicateDecl = errors.New("duplicate declaration")

// LangItem marks a trait the structural rules know about.
type LangItem int

const (
	LangNone LangItem = iota
	LangSized
	LangCopy
	LangClone
)

var langNames = map[LangItem]string{
	LangSized: "sized",
	LangCopy:  "copy",
	LangClone: "clone",
}

func (l LangItem) String() string {
	if s, ok := langNames[l]; ok {
		return s
	}
	return "none"
}

// ParseLangItem maps the name used in #[lang(...)] to a LangItem.
func ParseLangItem(s string) (LangItem, bool) {
	for l, name := range langNames {
		if name == s {
			return l, true
		}
	}
	return LangNone, false
}

// StructDatum declares a nominal type. Where and Fields live under the
// binder of Params.
type StructDatum struct {
	Name   string
	Params []ts.Kind
	Where  []TraitRef
	Fields []ts.Ty
}

// TraitDatum declares a trait. Params excludes Self.
type TraitDatum struct {
	Name          string
	Params        []ts.Kind
	Lang          LangItem
	Auto          bool
	Coinductive   bool
	NonEnumerable bool
}

// IsCoinductive reports whether cycles through this trait are accepted.
func (t *TraitDatum) IsCoinductive() bool { return t.Auto || t.Coinductive }

// Enumerable reports whether an unknown Self type may be solved by trying
// every clause. Lang items, auto traits and #[non_enumerable] traits have
// too many (or infinitely many) implementors for that.
func (t *TraitDatum) Enumerable() bool {
	return !t.Auto && !t.NonEnumerable && t.Lang == LangNone
}

// ImplDatum declares an impl. Ref and Where live under the binder of
// Binders.
type ImplDatum struct {
	Binders  []ts.Kind
	Ref      TraitRef
	Where    []Goal
	Negative bool
}

func (i *ImplDatum) String() string {
	s := "impl"
	if i.Negative {
		s += " !"
	} else {
		s += " "
	}
	return s + i.Ref.String()
}

// Program is the immutable set of declarations a query is solved against.
// It is built once by the loader; resolution only reads it.
type Program struct {
	structs     map[string]*StructDatum
	structOrder []string
	traits      map[string]*TraitDatum
	traitOrder  []string
	impls       []*ImplDatum
	langs       map[LangItem]*TraitDatum
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{
		structs: make(map[string]*StructDatum),
		traits:  make(map[string]*TraitDatum),
		langs:   make(map[LangItem]*TraitDatum),
	}
}

// AddStruct declares a nominal type. Its where-clauses and fields are
// checked once every declaration is in, by Validate.
func (p *Program) AddStruct(s StructDatum) error {
	if _, ok := p.structs[s.Name]; ok {
		return errors.Wrapf(ErrDuplicateDecl, "struct %s", s.Name)
	}
	p.structs[s.Name] = &s
	p.structOrder = append(p.structOrder, s.Name)
	return nil
}

// AddTrait declares a trait.
func (p *Program) AddTrait(t TraitDatum) error {
	if _, ok := p.traits[t.Name]; ok {
		return errors.Wrapf(ErrDuplicateDecl, "trait %s", t.Name)
	}
	if t.Lang != LangNone {
		if prev, ok := p.langs[t.Lang]; ok {
			return errors.Wrapf(ErrDuplicateDecl, "lang item %s on %s and %s", t.Lang, prev.Name, t.Name)
		}
		p.langs[t.Lang] = &t
	}
	p.traits[t.Name] = &t
	p.traitOrder = append(p.traitOrder, t.Name)
	return nil
}

// AddImpl declares an impl.
func (p *Program) AddImpl(i ImplDatum) error {
	p.impls = append(p.impls, &i)
	return nil
}

// Struct looks up a nominal type.
func (p *Program) Struct(name string) (*StructDatum, bool) {
	s, ok := p.structs[name]
	return s, ok
}

// Trait looks up a trait.
func (p *Program) Trait(name string) (*TraitDatum, bool) {
	t, ok := p.traits[name]
	return t, ok
}

// LangTrait returns the trait carrying lang item l, if declared.
func (p *Program) LangTrait(l LangItem) (*TraitDatum, bool) {
	t, ok := p.langs[l]
	return t, ok
}

// Structs returns the nominal types in declaration order.
func (p *Program) Structs() []*StructDatum {
	out := make([]*StructDatum, len(p.structOrder))
	for i, n := range p.structOrder {
		out[i] = p.structs[n]
	}
	return out
}

// Traits returns the traits in declaration order.
func (p *Program) Traits() []*TraitDatum {
	out := make([]*TraitDatum, len(p.traitOrder))
	for i, n := range p.traitOrder {
		out[i] = p.traits[n]
	}
	return out
}

// Impls returns the impls in declaration order.
func (p *Program) Impls() []*ImplDatum { return p.impls }

// ResolveTypeParams implements typesystem.Resolver.
func (p *Program) ResolveTypeParams(name string) ([]ts.Kind, bool) {
	s, ok := p.structs[name]
	if !ok {
		return nil, false
	}
	return s.Params, true
}

// Validate checks every declaration against the others: struct
// where-clauses and fields, impl headers and impl conditions.
func (p *Program) Validate() error {
	for _, t := range p.Traits() {
		if (t.Lang != LangNone || t.Auto) && len(t.Params) > 0 {
			return errors.Wrapf(ErrMalformedGoal, "trait %s cannot have parameters", t.Name)
		}
	}
	for _, s := range p.Structs() {
		scope := ts.Scope{}.Push(s.Params)
		for _, w := range s.Where {
			if err := p.checkTraitRef(w, scope); err != nil {
				return errors.Wrapf(err, "where-clause of struct %s", s.Name)
			}
		}
		for i, f := range s.Fields {
			if err := ts.ExpectKind(f, ts.Star, scope, p); err != nil {
				return errors.Wrapf(err, "field %d of struct %s", i, s.Name)
			}
		}
	}
	for _, i := range p.impls {
		scope := ts.Scope{}.Push(i.Binders)
		if err := p.checkTraitRef(i.Ref, scope); err != nil {
			return errors.Wrapf(err, "header of %s", i)
		}
		if i.Negative {
			if t := p.traits[i.Ref.Trait]; !t.Auto {
				return errors.Wrapf(ErrMalformedGoal, "negative %s of non-auto trait", i)
			}
			if len(i.Where) > 0 {
				return errors.Wrapf(ErrMalformedGoal, "negative %s cannot have where-clauses", i)
			}
		}
		for _, w := range i.Where {
			if err := p.checkGoal(w, scope); err != nil {
				return errors.Wrapf(err, "where-clause of %s", i)
			}
		}
	}
	return nil
}

// ValidateGoal checks that g is closed, well-kinded and only names declared
// traits and types.
func (p *Program) ValidateGoal(g Goal) error {
	return p.checkGoal(g, ts.Scope{})
}

func (p *Program) checkGoal(g Goal, scope ts.Scope) error {
	switch goal := g.(type) {
	case AtomGoal:
		return p.checkDomainGoal(goal.Domain, scope)
	case AllGoal:
		return p.checkGoals(goal.Goals, scope)
	case AnyGoal:
		return p.checkGoals(goal.Goals, scope)
	case QuantifiedGoal:
		return p.checkGoal(goal.Goal, scope.Push(goal.Binders))
	case ImpliesGoal:
		for _, h := range goal.Hypotheses {
			if err := p.checkClause(h, scope); err != nil {
				return err
			}
		}
		return p.checkGoal(goal.Goal, scope)
	case EqGoal:
		if err := ts.KindCheck(goal.A, scope, p); err != nil {
			return err
		}
		if err := ts.KindCheck(goal.B, scope, p); err != nil {
			return err
		}
		if !goal.A.Kind().Equal(goal.B.Kind()) {
			return errors.Wrapf(ErrMalformedGoal, "%s relates terms of different kinds", goal)
		}
		return nil
	case NotGoal:
		return p.checkGoal(goal.Goal, scope)
	case nil:
		return errors.Wrap(ErrMalformedGoal, "missing goal")
	}
	return errors.Wrapf(ErrMalformedGoal, "unsupported goal %T", g)
}

func (p *Program) checkGoals(gs []Goal, scope ts.Scope) error {
	for _, g := range gs {
		if err := p.checkGoal(g, scope); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) checkClause(c ProgramClause, scope ts.Scope) error {
	inner := scope.Push(c.Binders)
	if err := p.checkDomainGoal(c.Head, inner); err != nil {
		return err
	}
	return p.checkGoals(c.Conditions, inner)
}

func (p *Program) checkDomainGoal(d DomainGoal, scope ts.Scope) error {
	switch dg := d.(type) {
	case Implemented:
		return p.checkTraitRef(dg.Ref, scope)
	case WellFormed:
		return ts.ExpectKind(dg.Ty, ts.Star, scope, p)
	case nil:
		return errors.Wrap(ErrMalformedGoal, "missing domain goal")
	}
	return errors.Wrapf(ErrMalformedGoal, "unsupported domain goal %T", d)
}

func (p *Program) checkTraitRef(r TraitRef, scope ts.Scope) error {
	t, ok := p.traits[r.Trait]
	if !ok {
		return errors.WithHint(
			errors.Wrapf(ErrMalformedGoal, "unknown trait %s", r.Trait),
			"declare the trait in the program before using it")
	}
	if len(r.Args) != 1+len(t.Params) {
		return errors.Wrapf(ErrMalformedGoal, "trait %s expects %d arguments, got %d",
			r.Trait, len(t.Params), len(r.Args)-1)
	}
	if err := ts.ExpectKind(r.Args[0], ts.Star, scope, p); err != nil {
		return errors.Wrapf(err, "self type of %s", r)
	}
	for i, a := range r.Args[1:] {
		if err := ts.ExpectKind(a, t.Params[i], scope, p); err != nil {
			return errors.Wrapf(err, "argument %d of %s", i+1, r)
		}
	}
	return nil
}
