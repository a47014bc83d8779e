package logic

import (
	"strings"

	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ProgramClause is the Horn clause forall<Binders> { Head :- Conditions }.
// Head and Conditions live under the clause binder: the clause's own
// variables are ^0.i.
type ProgramClause struct {
	Binders    []ts.Kind
	Head       DomainGoal
	Conditions []Goal
}

func (c ProgramClause) String() string {
	body := c.Head.String()
	if len(c.Conditions) > 0 {
		body += " :- " + joinGoals(c.Conditions, ", ")
	}
	if len(c.Binders) == 0 {
		return body
	}
	return "forall<" + kindList(c.Binders) + "> { " + body + " }"
}

// Fact builds a clause without binders or conditions.
func Fact(head DomainGoal) ProgramClause {
	return ProgramClause{Head: head}
}

// Environment is the set of hypotheses in scope, in the order they were
// assumed.
type Environment struct {
	Clauses []ProgramClause
}

// With returns a new environment extended with hyps. The receiver is not
// modified, so hypotheses never leak to sibling goals.
func (e Environment) With(hyps ...ProgramClause) Environment {
	out := make([]ProgramClause, 0, len(e.Clauses)+len(hyps))
	out = append(out, e.Clauses...)
	out = append(out, hyps...)
	return Environment{Clauses: out}
}

// ForKey returns the hypotheses whose head has predicate k.
func (e Environment) ForKey(k PredicateKey) []ProgramClause {
	var out []ProgramClause
	for _, c := range e.Clauses {
		if c.Head.Key() == k {
			out = append(out, c)
		}
	}
	return out
}

func (e Environment) String() string {
	parts := make([]string, len(e.Clauses))
	for i, c := range e.Clauses {
		parts[i] = c.String()
	}
	return "Env([" + strings.Join(parts, ", ") + "])"
}

// InEnvironment is a goal together with the hypotheses it may use.
type InEnvironment struct {
	Env  Environment
	Goal Goal
}

func (g InEnvironment) String() string {
	if len(g.Env.Clauses) == 0 {
		return g.Goal.String()
	}
	return g.Env.String() + " |- " + g.Goal.String()
}

// CanonicalGoal is a closed goal: its free inference variables became the
// canonical binders.
type CanonicalGoal = ts.Canonical[InEnvironment]

// Key identifies a canonical goal for caching and cycle detection.
func Key(g CanonicalGoal) string {
	return "for<" + ts.BindersString(g.Binders) + "> " + g.Value.String()
}
