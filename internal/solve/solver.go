// Package solve decides goals against a lowered program.
//
// The resolver is recursive: every domain goal is canonicalized, looked up in
// a per-query cache and search graph, and otherwise solved by trying each
// clause whose head unifies with it. Cycles are detected through the search
// graph. A cycle through coinductive goals holds; any other cycle is solved
// by fixpoint iteration starting from "no solution".
package solve

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/logger"
	"github.com/ChayimFriedman2/chalk/internal/logic"
	"github.com/ChayimFriedman2/chalk/internal/rules"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ErrMalformedGoal aborts a query that cannot be solved at all.
var ErrMalformedGoal = logic.ErrMalformedGoal

// Solver answers queries against one program. It holds no per-query state
// and may be used from several goroutines at once.
type Solver struct {
	db            *rules.Database
	maxDepth      int
	maxIterations int
	log           *zap.SugaredLogger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithSettings applies the solver section of the settings.
func WithSettings(s config.SolverSettings) SolverOption {
	return func(sv *Solver) {
		if s.MaxDepth > 0 {
			sv.maxDepth = s.MaxDepth
		}
		if s.MaxIterations > 0 {
			sv.maxIterations = s.MaxIterations
		}
	}
}

// WithMaxDepth bounds the number of nested goals.
func WithMaxDepth(n int) SolverOption {
	return func(sv *Solver) { sv.maxDepth = n }
}

// WithMaxIterations bounds the fixpoint iterations of one cycle.
func WithMaxIterations(n int) SolverOption {
	return func(sv *Solver) { sv.maxIterations = n }
}

// WithLogger sets the logger; the global one is used otherwise.
func WithLogger(l *zap.SugaredLogger) SolverOption {
	return func(sv *Solver) { sv.log = l }
}

// New creates a solver for db.
func New(db *rules.Database, opts ...SolverOption) *Solver {
	s := &Solver{
		db:            db,
		maxDepth:      config.DefaultMaxDepth,
		maxIterations: config.DefaultMaxIterations,
		log:           logger.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Program returns the declarations the solver answers queries about.
func (s *Solver) Program() *logic.Program { return s.db.Program() }

// Solve decides goal.
//
// The leading exists binders of goal are the query's variables: a Unique
// answer carries a substitution for exactly those, in binder order. The
// returned error is non-nil only for malformed goals; cancellation of ctx
// yields a Floundered answer.
func (s *Solver) Solve(ctx context.Context, goal logic.Goal) (Answer, error) {
	if err := s.db.Program().ValidateGoal(goal); err != nil {
		return Answer{}, errors.Wrapf(err, "invalid goal %s", goal)
	}

	q := &query{
		ctx:           ctx,
		program:       s.db.Program(),
		clauses:       s.db.ForGoal(goal),
		maxDepth:      s.maxDepth,
		maxIterations: s.maxIterations,
		graph:         newSearchGraph(),
		stack:         &stack{},
		cache:         make(map[string]Answer),
		log:           s.log.With(logger.FieldSession, uuid.NewString()),
	}

	start := time.Now()
	q.log.Debugw("solving", logger.FieldGoal, goal.String(), logger.FieldClauses, q.clauses.Len())

	b := ts.NewBindings(0)
	var vars []ts.Term
	body := goal
	for {
		qg, ok := body.(logic.QuantifiedGoal)
		if !ok || qg.Kind != logic.Exists {
			break
		}
		var args []ts.Term
		b, args = b.NewVars(qg.Binders, 0)
		vars = append(vars, args...)
		body = logic.InstantiateGoal(qg.Goal, args)
	}

	mins := maxMinimums()
	f := newFulfill(q, b, &mins)
	var answer Answer
	if f.push(logic.Environment{}, body) {
		answer = f.solve(vars)
	} else {
		answer = noSolution()
	}

	fields := []any{logger.FieldAnswer, answer.String(), logger.FieldCount, len(q.cache)}
	if !config.IsTestMode {
		fields = append(fields, logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	q.log.Debugw("solved", fields...)
	return answer, nil
}

// query is the state of one Solve call.
type query struct {
	ctx           context.Context
	program       *logic.Program
	clauses       *logic.ClauseSet
	maxDepth      int
	maxIterations int
	graph         *searchGraph
	stack         *stack
	cache         map[string]Answer
	log           *zap.SugaredLogger
}

func (q *query) cancelled() bool { return q.ctx.Err() != nil }

// solveGoal answers a canonical goal, consulting the cache and the search
// graph first. mins receives the earliest in-progress goal the answer
// depends on.
func (q *query) solveGoal(goal logic.CanonicalGoal, mins *minimums) Answer {
	key := logic.Key(goal)
	if a, ok := q.cache[key]; ok {
		return a
	}

	if d, ok := q.graph.lookup(key); ok {
		n := q.graph.at(d)
		mins.update(n.links)
		if n.stackDepth < 0 {
			return n.solution
		}
		q.stack.markCycle(n.stackDepth)
		if !q.stack.coinductiveFrom(n.stackDepth) {
			q.log.Debugw("inductive cycle", logger.FieldGoal, key, logger.FieldDepth, n.stackDepth)
			if n.assumed {
				// the coinductive assumption does not extend to cycles
				// through inductive goals
				return noSolution()
			}
			return n.solution
		}
		q.log.Debugw("coinductive cycle", logger.FieldGoal, key, logger.FieldDepth, n.stackDepth)
		return n.solution
	}

	if q.stack.len() >= q.maxDepth {
		q.log.Debugw("overflow", logger.FieldGoal, key, logger.FieldDepth, q.stack.len())
		return floundered()
	}

	coinductive := q.isCoinductive(goal.Value.Goal)
	initial := noSolution()
	if coinductive {
		initial = trivialAnswer(goal.Binders)
	}
	depth := q.stack.push(coinductive)
	d := q.graph.insert(key, goal, depth, initial, coinductive)

	sub := q.solveNewSubgoal(goal, depth, d)

	n := q.graph.at(d)
	n.links = sub
	n.stackDepth = -1
	q.stack.pop(depth)
	mins.update(sub)

	answer := n.solution
	if sub.positive >= d {
		q.graph.moveToCache(d, q.cache)
	}
	return answer
}

// solveNewSubgoal computes the answer of a goal just pushed, iterating to a
// fixpoint when the goal turned out to be part of a cycle.
func (q *query) solveNewSubgoal(goal logic.CanonicalGoal, depth int, d dfn) minimums {
	mins := minimums{positive: d}
	current := q.solveIteration(goal, &mins)

	for i := 1; q.stack.takeCycle(depth); i++ {
		n := q.graph.at(d)
		prev := n.solution
		n.solution = current
		n.assumed = false
		if current.Equal(prev) {
			break
		}
		if i >= q.maxIterations || q.cancelled() {
			q.log.Debugw("fixpoint did not converge", logger.FieldGoal, logic.Key(goal), logger.FieldIteration, i)
			current = floundered()
			break
		}
		q.log.Debugw("fixpoint iteration", logger.FieldGoal, logic.Key(goal), logger.FieldIteration, i)

		q.graph.rollbackTo(d + 1)
		mins = minimums{positive: d}
		current = q.solveIteration(goal, &mins)
	}

	q.graph.at(d).solution = current
	return mins
}

// isCoinductive reports whether cycles through g may be assumed to hold:
// g proves an auto or #[coinductive] trait.
func (q *query) isCoinductive(g logic.Goal) bool {
	atom, ok := g.(logic.AtomGoal)
	if !ok {
		return false
	}
	impl, ok := atom.Domain.(logic.Implemented)
	if !ok {
		return false
	}
	t, ok := q.program.Trait(impl.Ref.Trait)
	return ok && t.IsCoinductive()
}

// solveIteration opens a canonical goal in a fresh inference context and
// solves it once.
func (q *query) solveIteration(goal logic.CanonicalGoal, mins *minimums) Answer {
	collector := &ts.PlaceholderCollector{}
	logic.FoldInEnvironment(goal.Value, collector, 0)
	maxU := ts.MaxUniverse(goal.Binders)
	if collector.Max > maxU {
		maxU = collector.Max
	}

	b, args := ts.NewBindings(maxU).InstantiateBinders(goal.Binders)
	open := logic.FoldInEnvironment(goal.Value, ts.Substitutor{Args: args}, 0)

	switch g := open.Goal.(type) {
	case logic.AtomGoal:
		return q.solveFromClauses(open.Env, g.Domain, b, args, mins)
	case logic.AnyGoal:
		answer := noSolution()
		for _, alt := range g.Goals {
			f := newFulfill(q, b, mins)
			if f.push(open.Env, alt) {
				answer = combine(answer, f.solve(args))
			}
			if answer.IsTriviallyTrue() {
				break
			}
		}
		return answer
	}

	f := newFulfill(q, b, mins)
	if !f.push(open.Env, open.Goal) {
		return noSolution()
	}
	return f.solve(args)
}

// solveFromClauses tries every hypothesis, then every program clause, whose
// head may unify with goal.
func (q *query) solveFromClauses(env logic.Environment, goal logic.DomainGoal, b ts.Bindings, args []ts.Term, mins *minimums) Answer {
	if q.flounders(goal, b) {
		return ambiguous(GuidanceUnknown, ts.Canonical[ts.Subst]{})
	}

	key := goal.Key()
	candidates := append(env.ForKey(key), q.clauses.ForKey(key)...)

	answer := noSolution()
	for _, clause := range candidates {
		if q.cancelled() {
			return floundered()
		}
		answer = combine(answer, q.solveFromClause(env, goal, clause, b, args, mins))
		if answer.IsTriviallyTrue() {
			break
		}
	}
	return answer
}

// flounders reports whether goal's Self type is still unknown and the
// predicate has too many candidates to enumerate.
func (q *query) flounders(goal logic.DomainGoal, b ts.Bindings) bool {
	switch dg := goal.(type) {
	case logic.WellFormed:
		return b.IsUnboundVar(dg.Ty)
	case logic.Implemented:
		if !b.IsUnboundVar(dg.Ref.Self()) {
			return false
		}
		t, ok := q.program.Trait(dg.Ref.Trait)
		return !ok || !t.Enumerable()
	}
	return false
}

func (q *query) solveFromClause(env logic.Environment, goal logic.DomainGoal, clause logic.ProgramClause, b ts.Bindings, args []ts.Term, mins *minimums) Answer {
	b, clauseArgs := b.NewVars(clause.Binders, b.MaxUniverse())
	head, conds := logic.InstantiateClause(clause, clauseArgs)

	res, err := unifyDomainGoals(head, goal, b)
	if err != nil {
		return noSolution()
	}

	f := newFulfill(q, res.Bindings, mins)
	f.constraints = append(f.constraints, res.Constraints...)
	for _, c := range conds {
		if !f.push(env, c) {
			return noSolution()
		}
	}
	return f.solve(args)
}

func unifyDomainGoals(a, b logic.DomainGoal, bindings ts.Bindings) (ts.Result, error) {
	switch x := a.(type) {
	case logic.Implemented:
		y, ok := b.(logic.Implemented)
		if ok && x.Ref.Trait == y.Ref.Trait {
			return ts.UnifyAll(x.Ref.Args, y.Ref.Args, bindings)
		}
	case logic.WellFormed:
		if y, ok := b.(logic.WellFormed); ok {
			return ts.Unify(x.Ty, y.Ty, bindings)
		}
	}
	return ts.Result{}, errors.Wrapf(ts.ErrConstructorMismatch, "%s does not match %s", a, b)
}
