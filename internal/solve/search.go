package solve

import (
	"math"

	"github.com/ChayimFriedman2/chalk/internal/logic"
)

// dfn is a goal's depth-first number in the search graph.
type dfn int

// minimums tracks the earliest goal, by depth-first number, that a subtree
// depends on through a cycle. A goal whose subtree reaches nothing older than
// itself heads its own strongly connected component.
type minimums struct {
	positive dfn
}

func maxMinimums() minimums { return minimums{positive: math.MaxInt} }

func (m *minimums) update(other minimums) {
	if other.positive < m.positive {
		m.positive = other.positive
	}
}

// node is a goal the current query has started solving.
type node struct {
	key      string
	goal     logic.CanonicalGoal
	solution Answer
	// stackDepth is the goal's position on the stack while it is being
	// solved, -1 once it is done.
	stackDepth int
	links      minimums
	// assumed is set while solution is still the optimistic starting
	// answer of a coinductive goal.
	assumed bool
}

// searchGraph holds every goal whose answer is still provisional, in the
// order solving started. Entries are moved to the cache once the component
// they belong to reaches a fixpoint.
type searchGraph struct {
	nodes   []node
	indices map[string]dfn
}

func newSearchGraph() *searchGraph {
	return &searchGraph{indices: make(map[string]dfn)}
}

func (g *searchGraph) lookup(key string) (dfn, bool) {
	d, ok := g.indices[key]
	return d, ok
}

func (g *searchGraph) insert(key string, goal logic.CanonicalGoal, depth int, initial Answer, coinductive bool) dfn {
	d := dfn(len(g.nodes))
	g.nodes = append(g.nodes, node{
		key:        key,
		goal:       goal,
		solution:   initial,
		stackDepth: depth,
		links:      minimums{positive: d},
		assumed:    coinductive,
	})
	g.indices[key] = d
	return d
}

func (g *searchGraph) at(d dfn) *node { return &g.nodes[d] }

// rollbackTo forgets every goal started at or after d. Their answers were
// computed from a provisional answer that has since changed.
func (g *searchGraph) rollbackTo(d dfn) {
	for _, n := range g.nodes[d:] {
		delete(g.indices, n.key)
	}
	g.nodes = g.nodes[:d]
}

// moveToCache finalizes every goal started at or after d.
func (g *searchGraph) moveToCache(d dfn, cache map[string]Answer) {
	for _, n := range g.nodes[d:] {
		cache[n.key] = n.solution
		delete(g.indices, n.key)
	}
	g.nodes = g.nodes[:d]
}

// frame is one goal being solved.
type frame struct {
	coinductive bool
	cycle       bool
}

// stack is the chain of goals from the root to the one being solved.
type stack struct {
	frames []frame
}

func (s *stack) len() int { return len(s.frames) }

func (s *stack) push(coinductive bool) int {
	s.frames = append(s.frames, frame{coinductive: coinductive})
	return len(s.frames) - 1
}

func (s *stack) pop(depth int) {
	s.frames = s.frames[:depth]
}

// markCycle records that the goal at depth was reached again from above.
func (s *stack) markCycle(depth int) {
	s.frames[depth].cycle = true
}

// takeCycle reports whether the goal at depth was part of a cycle and
// clears the flag.
func (s *stack) takeCycle(depth int) bool {
	c := s.frames[depth].cycle
	s.frames[depth].cycle = false
	return c
}

// coinductiveFrom reports whether every goal from depth to the top is
// coinductive, i.e. the cycle closing at depth may be assumed to hold.
func (s *stack) coinductiveFrom(depth int) bool {
	for _, f := range s.frames[depth:] {
		if !f.coinductive {
			return false
		}
	}
	return true
}
