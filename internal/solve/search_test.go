package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChayimFriedman2/chalk/internal/logic"
)

func TestStack(t *testing.T) {
	s := &stack{}
	assert.Equal(t, 0, s.push(true))
	assert.Equal(t, 1, s.push(true))
	assert.True(t, s.coinductiveFrom(0))
	assert.Equal(t, 2, s.push(false))
	assert.False(t, s.coinductiveFrom(0))
	assert.False(t, s.coinductiveFrom(2))

	s.markCycle(1)
	assert.True(t, s.takeCycle(1))
	assert.False(t, s.takeCycle(1), "taking clears the flag")

	s.pop(1)
	assert.Equal(t, 1, s.len())
}

func TestSearchGraph(t *testing.T) {
	g := newSearchGraph()
	var goal logic.CanonicalGoal

	a := g.insert("a", goal, 0, noSolution(), false)
	b := g.insert("b", goal, 1, uniqueOf(nil), true)
	c := g.insert("c", goal, 2, noSolution(), false)
	assert.Equal(t, dfn(0), a)
	assert.True(t, g.at(b).assumed)
	assert.False(t, g.at(c).assumed)

	d, ok := g.lookup("b")
	require.True(t, ok)
	assert.Equal(t, b, d)

	g.rollbackTo(c)
	_, ok = g.lookup("c")
	assert.False(t, ok)

	cache := make(map[string]Answer)
	g.at(b).solution = uniqueOf(nil, u8)
	g.moveToCache(b, cache)
	_, ok = g.lookup("b")
	assert.False(t, ok)
	assert.True(t, cache["b"].Equal(uniqueOf(nil, u8)))
	_, ok = g.lookup("a")
	assert.True(t, ok)
}

func TestMinimums(t *testing.T) {
	m := maxMinimums()
	m.update(minimums{positive: 3})
	m.update(minimums{positive: 5})
	assert.Equal(t, dfn(3), m.positive)
}
