package storevalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type GameState struct {
	Level int
	Score int
}

type Settings struct {
	Names []string
}

func TestBasicOperations(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())

	Set(s, GameState{Level: 1, Score: 0})

	gs, ok := Get[GameState](s)
	require.True(t, ok)
	assert.Equal(t, GameState{Level: 1, Score: 0}, gs)

	assert.True(t, Contains[GameState](s))
	assert.Equal(t, 1, s.Len())

	// Absence is a bare boolean, not an error.
	_, ok = Get[Settings](s)
	assert.False(t, ok)

	assert.True(t, Remove[GameState](s))
	assert.False(t, Remove[GameState](s))
	assert.True(t, s.IsEmpty())
}

func TestScopedAccess(t *testing.T) {
	s := New()
	Set(s, GameState{Level: 1, Score: 10})

	level, ok := With(s, func(gs GameState) int { return gs.Level })
	require.True(t, ok)
	assert.Equal(t, 1, level)

	_, ok = WithMut(s, func(gs *GameState) struct{} {
		gs.Level = 2
		return struct{}{}
	})
	require.True(t, ok)

	gs, ok := Get[GameState](s)
	require.True(t, ok)
	assert.Equal(t, 2, gs.Level)

	// Missing type: the closure never runs.
	ran := false
	_, ok = With(s, func(Settings) bool { ran = true; return true })
	assert.False(t, ok)
	assert.False(t, ran)
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	Set(a, GameState{Level: 1, Score: 0})
	Set(a, Settings{Names: []string{"alice"}})

	b := a.Clone()

	// Mutate the clone, including through shared-prone slice state.
	_, ok := WithMut(b, func(gs *GameState) struct{} {
		gs.Level = 99
		return struct{}{}
	})
	require.True(t, ok)
	_, ok = WithMut(b, func(st *Settings) struct{} {
		st.Names[0] = "mallory"
		st.Names = append(st.Names, "eve")
		return struct{}{}
	})
	require.True(t, ok)

	// The original is untouched.
	gs, ok := Get[GameState](a)
	require.True(t, ok)
	assert.Equal(t, 1, gs.Level)

	st, ok := Get[Settings](a)
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, st.Names)

	// And the clone kept its own mutations.
	gs, ok = Get[GameState](b)
	require.True(t, ok)
	assert.Equal(t, 99, gs.Level)
}

func TestCloneThenMutateOriginal(t *testing.T) {
	a := New()
	Set(a, GameState{Level: 1, Score: 0})

	snapshot := a.Clone()

	_, ok := WithMut(a, func(gs *GameState) struct{} {
		gs.Level = 2
		return struct{}{}
	})
	require.True(t, ok)

	// The snapshot preserves the state at clone time.
	gs, ok := Get[GameState](snapshot)
	require.True(t, ok)
	assert.Equal(t, 1, gs.Level)
}

// ledger opts out of structural copying to keep its unexported state intact.
type ledger struct {
	Owner   string
	entries []int
}

func (l *ledger) DeepCopy() any {
	return &ledger{
		Owner:   l.Owner,
		entries: append([]int(nil), l.entries...),
	}
}

func TestCloneUsesCustomDuplication(t *testing.T) {
	a := New()
	Set(a, &ledger{Owner: "alice", entries: []int{1, 2}})

	b := a.Clone()

	la, ok := Get[*ledger](a)
	require.True(t, ok)
	lb, ok := Get[*ledger](b)
	require.True(t, ok)

	lb.entries[0] = 99
	assert.Equal(t, 1, la.entries[0])
	assert.Equal(t, "alice", lb.Owner)
}

func TestTypesAndClear(t *testing.T) {
	s := New()
	Set(s, GameState{})
	Set(s, Settings{})

	assert.ElementsMatch(t, []string{"storevalue.GameState", "storevalue.Settings"}, s.Types())

	s.Clear()
	assert.True(t, s.IsEmpty())
}
