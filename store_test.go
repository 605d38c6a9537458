package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/session"
)

type stubGenerator struct {
	p   *puzzle.Puzzle
	err error
}

func (g stubGenerator) Generate(context.Context, int) (*puzzle.Puzzle, error) {
	return g.p, g.err
}

func newTestSession(t *testing.T, id string) *session.Session {
	t.Helper()
	sess := session.New(id, stubGenerator{}, nil, session.Options{})
	t.Cleanup(sess.Close)
	return sess
}

func TestAddAndGet(t *testing.T) {
	s := NewStore()
	sess := newTestSession(t, generateID())
	require.NoError(t, s.Add(sess))

	assert.Same(t, sess, s.Get(sess.ID()))
	assert.Nil(t, s.Get("nonexistent"))
}

func TestRemove(t *testing.T) {
	s := NewStore()
	sess := newTestSession(t, "a")
	require.NoError(t, s.Add(sess))

	assert.Same(t, sess, s.Remove("a"))
	assert.Nil(t, s.Remove("a"))
	assert.Nil(t, s.Get("a"))
}

func TestList(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(newTestSession(t, "first")))
	time.Sleep(time.Millisecond)
	require.NoError(t, s.Add(newTestSession(t, "second")))

	list := s.List()
	require.Len(t, list, 2)
	// Most recent first.
	assert.Equal(t, "second", list[0].ID)
	assert.Equal(t, "first", list[1].ID)
}

func TestCloseAll(t *testing.T) {
	s := NewStore()
	sess := newTestSession(t, "a")
	require.NoError(t, s.Add(sess))

	s.CloseAll()

	assert.Empty(t, s.List())
	select {
	case <-sess.Done():
	default:
		t.Fatal("session should be closed")
	}
}

func TestAddFull(t *testing.T) {
	s := NewStore()
	s.limit = 1
	require.NoError(t, s.Add(newTestSession(t, "a")))

	assert.ErrorIs(t, s.Add(newTestSession(t, "b")), ErrStoreFull)
	assert.Nil(t, s.Get("b"))

	s.Remove("a")
	assert.NoError(t, s.Add(newTestSession(t, "b")))
}

func TestExpire(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(newTestSession(t, "idle")))
	require.NoError(t, s.Add(newTestSession(t, "watched")))
	require.NoError(t, s.Add(newTestSession(t, "busy")))

	time.Sleep(20 * time.Millisecond)
	s.Get("busy")

	expired := s.Expire(10*time.Millisecond, func(id string) bool { return id == "watched" })
	require.Len(t, expired, 1)
	assert.Equal(t, "idle", expired[0].ID())

	assert.Nil(t, s.Get("idle"))
	assert.NotNil(t, s.Get("watched"))
	assert.NotNil(t, s.Get("busy"))
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := generateID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := session.New(generateID(), stubGenerator{}, nil, session.Options{})
			assert.NoError(t, s.Add(sess))
			s.Get(sess.ID())
			s.List()
			if i%2 == 0 {
				s.Remove(sess.ID())
				sess.Close()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.List(), 25)
	s.CloseAll()
}
