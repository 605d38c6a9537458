package main

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodul/xwplay/internal/session"
)

// SessionInfo describes a stored session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// maxSessions caps how many sessions run at once.
const maxSessions = 1000

// ErrStoreFull is returned by Add when the store holds its limit.
var ErrStoreFull = errors.New("too many sessions")

type entry struct {
	sess      *session.Session
	createdAt time.Time
	lastUsed  time.Time
}

// Store holds the running sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	limit    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]entry),
		limit:    maxSessions,
	}
}

// Add stores a running session under its ID.
func (s *Store) Add(sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.limit {
		return ErrStoreFull
	}
	now := time.Now()
	s.sessions[sess.ID()] = entry{sess: sess, createdAt: now, lastUsed: now}
	return nil
}

// Get returns a session by ID, or nil if not found. A hit counts as use.
func (s *Store) Get(id string) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	e.lastUsed = time.Now()
	s.sessions[id] = e
	return e.sess
}

// Remove takes a session out of the store and returns it, or nil if not
// found. The caller closes it.
func (s *Store) Remove(id string) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	delete(s.sessions, id)
	return e.sess
}

// List returns all sessions, most recent first.
func (s *Store) List() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]SessionInfo, 0, len(s.sessions))
	for id, e := range s.sessions {
		list = append(list, SessionInfo{ID: id, CreatedAt: e.createdAt})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// Expire removes sessions unused for longer than idle and returns them for
// the caller to close. Sessions for which keep reports true stay.
func (s *Store) Expire(idle time.Duration, keep func(id string) bool) []*session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*session.Session
	for id, e := range s.sessions {
		if time.Since(e.lastUsed) <= idle || (keep != nil && keep(id)) {
			continue
		}
		delete(s.sessions, id)
		expired = append(expired, e.sess)
	}
	return expired
}

// CloseAll closes and forgets every session.
func (s *Store) CloseAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]entry)
	s.mu.Unlock()

	for _, e := range all {
		e.sess.Close()
	}
}

func generateID() string {
	return uuid.NewString()
}
