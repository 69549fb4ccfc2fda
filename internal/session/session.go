// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session keeps each user's submitted patient records in an ordered,
// append-only collection. Records live in memory and are lost on restart.
// Sessions idle for longer than the store's TTL are evicted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/handoff/pkg/types"
)

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the form issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Session is one user's ordered record list.
type Session struct {
	id string

	mu      sync.Mutex
	records []types.PatientRecord

	// lastUsed is guarded by the owning Store's mutex.
	lastUsed time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Add appends r and returns its 1-based position.
func (s *Session) Add(r types.PatientRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return len(s.records)
}

// Records returns a copy of the records in submission order.
func (s *Session) Records() []types.PatientRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.PatientRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Store maps session identifiers to sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. Sessions not used for idleTTL are
// evicted; idleTTL <= 0 keeps sessions until the process exits.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get returns the session for id, creating it on first use. Expired
// sessions are evicted first.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.evictLocked(now)
	s, ok := st.sessions[id]
	if !ok {
		s = &Session{id: id}
		st.sessions[id] = s
	}
	s.lastUsed = now
	return s
}

// Lookup returns the session for id without creating it. An expired
// session is evicted and reported as missing.
func (st *Store) Lookup(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, false
	}
	s.lastUsed = now
	return s, true
}

// Len returns the number of sessions held, including expired ones not yet
// evicted.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) evictLocked(now time.Time) {
	if st.idleTTL <= 0 {
		return
	}
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
		}
	}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.idleTTL > 0 && now.Sub(s.lastUsed) > st.idleTTL
}
