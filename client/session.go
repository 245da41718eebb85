// Package client is the Go SDK for the najdeno API. It mirrors the
// server's lifecycle and arbitration rules as pre-checks so callers get
// fast, typed failures, while the server stays the authority on every
// decision.
package client

import (
	"sync"

	"github.com/erazemk/najdeno/internal/model"
)

// Session pairs the bearer credential with the identity it was issued
// for. A session with a token but no identity (or the reverse) is never
// produced by this package.
type Session struct {
	Token    string      `json:"token"`
	Identity *model.User `json:"user"`
}

// Authenticated reports whether the session can back an authorized call.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.Identity != nil
}

// SessionStore persists the session for the duration of a browsing
// context. Implementations carry no business rules.
type SessionStore interface {
	Load() *Session
	Save(*Session)
	Clear()
}

// MemStore is an in-memory SessionStore, safe for concurrent use.
type MemStore struct {
	mu      sync.Mutex
	session *Session
}

func (m *MemStore) Load() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *MemStore) Save(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

func (m *MemStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}
