// Package session ties a ledger store to a browser session. Each session
// owns its own store: two visitors never see each other's records, and a
// session's records vanish when the session expires or the process exits.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"tally/internal/ledger"
)

// StoreFactory builds a fresh, empty store for a new session.
type StoreFactory func() (ledger.Store, error)

// Session is one visitor's ledger and its bookkeeping.
type Session struct {
	Token     string
	Store     ledger.Store
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	closer   func() error
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager creates, resolves, and expires sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl     time.Duration
	factory StoreFactory

	stopReaper chan struct{}
	stopOnce   sync.Once
}

// NewManager starts a manager whose sessions expire after ttl of
// inactivity. The reaper goroutine runs until Stop is called.
func NewManager(ttl time.Duration, factory StoreFactory) *Manager {
	m := &Manager{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		factory:    factory,
		stopReaper: make(chan struct{}),
	}
	go m.startReaper()
	return m
}

// Resolve returns the live session for token, or creates a new one when
// the token is empty or unknown. The second result reports whether a new
// session was created.
func (m *Manager) Resolve(token string) (*Session, bool, error) {
	now := time.Now()

	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		m.mu.Unlock()
		s.touch(now)
		return s, false, nil
	}
	m.mu.Unlock()

	store, err := m.factory()
	if err != nil {
		return nil, false, fmt.Errorf("create session store: %w", err)
	}

	s := &Session{
		Token:     NewToken(),
		Store:     store,
		CreatedAt: now,
		lastSeen:  now,
	}
	if c, ok := store.(interface{ Close() error }); ok {
		s.closer = c.Close
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	return s, true, nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// startReaper runs periodic cleanup to drop sessions idle past the TTL.
func (m *Manager) startReaper() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reapIdle(time.Now())
		case <-m.stopReaper:
			return
		}
	}
}

func (m *Manager) reapIdle(now time.Time) {
	var expired []*Session

	m.mu.Lock()
	for token, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, token)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		if s.closer != nil {
			s.closer()
		}
	}
}

// Stop halts the reaper and closes every live session's store.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopReaper)
	})

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		if s.closer != nil {
			s.closer()
		}
	}
}

// NewToken returns a 128-bit random token in hex.
func NewToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
