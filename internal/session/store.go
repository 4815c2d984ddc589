// Package session persists the authenticated session across restarts the
// way the browser apps kept it in local storage: a single JSON document with
// fixed key names, read once at startup, cleared on logout or when the CMS
// reports the token dead.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bibliotec-gateway/internal/domain"
)

const sessionFile = "session.json"

var ErrNoSession = errors.New("no stored session")

// Session is the durable slice of identity state: the bearer token, the
// resolved role, and the denormalized display fields the UI shows without a
// round trip.
type Session struct {
	Token     string      `json:"jwt"`
	Role      domain.Role `json:"role"`
	UserID    string      `json:"user_id"`
	UserName  string      `json:"user_name"`
	UserEmail string      `json:"user_email"`
}

type Store struct {
	mu      sync.RWMutex
	path    string
	current *Session
}

// NewStore creates a session store rooted at dir and rehydrates any
// previously persisted session.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	s := &Store{path: filepath.Join(dir, sessionFile)}
	if err := s.rehydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated like a logout, not a crash.
		return s.Clear()
	}
	if sess.Token != "" {
		s.current = &sess
	}
	return nil
}

// Current returns the active session, or ErrNoSession.
func (s *Store) Current() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoSession
	}
	sess := *s.current
	return &sess, nil
}

// Save persists a fresh session to disk and makes it current.
func (s *Store) Save(token string, user *domain.User) error {
	sess := &Session{
		Token:     token,
		Role:      user.Role,
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.current = sess
	return nil
}

// Clear wipes the stored session (logout or detected expiry).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
