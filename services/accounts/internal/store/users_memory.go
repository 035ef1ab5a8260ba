package store

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/example/movie-platform/internal/platform/storage"
	"github.com/example/movie-platform/services/accounts/internal/domain"
)

// InMemoryUserStore is a development-only in-memory implementation.
type InMemoryUserStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User    // email -> user
	sessions map[string]domain.Session // jwt -> session
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:    make(map[string]domain.User),
		sessions: make(map[string]domain.Session),
	}
}

func (s *InMemoryUserStore) AddUser(_ context.Context, u domain.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: user email is required", storage.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Email]; exists {
		return storage.ErrDuplicateEntity
	}
	u.Preferences = maps.Clone(u.Preferences)
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	s.users[u.Email] = u
	return nil
}

func (s *InMemoryUserStore) GetUser(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	u.Preferences = maps.Clone(u.Preferences)
	return &u, nil
}

func (s *InMemoryUserStore) CreateSession(_ context.Context, userID, jwt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent by token value: an existing session for jwt is success.
	if _, exists := s.sessions[jwt]; !exists {
		s.sessions[jwt] = domain.Session{UserID: userID, JWT: jwt}
	}
	return true
}

func (s *InMemoryUserStore) GetSession(_ context.Context, userID string) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out := sess
			return &out
		}
	}
	return nil
}

func (s *InMemoryUserStore) DeleteUserSessions(_ context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for jwt, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, jwt)
			removed = true
		}
	}
	return removed
}

func (s *InMemoryUserStore) DeleteUser(ctx context.Context, email string) bool {
	s.mu.Lock()
	_, ok := s.users[email]
	if ok {
		delete(s.users, email)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.DeleteUserSessions(ctx, email)
	return true
}

func (s *InMemoryUserStore) UpdateUserPreferences(_ context.Context, email string, prefs map[string]any) (bool, error) {
	if prefs == nil {
		return false, fmt.Errorf("%w: preferences must not be nil", storage.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return false, nil
	}
	// Identical replacement counts as not modified.
	if reflect.DeepEqual(u.Preferences, prefs) {
		return false, nil
	}
	u.Preferences = maps.Clone(prefs)
	s.users[email] = u
	return true, nil
}
