package store

import (
	"context"

	"github.com/example/movie-platform/services/accounts/internal/domain"
)

// UserStore is the persistence contract for accounts, sessions and
// preferences. Methods returning a bare bool swallow transient store errors
// into false (logged, never raised): callers cannot distinguish "nothing
// matched" from "store was down" on those paths and are expected to retry or
// deny conservatively. Mutations with irreversible intent (AddUser) propagate
// typed failures instead.
type UserStore interface {
	// AddUser persists a new account. Fails with storage.ErrInvalidArgument
	// on an empty email, storage.ErrDuplicateEntity if the email is taken,
	// storage.ErrStoreUnavailable on I/O failure. No partial writes.
	AddUser(ctx context.Context, u domain.User) error

	// GetUser looks an account up by exact email. Absence is (nil, nil),
	// not an error.
	GetUser(ctx context.Context, email string) (*domain.User, error)

	// CreateSession records a session for jwt, idempotently: if a session
	// with that token already exists the call succeeds without writing.
	// False means the session is not confirmed.
	CreateSession(ctx context.Context, userID, jwt string) bool

	// GetSession returns any session owned by userID, or nil.
	GetSession(ctx context.Context, userID string) *domain.Session

	// DeleteUserSessions removes every session owned by userID and reports
	// whether at least one record was removed.
	DeleteUserSessions(ctx context.Context, userID string) bool

	// DeleteUser removes the account and, on success, sweeps its sessions
	// as a best-effort follow-up: a failed sweep never rolls back the user
	// deletion. False if no matching user existed.
	DeleteUser(ctx context.Context, email string) bool

	// UpdateUserPreferences replaces the stored preferences wholesale.
	// A nil preferences value fails with storage.ErrInvalidArgument before
	// any store round-trip. Reports whether the record was actually
	// modified; replacing with identical content counts as not modified.
	UpdateUserPreferences(ctx context.Context, email string, prefs map[string]any) (bool, error)
}
