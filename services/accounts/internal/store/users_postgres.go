package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/storage"
	"github.com/example/movie-platform/services/accounts/internal/domain"
)

// PostgresUserStore persists accounts and sessions in Postgres. Uniqueness
// and conditional updates are delegated to single-statement SQL, so two
// racing AddUser calls for one email cannot both succeed even if both pass a
// prior existence check.
type PostgresUserStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewPostgresUserStore creates a store backed by Postgres.
func NewPostgresUserStore(pool *pgxpool.Pool, log *zap.Logger) *PostgresUserStore {
	return &PostgresUserStore{pool: pool, log: log}
}

func (s *PostgresUserStore) AddUser(ctx context.Context, u domain.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: user email is required", storage.ErrInvalidArgument)
	}

	prefs, err := marshalPreferences(u.Preferences)
	if err != nil {
		return fmt.Errorf("%w: preferences: %v", storage.ErrInvalidArgument, err)
	}

	const q = `INSERT INTO users (email, name, password_hash, preferences)
	           VALUES ($1, $2, $3, $4::jsonb)`
	if _, err := s.pool.Exec(ctx, q, u.Email, u.Name, u.HashedPassword, prefs); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrDuplicateEntity
		}
		return fmt.Errorf("%w: add user: %v", storage.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresUserStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT email, name, password_hash, preferences
	           FROM users WHERE email = $1 LIMIT 1`
	var (
		u     domain.User
		prefs []byte
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(&u.Email, &u.Name, &u.HashedPassword, &prefs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get user: %v", storage.ErrStoreUnavailable, err)
	}
	if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
		return nil, fmt.Errorf("%w: decode preferences: %v", storage.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// CreateSession is idempotent by token value: the unique index on jwt plus
// ON CONFLICT DO NOTHING means concurrent calls with the same token both
// report success and exactly one row exists afterwards.
func (s *PostgresUserStore) CreateSession(ctx context.Context, userID, jwt string) bool {
	const q = `INSERT INTO sessions (user_id, jwt) VALUES ($1, $2)
	           ON CONFLICT (jwt) DO NOTHING`
	if _, err := s.pool.Exec(ctx, q, userID, jwt); err != nil {
		s.log.Warn("create session failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

func (s *PostgresUserStore) GetSession(ctx context.Context, userID string) *domain.Session {
	const q = `SELECT user_id, jwt FROM sessions WHERE user_id = $1 LIMIT 1`
	var sess domain.Session
	err := s.pool.QueryRow(ctx, q, userID).Scan(&sess.UserID, &sess.JWT)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn("get session failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return &sess
}

func (s *PostgresUserStore) DeleteUserSessions(ctx context.Context, userID string) bool {
	const q = `DELETE FROM sessions WHERE user_id = $1`
	tag, err := s.pool.Exec(ctx, q, userID)
	if err != nil {
		s.log.Warn("delete sessions failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return tag.RowsAffected() >= 1
}

func (s *PostgresUserStore) DeleteUser(ctx context.Context, email string) bool {
	const q = `DELETE FROM users WHERE email = $1`
	tag, err := s.pool.Exec(ctx, q, email)
	if err != nil {
		s.log.Warn("delete user failed", zap.String("email", email), zap.Error(err))
		return false
	}
	if tag.RowsAffected() != 1 {
		return false
	}
	// Best-effort cascade: sessions are keyed by the account email. A failed
	// sweep is logged inside DeleteUserSessions and never rolls back the
	// user deletion; stale sessions are an accepted eventual-cleanup gap.
	s.DeleteUserSessions(ctx, email)
	return true
}

// UpdateUserPreferences replaces the preferences document wholesale.
// IS DISTINCT FROM preserves the store's modified-count semantics: replacing
// with identical content reports not-modified.
func (s *PostgresUserStore) UpdateUserPreferences(ctx context.Context, email string, prefs map[string]any) (bool, error) {
	if prefs == nil {
		return false, fmt.Errorf("%w: preferences must not be nil", storage.ErrInvalidArgument)
	}
	data, err := marshalPreferences(prefs)
	if err != nil {
		return false, fmt.Errorf("%w: preferences: %v", storage.ErrInvalidArgument, err)
	}

	const q = `UPDATE users SET preferences = $2::jsonb
	           WHERE email = $1 AND preferences IS DISTINCT FROM $2::jsonb`
	tag, err := s.pool.Exec(ctx, q, email, data)
	if err != nil {
		s.log.Warn("update preferences failed", zap.String("email", email), zap.Error(err))
		return false, nil
	}
	return tag.RowsAffected() >= 1, nil
}

func marshalPreferences(prefs map[string]any) ([]byte, error) {
	if prefs == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(prefs)
}
