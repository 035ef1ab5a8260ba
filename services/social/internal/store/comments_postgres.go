package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/storage"
)

// PostgresCommentStore persists comments in Postgres.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewPostgresCommentStore creates a store backed by Postgres.
func NewPostgresCommentStore(pool *pgxpool.Pool, log *zap.Logger) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool, log: log}
}

func (s *PostgresCommentStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, id)
	}

	const q = `SELECT id, email, movie_id, body, date FROM comments WHERE id = $1`
	var c Comment
	err := s.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Email, &c.MovieID, &c.Text, &c.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get comment: %v", storage.ErrStoreUnavailable, err)
	}
	return &c, nil
}

func (s *PostgresCommentStore) AddComment(ctx context.Context, c Comment) error {
	if c.ID == "" {
		return fmt.Errorf("%w: comment id must be assigned before insertion", storage.ErrInvalidOperation)
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, c.ID)
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}

	const q = `INSERT INTO comments (id, email, movie_id, body, date) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, q, c.ID, c.Email, c.MovieID, c.Text, c.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: comment %s already exists", storage.ErrDuplicateEntity, c.ID)
		}
		return fmt.Errorf("%w: add comment: %v", storage.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresCommentStore) UpdateComment(ctx context.Context, commentID, text, email string) bool {
	out := s.updateComment(ctx, commentID, text, email)
	return out.Ok()
}

// updateComment is the internal variant that still distinguishes why the
// update did not apply; the public method collapses that to a bool.
func (s *PostgresCommentStore) updateComment(ctx context.Context, commentID, text, email string) storage.Outcome {
	if _, err := uuid.Parse(commentID); err != nil {
		s.log.Warn("update comment: malformed id", zap.String("comment_id", commentID))
		return storage.NotFound
	}

	const q = `UPDATE comments SET body = $2, date = now()
	           WHERE id = $1 AND email = $3`
	tag, err := s.pool.Exec(ctx, q, commentID, text, email)
	if err != nil {
		s.log.Warn("update comment", zap.String("comment_id", commentID), zap.Error(err))
		return storage.Transient
	}
	if tag.RowsAffected() != 1 {
		// Either the comment does not exist or it belongs to someone else;
		// the predicate cannot tell and neither may the caller.
		return storage.Denied
	}
	return storage.Applied
}

func (s *PostgresCommentStore) DeleteComment(ctx context.Context, commentID, email string) (bool, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return false, fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, commentID)
	}

	const q = `DELETE FROM comments WHERE id = $1 AND email = $2`
	tag, err := s.pool.Exec(ctx, q, commentID, email)
	if err != nil {
		return false, fmt.Errorf("%w: delete comment: %v", storage.ErrStoreUnavailable, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresCommentStore) MostActiveCommenters(ctx context.Context) ([]Critic, error) {
	// Only comments whose author still resolves to a registered user count
	// toward the ranking; ties break on email for a stable report.
	const q = `SELECT u.email, COUNT(*) AS cnt
	           FROM comments c
	           JOIN users u ON u.email = c.email
	           GROUP BY u.email
	           ORDER BY cnt DESC, u.email ASC
	           LIMIT $1`
	rows, err := s.pool.Query(ctx, q, maxCriticRanking)
	if err != nil {
		return nil, fmt.Errorf("%w: most active commenters: %v", storage.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]Critic, 0, maxCriticRanking)
	for rows.Next() {
		var c Critic
		if err := rows.Scan(&c.ID, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: most active commenters: %v", storage.ErrStoreUnavailable, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: most active commenters: %v", storage.ErrStoreUnavailable, err)
	}
	return out, nil
}
