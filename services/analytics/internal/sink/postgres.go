// Package sink persists aggregated analytics counters.
package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/movie-platform/internal/platform/storage"
)

// EventSink records one occurrence of a named event.
type EventSink interface {
	Record(ctx context.Context, eventName string, occurredAt time.Time) error
}

// Postgres keeps per-day counters in the event_counts table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Record(ctx context.Context, eventName string, occurredAt time.Time) error {
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	day := occurredAt.UTC().Truncate(24 * time.Hour)

	const q = `INSERT INTO event_counts (event_name, day, count)
	           VALUES ($1, $2, 1)
	           ON CONFLICT (event_name, day)
	           DO UPDATE SET count = event_counts.count + 1`
	if _, err := s.pool.Exec(ctx, q, eventName, day); err != nil {
		return fmt.Errorf("%w: record event: %v", storage.ErrStoreUnavailable, err)
	}
	return nil
}

// CountOn returns the counter for eventName on the given day, zero when the
// event has not been seen.
func (s *Postgres) CountOn(ctx context.Context, eventName string, day time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(count), 0) FROM event_counts
	           WHERE event_name = $1 AND day = $2`
	var n int64
	err := s.pool.QueryRow(ctx, q, eventName, day.UTC().Truncate(24*time.Hour)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count event: %v", storage.ErrStoreUnavailable, err)
	}
	return n, nil
}
