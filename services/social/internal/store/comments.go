package store

import (
	"context"
	"time"
)

// Comment is a single comment left by a registered user on a movie.
// IDs are UUIDs assigned by the caller before insertion.
type Comment struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	MovieID string    `json:"movie_id"`
	Text    string    `json:"text"`
	Date    time.Time `json:"date"`
}

// Critic is one row of the most-active-commenters ranking: a user identity
// and how many comments they have posted.
type Critic struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// maxCriticRanking caps the most-active-commenters report.
const maxCriticRanking = 20

// CommentStore persists comments and enforces ownership on mutation.
//
// Write operations that act on someone else's comment report failure the
// same way as acting on a missing comment; callers cannot distinguish the
// two cases.
type CommentStore interface {
	// GetComment returns the comment with the given id, or (nil, nil) when
	// no such comment exists. A malformed id yields ErrInvalidArgument.
	GetComment(ctx context.Context, id string) (*Comment, error)

	// AddComment inserts c. The caller must have assigned c.ID; an empty ID
	// yields ErrInvalidOperation and a malformed one ErrInvalidArgument.
	AddComment(ctx context.Context, c Comment) error

	// UpdateComment replaces the text of the comment identified by commentID,
	// but only when it is owned by email. It reports whether exactly one
	// comment was modified; the update also refreshes the comment's date.
	UpdateComment(ctx context.Context, commentID, text, email string) bool

	// DeleteComment removes the comment identified by commentID when owned
	// by email, reporting whether a comment was actually removed.
	DeleteComment(ctx context.Context, commentID, email string) (bool, error)

	// MostActiveCommenters returns up to 20 registered users ranked by
	// comment count, most prolific first.
	MostActiveCommenters(ctx context.Context) ([]Critic, error)
}
