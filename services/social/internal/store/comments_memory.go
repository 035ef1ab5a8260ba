package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/movie-platform/internal/platform/storage"
)

// InMemoryCommentStore is a map-backed CommentStore for development and
// tests. The ranking join needs to know which authors are registered users,
// so callers seed those with SeedUser.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]Comment
	users    map[string]struct{}
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		comments: make(map[string]Comment),
		users:    make(map[string]struct{}),
	}
}

// SeedUser registers email as a known user for the ranking join.
func (s *InMemoryCommentStore) SeedUser(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = struct{}{}
}

func (s *InMemoryCommentStore) GetComment(_ context.Context, id string) (*Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *InMemoryCommentStore) AddComment(_ context.Context, c Comment) error {
	if c.ID == "" {
		return fmt.Errorf("%w: comment id must be assigned before insertion", storage.ErrInvalidOperation)
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, c.ID)
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.comments[c.ID]; exists {
		return fmt.Errorf("%w: comment %s already exists", storage.ErrDuplicateEntity, c.ID)
	}
	s.comments[c.ID] = c
	return nil
}

func (s *InMemoryCommentStore) UpdateComment(_ context.Context, commentID, text, email string) bool {
	if _, err := uuid.Parse(commentID); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok || c.Email != email {
		return false
	}
	c.Text = text
	c.Date = time.Now().UTC()
	s.comments[commentID] = c
	return true
}

func (s *InMemoryCommentStore) DeleteComment(_ context.Context, commentID, email string) (bool, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return false, fmt.Errorf("%w: comment id %q is not a UUID", storage.ErrInvalidArgument, commentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok || c.Email != email {
		return false, nil
	}
	delete(s.comments, commentID)
	return true, nil
}

func (s *InMemoryCommentStore) MostActiveCommenters(_ context.Context) ([]Critic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, c := range s.comments {
		if _, known := s.users[c.Email]; known {
			counts[c.Email]++
		}
	}

	out := make([]Critic, 0, len(counts))
	for email, n := range counts {
		out = append(out, Critic{ID: email, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > maxCriticRanking {
		out = out[:maxCriticRanking]
	}
	return out, nil
}
