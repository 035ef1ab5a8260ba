package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/movie-platform/internal/platform/storage"
)

var _ CommentStore = (*InMemoryCommentStore)(nil)
var _ CommentStore = (*PostgresCommentStore)(nil)

func newComment(email, movieID, text string) Comment {
	return Comment{
		ID:      uuid.NewString(),
		Email:   email,
		MovieID: movieID,
		Text:    text,
		Date:    time.Now().UTC(),
	}
}

func TestAddAndGetComment(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	c := newComment("ada@example.com", "movie-1", "loved it")
	if err := s.AddComment(ctx, c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	got, err := s.GetComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got == nil || got.Text != "loved it" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected comment: %+v", got)
	}
}

func TestAddComment_MissingID(t *testing.T) {
	s := NewInMemoryCommentStore()
	c := newComment("ada@example.com", "movie-1", "text")
	c.ID = ""
	err := s.AddComment(context.Background(), c)
	if !errors.Is(err, storage.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestAddComment_MalformedID(t *testing.T) {
	s := NewInMemoryCommentStore()
	c := newComment("ada@example.com", "movie-1", "text")
	c.ID = "not-a-uuid"
	err := s.AddComment(context.Background(), c)
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddComment_Duplicate(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()
	c := newComment("ada@example.com", "movie-1", "text")
	if err := s.AddComment(ctx, c); err != nil {
		t.Fatalf("first AddComment: %v", err)
	}
	err := s.AddComment(ctx, c)
	if !errors.Is(err, storage.ErrDuplicateEntity) {
		t.Fatalf("expected ErrDuplicateEntity, got %v", err)
	}
}

func TestGetComment_Absent(t *testing.T) {
	s := NewInMemoryCommentStore()
	got, err := s.GetComment(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent comment, got %+v", got)
	}
}

func TestGetComment_MalformedID(t *testing.T) {
	s := NewInMemoryCommentStore()
	_, err := s.GetComment(context.Background(), "42")
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()
	c := newComment("ada@example.com", "movie-1", "original")
	if err := s.AddComment(ctx, c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if s.UpdateComment(ctx, c.ID, "sneaky edit", "mallory@example.com") {
		t.Fatal("expected update by non-owner to be refused")
	}
	got, _ := s.GetComment(ctx, c.ID)
	if got.Text != "original" {
		t.Fatalf("comment mutated by non-owner: %q", got.Text)
	}

	if !s.UpdateComment(ctx, c.ID, "revised", "ada@example.com") {
		t.Fatal("expected update by owner to apply")
	}
	got, _ = s.GetComment(ctx, c.ID)
	if got.Text != "revised" {
		t.Fatalf("expected revised text, got %q", got.Text)
	}
	if !got.Date.After(c.Date) && !got.Date.Equal(c.Date) {
		t.Fatalf("expected date refreshed, got %v (was %v)", got.Date, c.Date)
	}
}

func TestUpdateComment_Absent(t *testing.T) {
	s := NewInMemoryCommentStore()
	if s.UpdateComment(context.Background(), uuid.NewString(), "text", "ada@example.com") {
		t.Fatal("expected update of absent comment to report false")
	}
}

func TestDeleteComment_OwnerOnly(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()
	c := newComment("ada@example.com", "movie-1", "text")
	if err := s.AddComment(ctx, c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	ok, err := s.DeleteComment(ctx, c.ID, "mallory@example.com")
	if err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if ok {
		t.Fatal("expected delete by non-owner to be refused")
	}
	if got, _ := s.GetComment(ctx, c.ID); got == nil {
		t.Fatal("comment removed by non-owner")
	}

	ok, err = s.DeleteComment(ctx, c.ID, "ada@example.com")
	if err != nil || !ok {
		t.Fatalf("expected delete by owner to apply, got ok=%v err=%v", ok, err)
	}

	// Deleting again reports false: the comment is gone.
	ok, err = s.DeleteComment(ctx, c.ID, "ada@example.com")
	if err != nil {
		t.Fatalf("repeat DeleteComment: %v", err)
	}
	if ok {
		t.Fatal("expected repeat delete to report false")
	}
}

func TestDeleteComment_MalformedID(t *testing.T) {
	s := NewInMemoryCommentStore()
	_, err := s.DeleteComment(context.Background(), "nope", "ada@example.com")
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMostActiveCommenters_Empty(t *testing.T) {
	s := NewInMemoryCommentStore()
	critics, err := s.MostActiveCommenters(context.Background())
	if err != nil {
		t.Fatalf("MostActiveCommenters: %v", err)
	}
	if len(critics) != 0 {
		t.Fatalf("expected empty ranking, got %d entries", len(critics))
	}
}

func TestMostActiveCommenters_IgnoresUnknownAuthors(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()
	s.SeedUser("ada@example.com")

	if err := s.AddComment(ctx, newComment("ada@example.com", "movie-1", "a")); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	// Author without a matching user record does not appear in the ranking.
	if err := s.AddComment(ctx, newComment("ghost@example.com", "movie-1", "b")); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	critics, err := s.MostActiveCommenters(ctx)
	if err != nil {
		t.Fatalf("MostActiveCommenters: %v", err)
	}
	if len(critics) != 1 || critics[0].ID != "ada@example.com" || critics[0].Count != 1 {
		t.Fatalf("unexpected ranking: %+v", critics)
	}
}

// Twenty-five users where user k posts k+1 comments: the report keeps only
// the top twenty, ordered by descending count.
func TestMostActiveCommenters_RankingAndCap(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	for k := 0; k < 25; k++ {
		email := fmt.Sprintf("user%02d@example.com", k)
		s.SeedUser(email)
		for n := 0; n <= k; n++ {
			if err := s.AddComment(ctx, newComment(email, "movie-1", "comment")); err != nil {
				t.Fatalf("AddComment: %v", err)
			}
		}
	}

	critics, err := s.MostActiveCommenters(ctx)
	if err != nil {
		t.Fatalf("MostActiveCommenters: %v", err)
	}
	if len(critics) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(critics))
	}
	if critics[0].Count != 25 || critics[0].ID != "user24@example.com" {
		t.Fatalf("unexpected top entry: %+v", critics[0])
	}
	if critics[19].Count != 6 || critics[19].ID != "user05@example.com" {
		t.Fatalf("unexpected last entry: %+v", critics[19])
	}
	for i := 1; i < len(critics); i++ {
		if critics[i].Count > critics[i-1].Count {
			t.Fatalf("ranking not descending at %d: %+v", i, critics)
		}
	}
}
