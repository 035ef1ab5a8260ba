package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/movie-platform/internal/platform/analytics"
	"github.com/example/movie-platform/internal/platform/api"
	"github.com/example/movie-platform/internal/platform/auth"
	"github.com/example/movie-platform/internal/platform/storage"
	"github.com/example/movie-platform/services/social/internal/store"
)

type createCommentRequest struct {
	Text string `json:"text"`
}

type updateCommentRequest struct {
	Text string `json:"text"`
}

type criticsResponse struct {
	Critics []store.Critic `json:"critics"`
}

// CreateComment handles POST /v1/movies/{movie_id}/comments
func CreateComment(cs store.CommentStore, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", "", nil)
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			api.BadRequest(w, "EMPTY_TEXT", "text must not be empty", "", nil)
			return
		}

		c := store.Comment{
			ID:      uuid.NewString(),
			Email:   email,
			MovieID: movieID,
			Text:    req.Text,
			Date:    time.Now().UTC(),
		}
		if err := cs.AddComment(r.Context(), c); err != nil {
			switch {
			case errors.Is(err, storage.ErrInvalidArgument), errors.Is(err, storage.ErrInvalidOperation):
				api.BadRequest(w, "INVALID_COMMENT", "invalid comment", "", nil)
			case errors.Is(err, storage.ErrDuplicateEntity):
				api.Conflict(w, "COMMENT_ALREADY_EXISTS", "comment already exists", "", nil)
			default:
				api.Internal(w, "")
			}
			return
		}

		pub.Publish(analytics.SubjectCommentAdded, "comment_added", email, map[string]any{"movie_id": movieID})
		api.WriteJSON(w, http.StatusCreated, c)
	}
}

// GetComment handles GET /v1/comments/{comment_id}
func GetComment(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		c, err := cs.GetComment(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidArgument) {
				api.BadRequest(w, "INVALID_ID", "comment id must be a UUID", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}
		if c == nil {
			api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", "")
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

// UpdateComment handles PUT /v1/comments/{comment_id}
func UpdateComment(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		var req updateCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			api.BadRequest(w, "EMPTY_TEXT", "text must not be empty", "", nil)
			return
		}

		if !cs.UpdateComment(r.Context(), id, req.Text, email) {
			api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", "")
			return
		}
		c, err := cs.GetComment(r.Context(), id)
		if err != nil || c == nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

// DeleteComment handles DELETE /v1/comments/{comment_id}
func DeleteComment(cs store.CommentStore, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		deleted, err := cs.DeleteComment(r.Context(), id, email)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidArgument) {
				api.BadRequest(w, "INVALID_ID", "comment id must be a UUID", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}
		if !deleted {
			api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", "")
			return
		}

		pub.Publish(analytics.SubjectCommentDeleted, "comment_deleted", email, nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

// MostActiveCommenters handles GET /v1/reports/most-active-commenters
func MostActiveCommenters(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		critics, err := cs.MostActiveCommenters(r.Context())
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, criticsResponse{Critics: critics})
	}
}
