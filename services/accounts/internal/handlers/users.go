package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/movie-platform/internal/platform/analytics"
	"github.com/example/movie-platform/internal/platform/api"
	"github.com/example/movie-platform/internal/platform/auth"
	"github.com/example/movie-platform/internal/platform/storage"
	"github.com/example/movie-platform/services/accounts/internal/domain"
	"github.com/example/movie-platform/services/accounts/internal/store"
	"github.com/example/movie-platform/services/accounts/internal/tokens"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	User        domain.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}

type preferencesResponse struct {
	Modified bool `json:"modified"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) > 254 {
		return false
	}
	return emailRe.MatchString(s)
}

// Register handles POST /v1/users
func Register(us store.UserStore, tk tokens.Service, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if !isValidEmail(req.Email) {
			api.BadRequest(w, "VALIDATION_EMAIL", "invalid email", "", map[string]any{"email": "invalid"})
			return
		}
		if len(req.Password) < 8 {
			api.BadRequest(w, "VALIDATION_PASSWORD", "password too short", "", map[string]any{"password": "min length 8"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			api.Internal(w, "")
			return
		}

		u := domain.User{
			Email:          req.Email,
			Name:           strings.TrimSpace(req.Name),
			HashedPassword: string(hash),
			Preferences:    map[string]any{},
		}
		if err := us.AddUser(r.Context(), u); err != nil {
			switch {
			case errors.Is(err, storage.ErrDuplicateEntity):
				api.Conflict(w, "USER_ALREADY_EXISTS", "user already exists", "", nil)
			case errors.Is(err, storage.ErrInvalidArgument):
				api.BadRequest(w, "VALIDATION", "invalid user", "", nil)
			default:
				api.Internal(w, "")
			}
			return
		}

		resp, ok := issueSession(r, us, tk, u)
		if !ok {
			api.Internal(w, "")
			return
		}

		pub.Publish(analytics.SubjectAccountRegistered, "account_registered", u.Email, nil)
		api.WriteJSON(w, http.StatusCreated, resp)
	}
}

// Login handles POST /v1/sessions
func Login(us store.UserStore, tk tokens.Service, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			api.BadRequest(w, "VALIDATION", "email and password are required", "", nil)
			return
		}

		u, err := us.GetUser(r.Context(), req.Email)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if u == nil || bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.Password)) != nil {
			api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "invalid credentials", "")
			return
		}

		resp, ok := issueSession(r, us, tk, *u)
		if !ok {
			api.Internal(w, "")
			return
		}

		pub.Publish(analytics.SubjectAccountLoggedIn, "account_logged_in", u.Email, nil)
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

// issueSession signs an access token for u and records the session. A session
// that cannot be confirmed denies access rather than handing out a token the
// store never saw.
func issueSession(r *http.Request, us store.UserStore, tk tokens.Service, u domain.User) (tokenResponse, bool) {
	now := time.Now().UTC()
	access, exp, err := tk.NewAccessToken(u.Email, now)
	if err != nil {
		return tokenResponse{}, false
	}
	if !us.CreateSession(r.Context(), u.Email, access) {
		return tokenResponse{}, false
	}
	return tokenResponse{
		User:        u,
		AccessToken: access,
		ExpiresIn:   int64(time.Until(exp).Seconds()),
	}, true
}

// Logout handles DELETE /v1/sessions
func Logout(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		us.DeleteUserSessions(r.Context(), email)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me handles GET /v1/users/me
func Me(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		u, err := us.GetUser(r.Context(), email)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if u == nil {
			api.NotFound(w, "USER_NOT_FOUND", "user not found", "")
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}

// UpdatePreferences handles PUT /v1/users/me/preferences
func UpdatePreferences(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		var prefs map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&prefs); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}

		modified, err := us.UpdateUserPreferences(r.Context(), email, prefs)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidArgument) {
				api.BadRequest(w, "VALIDATION_PREFERENCES", "preferences must not be null", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, preferencesResponse{Modified: modified})
	}
}

// DeleteAccount handles DELETE /v1/users/me
func DeleteAccount(us store.UserStore, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok || email == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		if !us.DeleteUser(r.Context(), email) {
			api.NotFound(w, "USER_NOT_FOUND", "user not found", "")
			return
		}
		pub.Publish(analytics.SubjectAccountDeleted, "account_deleted", email, nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
