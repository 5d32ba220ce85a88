package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
	"github.com/placedir/places-server/internal/model"
	"github.com/placedir/places-server/internal/service"
)

// AuthService defines business operations for accounts.
type AuthService interface {
	Signup(ctx context.Context, params model.SignupParams) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Auth handles HTTP endpoints for accounts.
type Auth struct {
	authService AuthService
	storage     model.Storage
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, storage model.Storage, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		storage:     storage,
		logger:      logger,
	}
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// Signup registers a user from a multipart form carrying name, email,
// password and an avatar image.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	imageKey, err := storeImage(r, h.storage, "image")
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Signup(r.Context(), model.SignupParams{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		ImageKey: imageKey,
	})
	if err != nil {
		// The avatar was stored before the account failed; clean it up
		// best-effort.
		if delErr := h.storage.Delete(r.Context(), imageKey); delErr != nil {
			h.logger.Error("Failed to delete orphaned image", "key", imageKey, "error", delErr.Error())
		}
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		UserID: session.UserID.String(),
		Email:  session.Email,
		Token:  session.Token,
	})
}

// Login exchanges email and password for a bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperror.Validation("invalid inputs passed, please check your data"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		UserID: session.UserID.String(),
		Email:  session.Email,
		Token:  session.Token,
	})
}

// ListUsers returns all registered users, password hashes excluded.
func (h *Auth) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Auth handler: list users failed", "error", err.Error())
		WriteError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userResponse{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
			Image: "/uploads/images/" + user.ImageKey,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
