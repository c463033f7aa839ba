package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/usersvc/apiserver/internal/store"
	"github.com/usersvc/apiserver/types"
)

type userService interface {
	Create(ctx context.Context, input types.NewUser) (types.User, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetAll(ctx context.Context) ([]types.User, error)
	Update(ctx context.Context, id int, patch types.NewUser) (types.User, error)
	Delete(ctx context.Context, id int) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	users  userService
	logger *slog.Logger
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(users userService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users userService, tokens TokenParser, logger *slog.Logger) {
	handler := NewUserHandler(users, logger)

	r.Post("/create", handler.CreateUser)
	r.Get("/get/{userID}", handler.GetUser)
	r.Get("/list", handler.ListUsers)
	r.Delete("/delete/{userID}", handler.DeleteUser)
	r.Put("/update/{userID}", handler.UpdateUser)
	r.Post("/login", handler.Login)
	r.With(RequireAuth(tokens)).Get("/me", handler.Me)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.NewUser
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.ValidateCreate(); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		h.writeStoreError(w, err, "failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: deleted})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.NewUser
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.users.Update(r.Context(), id, patch)
	if err != nil {
		h.writeStoreError(w, err, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login verifies credentials and returns a JWT.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeStoreError(w, err, "failed to authenticate")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Me returns the user named by the bearer token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		h.writeStoreError(w, err, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// writeStoreError maps repository errors to status codes. Anything unexpected
// is logged and reported as a 500 with the generic message.
func (h *UserHandler) writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "user already exists")
	case errors.Is(err, store.ErrPasswordRequired):
		writeError(w, http.StatusBadRequest, "password_hash is required")
	case errors.Is(err, store.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.logger.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message)
	}
}

func validationMessage(err error) string {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs.Error()
	}
	return "invalid request"
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
