package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// UserService is the subset of facade operations the account endpoints use.
type UserService interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)
	ListUsers(ctx context.Context) ([]*domain.UserAccount, error)
}

type UserHandler struct {
	service UserService
	logger  logger.Logger
}

func NewUserHandler(service UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users.login", h.handleLogin)
	mux.HandleFunc("/api/users.list", h.handleList)
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	creds := domain.Credentials{Email: req.Email, Password: req.Password}
	if err := creds.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	identity, err := h.service.Authenticate(r.Context(), creds)
	if err != nil {
		// Failed logins are expected traffic, logged at warn without the
		// submitted password.
		h.logger.WithField("email", req.Email).Warn("Login failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"identity": identity,
	})
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list users")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}
