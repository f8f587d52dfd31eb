package http

import (
	"context"
	"net/http"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/internal/service"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// BackendService exposes the backend state machine: which adapter serves
// calls, the migration trigger and the relational reset.
type BackendService interface {
	State() service.BackendState
	TriggerMigration(ctx context.Context) (*domain.MigrationReport, error)
	ResetRelationalStore(ctx context.Context) error
}

type BackendHandler struct {
	service BackendService
	logger  logger.Logger
}

func NewBackendHandler(service BackendService, logger logger.Logger) *BackendHandler {
	return &BackendHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BackendHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/backend.status", h.handleStatus)
	mux.HandleFunc("/api/backend.migrate", h.handleMigrate)
	mux.HandleFunc("/api/backend.reset", h.handleReset)
}

func (h *BackendHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": h.service.State(),
	})
}

func (h *BackendHandler) handleMigrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.service.TriggerMigration(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Migration trigger failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":  h.service.State(),
		"report": report,
	})
}

func (h *BackendHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.ResetRelationalStore(r.Context()); err != nil {
		h.logger.WithField("error", err.Error()).Error("Relational reset failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": h.service.State(),
	})
}
