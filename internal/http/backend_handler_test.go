package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/internal/service"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

type stubBackendService struct {
	state      service.BackendState
	report     *domain.MigrationReport
	migrateErr error
	resetErr   error
}

func (s *stubBackendService) State() service.BackendState {
	return s.state
}

func (s *stubBackendService) TriggerMigration(ctx context.Context) (*domain.MigrationReport, error) {
	if s.migrateErr != nil {
		return nil, s.migrateErr
	}
	s.state = service.StateMigrated
	return s.report, nil
}

func (s *stubBackendService) ResetRelationalStore(ctx context.Context) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	s.state = service.StateRelationalActive
	return nil
}

func newBackendServer(svc *stubBackendService) *http.ServeMux {
	mux := http.NewServeMux()
	NewBackendHandler(svc, logger.NewLogger("disabled")).RegisterRoutes(mux)
	return mux
}

func TestHandleBackendStatus(t *testing.T) {
	mux := newBackendServer(&stubBackendService{state: service.StateRelationalActive})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backend.status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.StateRelationalActive))
}

func TestHandleMigrate(t *testing.T) {
	svc := &stubBackendService{
		state: service.StateRelationalActive,
		report: &domain.MigrationReport{
			VinylsInserted: 15,
			Failures: []domain.ValidationFailure{
				{Collection: domain.CollectionUsers, DocumentID: 9, Reason: "Document failed validation"},
			},
		},
	}
	mux := newBackendServer(svc)

	// Test case 1: Successful migration returns the report and new state
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backend.migrate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.StateMigrated))
	assert.Contains(t, rec.Body.String(), "Document failed validation")

	// Test case 2: Re-triggering after a completed run succeeds again
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backend.migrate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.StateMigrated))

	// Test case 3: Concurrent trigger maps to 409
	svc.migrateErr = domain.ErrMigrationInProgress
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backend.migrate", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Test case 4: Migration only accepts POST
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backend.migrate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleReset(t *testing.T) {
	svc := &stubBackendService{state: service.StateMigrated}
	mux := newBackendServer(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backend.reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.StateRelationalActive))
}
