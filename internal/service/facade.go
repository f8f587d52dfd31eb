package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// BackendState identifies which adapter serves domain calls.
type BackendState string

const (
	// StateRelationalActive routes every call to the relational adapter.
	StateRelationalActive BackendState = "RELATIONAL_ACTIVE"
	// StateMigrated routes every call to the document adapter.
	StateMigrated BackendState = "MIGRATED"
)

const (
	backendRelational = "relational"
	backendDocument   = "document"
)

// Migrator copies the relational data set into the document store.
type Migrator interface {
	Migrate(ctx context.Context) (*domain.MigrationReport, error)
}

// Resetter restores the relational store to its seeded baseline.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Facade is the single entry point for domain operations. It routes each
// call to the active backend, enforces the per-call timeout and owns the
// backend state machine: RELATIONAL_ACTIVE until a migration succeeds, then
// MIGRATED, with a reset as the only sanctioned way back.
type Facade struct {
	relational domain.Store
	document   domain.Store
	migrator   Migrator
	resetter   Resetter
	timeout    time.Duration
	logger     logger.Logger

	mu    sync.RWMutex
	state BackendState

	// migrationMu serializes migration and reset; TryLock keeps the second
	// caller from blocking behind a long-running one.
	migrationMu sync.Mutex
}

// NewFacade creates a facade starting in RELATIONAL_ACTIVE.
func NewFacade(
	relational, document domain.Store,
	migrator Migrator,
	resetter Resetter,
	timeout time.Duration,
	logger logger.Logger,
) *Facade {
	return &Facade{
		relational: relational,
		document:   document,
		migrator:   migrator,
		resetter:   resetter,
		timeout:    timeout,
		logger:     logger,
		state:      StateRelationalActive,
	}
}

// State reports the current backend state.
func (f *Facade) State() BackendState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// active returns the store serving calls right now and its name for error
// reporting.
func (f *Facade) active() (domain.Store, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state == StateMigrated {
		return f.document, backendDocument
	}
	return f.relational, backendRelational
}

// TriggerMigration runs the relational-to-document migration. Only one
// attempt runs at a time; a concurrent trigger gets ErrMigrationInProgress
// immediately. Re-triggering after a successful run is allowed: the engine
// destroys and rebuilds the target from scratch, so a re-run reproduces the
// same state. The state flips to MIGRATED only when the whole run succeeds,
// so a failed attempt leaves the relational backend serving.
func (f *Facade) TriggerMigration(ctx context.Context) (*domain.MigrationReport, error) {
	if !f.migrationMu.TryLock() {
		return nil, domain.ErrMigrationInProgress
	}
	defer f.migrationMu.Unlock()

	f.logger.Info("Starting migration to document store")
	report, err := f.migrator.Migrate(ctx)
	if err != nil {
		f.logger.WithField("error", err.Error()).Error("Migration failed, relational store stays active")
		return nil, err
	}

	f.mu.Lock()
	f.state = StateMigrated
	f.mu.Unlock()

	f.logger.WithField("failures", len(report.Failures)).Info("Document store is now the active backend")
	return report, nil
}

// ResetRelationalStore reseeds the relational store and makes it the active
// backend again. This is the only backward transition; it shares the
// migration lock so a reset never interleaves with a running migration.
func (f *Facade) ResetRelationalStore(ctx context.Context) error {
	if !f.migrationMu.TryLock() {
		return domain.ErrMigrationInProgress
	}
	defer f.migrationMu.Unlock()

	if err := f.resetter.Reset(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	f.state = StateRelationalActive
	f.mu.Unlock()

	f.logger.Info("Relational store reseeded and active again")
	return nil
}

// call runs op against the active backend under the per-call timeout and
// normalizes reachability failures.
func (f *Facade) call(ctx context.Context, op func(ctx context.Context, store domain.Store) error) error {
	store, backend := f.active()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := op(ctx, store); err != nil {
		return f.normalize(backend, err)
	}
	return nil
}

// normalize maps timeouts and connection-level failures to
// ErrBackendUnavailable so callers see one error shape for an unreachable
// backend. Domain errors pass through untouched.
func (f *Facade) normalize(backend string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.As(err, &netErr):
		f.logger.WithFields(map[string]interface{}{
			"backend": backend,
			"error":   err.Error(),
		}).Error("Backend unreachable")
		return &domain.ErrBackendUnavailable{Backend: backend, Err: err}
	default:
		return err
	}
}

func (f *Facade) ListVinyls(ctx context.Context, limit int) ([]*domain.VinylView, error) {
	var views []*domain.VinylView
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		views, err = store.ListVinyls(ctx, limit)
		return err
	})
	return views, err
}

func (f *Facade) SearchVinyls(ctx context.Context, query string) ([]*domain.VinylView, error) {
	var views []*domain.VinylView
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		views, err = store.SearchVinyls(ctx, query)
		return err
	})
	return views, err
}

func (f *Facade) AdminSearchVinyls(ctx context.Context, filter domain.CatalogFilter) ([]*domain.VinylView, []string, error) {
	var (
		views  []*domain.VinylView
		genres []string
	)
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		views, genres, err = store.AdminSearchVinyls(ctx, filter)
		return err
	})
	return views, genres, err
}

func (f *Facade) InsertVinyl(ctx context.Context, input domain.VinylInput) (int64, error) {
	var id int64
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		id, err = store.InsertVinyl(ctx, input)
		return err
	})
	return id, err
}

func (f *Facade) DeleteVinyl(ctx context.Context, vinylID int64) error {
	return f.call(ctx, func(ctx context.Context, store domain.Store) error {
		return store.DeleteVinyl(ctx, vinylID)
	})
}

func (f *Facade) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	var identity *domain.Identity
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		identity, err = store.Authenticate(ctx, creds)
		return err
	})
	return identity, err
}

func (f *Facade) ListUsers(ctx context.Context) ([]*domain.UserAccount, error) {
	var accounts []*domain.UserAccount
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		accounts, err = store.ListUsers(ctx)
		return err
	})
	return accounts, err
}

func (f *Facade) OrdersForUser(ctx context.Context, userID int64) ([]*domain.OrderView, error) {
	var orders []*domain.OrderView
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		orders, err = store.OrdersForUser(ctx, userID)
		return err
	})
	return orders, err
}

func (f *Facade) BuyVinyl(ctx context.Context, userID, vinylID int64, amount int) (int64, error) {
	var orderID int64
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		orderID, err = store.BuyVinyl(ctx, userID, vinylID, amount)
		return err
	})
	return orderID, err
}

func (f *Facade) SubmitReview(ctx context.Context, input domain.ReviewInput) error {
	return f.call(ctx, func(ctx context.Context, store domain.Store) error {
		return store.SubmitReview(ctx, input)
	})
}

func (f *Facade) GetReview(ctx context.Context, userID, vinylID int64) (*domain.ReviewView, error) {
	var review *domain.ReviewView
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		review, err = store.GetReview(ctx, userID, vinylID)
		return err
	})
	return review, err
}

func (f *Facade) DeleteReview(ctx context.Context, userID, vinylID int64) (bool, error) {
	var deleted bool
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		deleted, err = store.DeleteReview(ctx, userID, vinylID)
		return err
	})
	return deleted, err
}

func (f *Facade) RatingsSummary(ctx context.Context, window domain.DateRange) ([]*domain.VinylRatingSummary, error) {
	var summaries []*domain.VinylRatingSummary
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		summaries, err = store.RatingsSummary(ctx, window)
		return err
	})
	return summaries, err
}

func (f *Facade) SalesOverview(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesSummaryRow, []*domain.SalesDetailRow, error) {
	var (
		summary []*domain.SalesSummaryRow
		details []*domain.SalesDetailRow
	)
	err := f.call(ctx, func(ctx context.Context, store domain.Store) (err error) {
		summary, details, err = store.SalesOverview(ctx, filter)
		return err
	})
	return summary, details, err
}
