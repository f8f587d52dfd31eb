package app

import (
	"context"
	"database/sql"
	"fmt"
	nethttp "net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinylvault/vinylvault/config"
	"github.com/vinylvault/vinylvault/internal/database"
	"github.com/vinylvault/vinylvault/internal/http"
	"github.com/vinylvault/vinylvault/internal/http/middleware"
	"github.com/vinylvault/vinylvault/internal/migration"
	"github.com/vinylvault/vinylvault/internal/repository"
	"github.com/vinylvault/vinylvault/internal/service"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// App wires configuration, both data stores, the facade and the HTTP
// surface into one runnable unit.
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	mongoClient *mongo.Client
	facade      *service.Facade
	server      *nethttp.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

// Facade exposes the backend facade, mainly for tests.
func (a *App) Facade() *service.Facade {
	return a.facade
}

// Initialize connects both stores, ensures the relational schema and seed
// data, and builds the HTTP handler chain.
func (a *App) Initialize(ctx context.Context) error {
	db, err := database.ConnectPostgres(ctx, a.config.Postgres)
	if err != nil {
		return err
	}
	a.db = db

	mongoClient, err := database.ConnectMongo(ctx, a.config.Mongo)
	if err != nil {
		return err
	}
	a.mongoClient = mongoClient
	mongoDB := mongoClient.Database(a.config.Mongo.DBName)

	manager := database.NewManager(db, a.logger)
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	relational := repository.NewPostgresStore(db, a.logger)
	document := repository.NewMongoStore(mongoDB, a.logger)
	engine := migration.NewEngine(db, mongoDB, a.logger)

	a.facade = service.NewFacade(
		relational, document, engine, manager,
		a.config.CallTimeout, a.logger,
	)

	mux := nethttp.NewServeMux()
	http.NewCatalogHandler(a.facade, a.logger).RegisterRoutes(mux)
	http.NewUserHandler(a.facade, a.logger).RegisterRoutes(mux)
	http.NewOrderHandler(a.facade, a.logger).RegisterRoutes(mux)
	http.NewReviewHandler(a.facade, a.logger).RegisterRoutes(mux)
	http.NewReportHandler(a.facade, a.logger).RegisterRoutes(mux)
	http.NewBackendHandler(a.facade, a.logger).RegisterRoutes(mux)

	handler := middleware.RequestID(middleware.Logging(a.logger)(mux))

	a.server = &nethttp.Server{
		Addr:         fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.WithFields(map[string]interface{}{
		"addr":    a.server.Addr,
		"version": a.config.Version,
	}).Info("Application initialized")
	return nil
}

// Start serves HTTP until the listener closes.
func (a *App) Start() error {
	err := a.server.ListenAndServe()
	if err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and closes both store connections.
func (a *App) Stop(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close postgres pool: %w", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect mongodb: %w", err)
		}
	}
	a.logger.Info("Application stopped")
	return nil
}
