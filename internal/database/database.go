package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vinylvault/vinylvault/config"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// ConnectPostgres opens and verifies the relational connection pool.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// ConnectMongo connects and verifies the document store client.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// Manager owns the relational schema lifecycle: first-boot initialization
// and the full drop-recreate-reseed reset.
type Manager struct {
	db     *sql.DB
	logger logger.Logger
}

func NewManager(db *sql.DB, logger logger.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// Initialize creates missing tables and seeds the demo data set once. An
// already-populated database is left alone.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := m.createSchema(ctx); err != nil {
		return err
	}

	var artistCount int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&artistCount); err != nil {
		return fmt.Errorf("failed to inspect existing data: %w", err)
	}
	if artistCount > 0 {
		m.logger.Info("Relational schema already populated, skipping seed")
		return nil
	}

	return m.seed(ctx)
}

// Reset drops every table, recreates the schema and reseeds the demo data.
// The store is back at its known baseline afterwards.
func (m *Manager) Reset(ctx context.Context) error {
	m.logger.Warn("Resetting relational store to seeded baseline")

	for i := len(tableNames) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, tableNames[i])
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableNames[i], err)
		}
	}

	if err := m.createSchema(ctx); err != nil {
		return err
	}
	return m.seed(ctx)
}

func (m *Manager) createSchema(ctx context.Context) error {
	for _, stmt := range createStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	m.logger.Info("Relational schema is in place")
	return nil
}
