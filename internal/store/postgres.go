// Package store provides storage backends for the eligibility engine.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/Alexandre220990/profitum-engine/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveSessionSnapshot(ctx context.Context, snap models.SessionSnapshot) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_snapshots (session_id, client_id, phase, profile_json, eligible_products_json, last_processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			phase = EXCLUDED.phase,
			profile_json = EXCLUDED.profile_json,
			eligible_products_json = EXCLUDED.eligible_products_json,
			last_processed_at = EXCLUDED.last_processed_at`,
		snap.SessionID, snap.ClientID, snap.Phase, snap.ProfileJSON, snap.EligibleProductsJSON, snap.LastProcessedAt)
	if err != nil {
		slog.Error("PostgresStore SaveSessionSnapshot failed", "error", err, "session_id", snap.SessionID)
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.SessionID, err)
	}
	slog.Debug("PostgresStore SaveSessionSnapshot succeeded", "session_id", snap.SessionID, "phase", snap.Phase)
	return nil
}

func (s *PostgresStore) GetSessionSnapshot(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_id, client_id, phase, profile_json, eligible_products_json, last_processed_at
		FROM session_snapshots WHERE session_id = $1`, sessionID)
	snap, err := scanSnapshotRow(row)
	if err != nil {
		slog.Error("PostgresStore GetSessionSnapshot failed", "error", err, "session_id", sessionID)
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) SaveEligibleProduct(ctx context.Context, rec models.EligibleProductRecord) error {
	reasonsJSON, err := marshalReasons(rec.Reasons)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO eligible_products (id, session_id, client_id, product_id, score, estimated_gain, reasons_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.SessionID, rec.ClientID, rec.ProductID, rec.Score, rec.EstimatedGain, reasonsJSON, rec.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveEligibleProduct failed", "error", err, "session_id", rec.SessionID, "product_id", rec.ProductID)
		return fmt.Errorf("failed to insert eligible product %s: %w", rec.ProductID, err)
	}
	slog.Debug("PostgresStore SaveEligibleProduct succeeded", "session_id", rec.SessionID, "product_id", rec.ProductID)
	return nil
}

func (s *PostgresStore) GetEligibleProducts(ctx context.Context, sessionID string) ([]models.EligibleProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, client_id, product_id, score, estimated_gain, reasons_json, created_at
		FROM eligible_products WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		slog.Error("PostgresStore GetEligibleProducts query failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to query eligible products: %w", err)
	}
	return scanEligibleRows(rows)
}

func (s *PostgresStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, min_rate, max_rate, min_amount, max_amount, min_duration_months, max_duration_months, evaluator
		FROM products ORDER BY id`)
	if err != nil {
		slog.Error("PostgresStore GetProducts query failed", "error", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return scanProductRows(rows)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
