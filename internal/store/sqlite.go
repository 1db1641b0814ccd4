// Package store provides storage backends for the eligibility engine.
//
// This file implements the SQLite-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/Alexandre220990/profitum-engine/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveSessionSnapshot(ctx context.Context, snap models.SessionSnapshot) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_snapshots (session_id, client_id, phase, profile_json, eligible_products_json, last_processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			client_id = excluded.client_id,
			phase = excluded.phase,
			profile_json = excluded.profile_json,
			eligible_products_json = excluded.eligible_products_json,
			last_processed_at = excluded.last_processed_at`,
		snap.SessionID, snap.ClientID, snap.Phase, snap.ProfileJSON, snap.EligibleProductsJSON, snap.LastProcessedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveSessionSnapshot failed", "error", err, "session_id", snap.SessionID)
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.SessionID, err)
	}
	slog.Debug("SQLiteStore SaveSessionSnapshot succeeded", "session_id", snap.SessionID, "phase", snap.Phase)
	return nil
}

func (s *SQLiteStore) GetSessionSnapshot(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_id, client_id, phase, profile_json, eligible_products_json, last_processed_at
		FROM session_snapshots WHERE session_id = ?`, sessionID)
	snap, err := scanSnapshotRow(row)
	if err != nil {
		slog.Error("SQLiteStore GetSessionSnapshot failed", "error", err, "session_id", sessionID)
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) SaveEligibleProduct(ctx context.Context, rec models.EligibleProductRecord) error {
	reasonsJSON, err := marshalReasons(rec.Reasons)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO eligible_products (id, session_id, client_id, product_id, score, estimated_gain, reasons_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.ClientID, rec.ProductID, rec.Score, rec.EstimatedGain, reasonsJSON, rec.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveEligibleProduct failed", "error", err, "session_id", rec.SessionID, "product_id", rec.ProductID)
		return fmt.Errorf("failed to insert eligible product %s: %w", rec.ProductID, err)
	}
	slog.Debug("SQLiteStore SaveEligibleProduct succeeded", "session_id", rec.SessionID, "product_id", rec.ProductID)
	return nil
}

func (s *SQLiteStore) GetEligibleProducts(ctx context.Context, sessionID string) ([]models.EligibleProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, client_id, product_id, score, estimated_gain, reasons_json, created_at
		FROM eligible_products WHERE session_id = ? ORDER BY created_at`, sessionID)
	if err != nil {
		slog.Error("SQLiteStore GetEligibleProducts query failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to query eligible products: %w", err)
	}
	return scanEligibleRows(rows)
}

func (s *SQLiteStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, min_rate, max_rate, min_amount, max_amount, min_duration_months, max_duration_months, evaluator
		FROM products ORDER BY id`)
	if err != nil {
		slog.Error("SQLiteStore GetProducts query failed", "error", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return scanProductRows(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
