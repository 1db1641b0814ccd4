// Package store provides storage backends for the eligibility engine.
//
// It persists best-effort session snapshots, eligible-product records written
// at synthesis time, and the optional product catalog. Backends exist for
// PostgreSQL, SQLite, Redis, and in-memory use; all of them implement the
// Store interface so the engine never depends on a concrete driver.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// DefaultSnapshotTTL is how long a session snapshot survives without a new
// turn before expiring from TTL-capable backends.
const DefaultSnapshotTTL = 24 * time.Hour

// Store is the persistence surface consumed by the conversation engine.
// Snapshot writes are best-effort on every turn; eligible-product records are
// written once per product when a session reaches synthesis.
type Store interface {
	// SaveSessionSnapshot inserts or replaces the snapshot for its session ID.
	SaveSessionSnapshot(ctx context.Context, snap models.SessionSnapshot) error
	// GetSessionSnapshot returns the snapshot for a session, or nil when none
	// is stored.
	GetSessionSnapshot(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	// SaveEligibleProduct records one eligible product for a session.
	SaveEligibleProduct(ctx context.Context, rec models.EligibleProductRecord) error
	// GetEligibleProducts returns the eligible-product records for a session.
	GetEligibleProducts(ctx context.Context, sessionID string) ([]models.EligibleProductRecord, error)
	// GetProducts returns the stored product catalog. An empty result means
	// the caller should fall back to the built-in catalog.
	GetProducts(ctx context.Context) ([]models.Product, error)
	// Close releases backend resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN         string
	SnapshotTTL time.Duration
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithRedisDSN sets the Redis connection URL.
func WithRedisDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithSnapshotTTL overrides the snapshot expiry for TTL-capable backends.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(o *Opts) {
		o.SnapshotTTL = ttl
	}
}

// DetectDSNType classifies a DSN string as "postgres", "redis", or "sqlite3".
// Anything that is not a PostgreSQL URL, a key=value connection string, or a
// Redis URL is treated as a SQLite file path.
func DetectDSNType(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return "postgres"
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return "redis"
	default:
		return "sqlite3"
	}
}

// InMemoryStore is a mutex-guarded map-backed store used when no DSN is
// configured and in tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]models.SessionSnapshot
	eligible  map[string][]models.EligibleProductRecord
	products  []models.Product
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[string]models.SessionSnapshot),
		eligible:  make(map[string][]models.EligibleProductRecord),
	}
}

func (s *InMemoryStore) SaveSessionSnapshot(_ context.Context, snap models.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.SessionID] = snap
	return nil
}

func (s *InMemoryStore) GetSessionSnapshot(_ context.Context, sessionID string) (*models.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *InMemoryStore) SaveEligibleProduct(_ context.Context, rec models.EligibleProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eligible[rec.SessionID] = append(s.eligible[rec.SessionID], rec)
	return nil
}

func (s *InMemoryStore) GetEligibleProducts(_ context.Context, sessionID string) ([]models.EligibleProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]models.EligibleProductRecord, len(s.eligible[sessionID]))
	copy(records, s.eligible[sessionID])
	return records, nil
}

func (s *InMemoryStore) GetProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, nil
}

// SetProducts replaces the stored catalog. Used to seed tests.
func (s *InMemoryStore) SetProducts(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product(nil), products...)
}

func (s *InMemoryStore) Close() error {
	return nil
}
