// Package store provides storage backends for the eligibility engine.
//
// This file implements a Redis-backed store. Snapshots and eligible-product
// records carry a TTL so abandoned sessions expire on their own; the product
// catalog is stored as a single JSON value.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// Redis key prefixes.
const (
	redisSnapshotKeyPrefix = "profitum:snapshot:"
	redisEligibleKeyPrefix = "profitum:eligible:"
	redisProductsKey       = "profitum:products"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis store from a redis:// DSN.
func NewRedisStore(opts ...Option) (*RedisStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewRedisStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("RedisStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultSnapshotTTL
	}

	redisOpts, err := redis.ParseURL(cfg.DSN)
	if err != nil {
		slog.Error("Failed to parse Redis DSN", "error", err)
		return nil, fmt.Errorf("failed to parse Redis DSN: %w", err)
	}
	client := redis.NewClient(redisOpts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis ping failed", "error", err)
		return nil, err
	}
	slog.Debug("Redis ping successful")

	return &RedisStore{client: client, ttl: cfg.SnapshotTTL}, nil
}

func (s *RedisStore) SaveSessionSnapshot(ctx context.Context, snap models.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisSnapshotKeyPrefix+snap.SessionID, data, s.ttl).Err(); err != nil {
		slog.Error("RedisStore SaveSessionSnapshot failed", "error", err, "session_id", snap.SessionID)
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.SessionID, err)
	}
	slog.Debug("RedisStore SaveSessionSnapshot succeeded", "session_id", snap.SessionID, "phase", snap.Phase)
	return nil
}

func (s *RedisStore) GetSessionSnapshot(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, redisSnapshotKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Error("RedisStore GetSessionSnapshot failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to get snapshot for %s: %w", sessionID, err)
	}
	var snap models.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) SaveEligibleProduct(ctx context.Context, rec models.EligibleProductRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal eligible product: %w", err)
	}
	key := redisEligibleKeyPrefix + rec.SessionID
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		slog.Error("RedisStore SaveEligibleProduct failed", "error", err, "session_id", rec.SessionID, "product_id", rec.ProductID)
		return fmt.Errorf("failed to save eligible product %s: %w", rec.ProductID, err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		slog.Warn("RedisStore SaveEligibleProduct expire failed", "error", err, "session_id", rec.SessionID)
	}
	slog.Debug("RedisStore SaveEligibleProduct succeeded", "session_id", rec.SessionID, "product_id", rec.ProductID)
	return nil
}

func (s *RedisStore) GetEligibleProducts(ctx context.Context, sessionID string) ([]models.EligibleProductRecord, error) {
	items, err := s.client.LRange(ctx, redisEligibleKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		slog.Error("RedisStore GetEligibleProducts failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to get eligible products for %s: %w", sessionID, err)
	}
	var records []models.EligibleProductRecord
	for _, item := range items {
		var rec models.EligibleProductRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal eligible product: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	data, err := s.client.Get(ctx, redisProductsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Error("RedisStore GetProducts failed", "error", err)
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	return products, nil
}

// SetProducts stores the catalog as a single JSON value with no expiry.
func (s *RedisStore) SetProducts(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	if err := s.client.Set(ctx, redisProductsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set products: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
