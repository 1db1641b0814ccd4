package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(WithRedisDSN("redis://"+mr.Addr()), WithSnapshotTTL(time.Hour))
	if err != nil {
		t.Fatalf("failed to open Redis store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	exerciseStore(t, s)
}

func TestRedisStoreSnapshotExpiry(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := s.SaveSessionSnapshot(ctx, sampleSnapshot("sess-ttl")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(redisSnapshotKeyPrefix + "sess-ttl"); ttl != time.Hour {
		t.Errorf("expected snapshot TTL %v, got %v", time.Hour, ttl)
	}

	mr.FastForward(2 * time.Hour)
	snap, err := s.GetSessionSnapshot(ctx, "sess-ttl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected expired snapshot to be gone, got %+v", snap)
	}
}

func TestRedisStoreProducts(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	products, err := s.GetProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty catalog, got %d products", len(products))
	}

	want := []models.Product{{ID: "ticpe", Name: "TICPE", Evaluator: models.EvaluatorFuelTax}}
	if err := s.SetProducts(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, err = s.GetProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "ticpe" {
		t.Errorf("catalog not stored correctly: %+v", products)
	}
}

func TestRedisStoreRequiresDSN(t *testing.T) {
	if _, err := NewRedisStore(); err == nil {
		t.Error("expected error without DSN")
	}
}
