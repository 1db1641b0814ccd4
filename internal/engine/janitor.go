package engine

import (
	"context"
	"log/slog"
	"time"
)

// StartJanitor launches the background sweep that evicts sessions whose last
// turn is older than the inactivity TTL. It stops when the context is
// cancelled. Durable snapshots survive eviction, so a returning client is
// restored from the store.
func (e *Engine) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(e.janitorInterval)
		defer ticker.Stop()
		slog.Debug("Engine.StartJanitor: janitor started", "interval", e.janitorInterval, "ttl", e.inactivityTTL)
		for {
			select {
			case <-ctx.Done():
				slog.Debug("Engine.StartJanitor: janitor stopped")
				return
			case <-ticker.C:
				e.evictInactive(e.now())
			}
		}
	}()
}

// evictInactive removes idle sessions from memory and returns how many were
// evicted.
func (e *Engine) evictInactive(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	for id, entry := range e.sessions {
		if !entry.mu.TryLock() {
			// A turn is in flight; the session is obviously not idle.
			continue
		}
		if entry.initialized && now.Sub(entry.session.LastInteractionAt) > e.inactivityTTL {
			// Marked under the entry lock so a turn that grabbed the entry
			// just before this delete sees it and re-fetches a fresh one.
			entry.evicted = true
			delete(e.sessions, id)
			evicted++
		}
		entry.mu.Unlock()
	}
	if evicted > 0 {
		slog.Info("Engine.evictInactive: idle sessions evicted", "count", evicted)
	}
	return evicted
}
