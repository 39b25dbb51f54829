// Package cache keeps extraction results keyed by input content so an
// unchanged slip is not parsed twice.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/interfaces"
)

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// MemoryCache is an in-process ResultCache with per-entry expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{
		payload: append([]byte(nil), payload...),
		expires: m.now().Add(m.ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Close() error {
	return nil
}

// New returns the cache selected by config: nil when disabled, Redis when
// an address is set, memory otherwise. A Redis connection failure falls
// back to memory with a warning.
func New(cfg *config.CacheConfig) interfaces.ResultCache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RedisAddr != "" {
		rc, err := NewRedisCache(cfg.RedisAddr, cfg.Password, cfg.DB, cfg.KeyPrefix, cfg.TTL)
		if err == nil {
			slog.Info("Result cache: redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
			return rc
		}
		slog.Warn("Redis unavailable, using in-memory result cache", "addr", cfg.RedisAddr, "error", err)
	}
	return NewMemoryCache(cfg.TTL)
}
