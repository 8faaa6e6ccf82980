package repository

import (
	"context"
	"sync"
	"time"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
)

// memorySessionRepository is the in-memory token table: per channel key, a
// map of live token -> issuance time. Expiry is lazy; nothing sweeps in the
// background.
type memorySessionRepository struct {
	mu        sync.Mutex
	tokens    map[entity.ChannelKey]map[string]time.Time
	ttl       time.Duration
	maxPerKey int
}

func NewMemorySessionRepository(ttl time.Duration, maxPerKey int) repository.SessionRepository {
	return &memorySessionRepository{
		tokens:    make(map[entity.ChannelKey]map[string]time.Time),
		ttl:       ttl,
		maxPerKey: maxPerKey,
	}
}

func (r *memorySessionRepository) Issue(ctx context.Context, key entity.ChannelKey, token string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.tokens[key]
	if !ok {
		entries = make(map[string]time.Time)
		r.tokens[key] = entries
	}

	for t, issuedAt := range entries {
		if now.Sub(issuedAt) > r.ttl {
			delete(entries, t)
		}
	}

	entries[token] = now

	// Keep only the most recent tokens so reconnects can overlap briefly
	// without the table growing.
	for len(entries) > r.maxPerKey {
		oldest := ""
		var oldestAt time.Time
		for t, issuedAt := range entries {
			if oldest == "" || issuedAt.Before(oldestAt) {
				oldest = t
				oldestAt = issuedAt
			}
		}
		delete(entries, oldest)
	}
}

func (r *memorySessionRepository) VerifyAndRefresh(ctx context.Context, key entity.ChannelKey, token string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.tokens[key]
	if !ok {
		return false
	}
	issuedAt, ok := entries[token]
	if !ok {
		return false
	}
	if now.Sub(issuedAt) > r.ttl {
		delete(entries, token)
		return false
	}

	// Sliding expiration: every successful verification renews the window.
	entries[token] = now
	return true
}

func (r *memorySessionRepository) Revoke(ctx context.Context, key entity.ChannelKey, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entries, ok := r.tokens[key]; ok {
		delete(entries, token)
	}
}
