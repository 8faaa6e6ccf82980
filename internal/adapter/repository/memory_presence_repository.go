package repository

import (
	"context"
	"sync"
	"time"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
)

type memoryPresenceRepository struct {
	mu         sync.RWMutex
	lastActive map[entity.ChannelKey]time.Time
	unread     map[string]map[string]int
}

func NewMemoryPresenceRepository() repository.PresenceRepository {
	return &memoryPresenceRepository{
		lastActive: make(map[entity.ChannelKey]time.Time),
		unread:     make(map[string]map[string]int),
	}
}

func (r *memoryPresenceRepository) Heartbeat(ctx context.Context, key entity.ChannelKey, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive[key] = now
}

func (r *memoryPresenceRepository) LastActive(ctx context.Context, key entity.ChannelKey) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.lastActive[key]
	return ts, ok
}

func (r *memoryPresenceRepository) IncrementUnread(ctx context.Context, chatID, participant string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts, ok := r.unread[chatID]
	if !ok {
		counts = make(map[string]int)
		r.unread[chatID] = counts
	}
	counts[participant]++
}

func (r *memoryPresenceRepository) ResetUnread(ctx context.Context, chatID, participant string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if counts, ok := r.unread[chatID]; ok {
		counts[participant] = 0
	}
}

func (r *memoryPresenceRepository) UnreadCount(ctx context.Context, chatID, participant string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.unread[chatID][participant]
}
