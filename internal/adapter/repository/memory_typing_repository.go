package repository

import (
	"context"
	"sync"
	"time"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
)

type memoryTypingRepository struct {
	mu    sync.Mutex
	slots map[string]entity.TypingState
}

func NewMemoryTypingRepository() repository.TypingRepository {
	return &memoryTypingRepository{
		slots: make(map[string]entity.TypingState),
	}
}

func (r *memoryTypingRepository) Set(ctx context.Context, chatID string, state entity.TypingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[chatID] = state
}

func (r *memoryTypingRepository) Get(ctx context.Context, chatID string, cutoff time.Time) (entity.TypingState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.slots[chatID]
	if !ok {
		return entity.TypingState{}, false
	}
	if state.UpdatedAt.Before(cutoff) {
		// Stale slot; clear it on the way out.
		delete(r.slots, chatID)
		return entity.TypingState{}, false
	}
	return state, true
}
