package repository

import (
	"context"
	"time"

	"livechat/internal/domain/entity"
)

// TypingRepository holds the single transient typing slot of each chat.
type TypingRepository interface {
	Set(ctx context.Context, chatID string, state entity.TypingState)

	// Get returns the slot unless its UpdatedAt is older than cutoff, in
	// which case the stale slot is cleared and ok is false.
	Get(ctx context.Context, chatID string, cutoff time.Time) (entity.TypingState, bool)
}
