package repository

import (
	"context"
	"time"

	"livechat/internal/domain/entity"
)

// PresenceRepository tracks last-activity timestamps per channel key and the
// per-chat unread counters.
type PresenceRepository interface {
	Heartbeat(ctx context.Context, key entity.ChannelKey, now time.Time)
	LastActive(ctx context.Context, key entity.ChannelKey) (time.Time, bool)

	IncrementUnread(ctx context.Context, chatID, participant string)
	ResetUnread(ctx context.Context, chatID, participant string)
	UnreadCount(ctx context.Context, chatID, participant string) int
}
