package repository

import (
	"context"
	"time"

	"livechat/internal/domain/entity"
)

// SessionRepository is the token table behind the session registry. The
// implementation enforces the TTL, the sliding refresh, and the per-key
// live-token cap; issuance policy (password, rate limits) lives with the
// caller.
type SessionRepository interface {
	// Issue records a freshly minted token for the key, pruning expired
	// tokens first and then evicting oldest-first past the live-token cap.
	Issue(ctx context.Context, key entity.ChannelKey, token string, now time.Time)

	// VerifyAndRefresh reports whether the token is live for the key. An
	// expired token is evicted as a side effect; a live one has its window
	// slid forward to now.
	VerifyAndRefresh(ctx context.Context, key entity.ChannelKey, token string, now time.Time) bool

	// Revoke removes exactly that token. Absence is not an error.
	Revoke(ctx context.Context, key entity.ChannelKey, token string)
}
