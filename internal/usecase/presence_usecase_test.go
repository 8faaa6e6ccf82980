package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechat/internal/adapter/repository"
	ws "livechat/internal/infrastructure/websocket"
)

func newPresenceUseCase(t *testing.T) *PresenceUseCase {
	t.Helper()
	presenceRepo := repository.NewMemoryPresenceRepository()
	typingRepo := repository.NewMemoryTypingRepository()
	hub := ws.NewHub()
	hub.Start(context.Background())
	return NewPresenceUseCase(presenceRepo, typingRepo, hub)
}

func TestStatusForUnknownChat(t *testing.T) {
	uc := newPresenceUseCase(t)

	status := uc.Status(context.Background(), "nowhere")
	assert.False(t, status.UserOnline)
	assert.False(t, status.AgentOnline)
	assert.Empty(t, status.UserLastSeen)
	assert.Empty(t, status.AgentLastSeen)
}

func TestAsymmetricOnlineWindows(t *testing.T) {
	uc := newPresenceUseCase(t)
	ctx := context.Background()

	base := time.Now()
	uc.now = func() time.Time { return base }

	uc.MarkOnline(ctx, "c1", "user")
	uc.MarkOnline(ctx, "c1", "agent")

	status := uc.Status(ctx, "c1")
	assert.True(t, status.UserOnline)
	assert.True(t, status.AgentOnline)

	// Six seconds of silence: the user window (5s) has closed, the agent
	// window (30s) has not.
	uc.now = func() time.Time { return base.Add(6 * time.Second) }
	status = uc.Status(ctx, "c1")
	assert.False(t, status.UserOnline)
	assert.True(t, status.AgentOnline)

	uc.now = func() time.Time { return base.Add(31 * time.Second) }
	status = uc.Status(ctx, "c1")
	assert.False(t, status.AgentOnline)
}

func TestLastSeenFormatting(t *testing.T) {
	uc := newPresenceUseCase(t)
	ctx := context.Background()

	base := time.Now()
	uc.now = func() time.Time { return base }
	uc.MarkOnline(ctx, "c1", "user")

	uc.now = func() time.Time { return base.Add(10 * time.Second) }
	assert.Equal(t, "just now", uc.Status(ctx, "c1").UserLastSeen)

	uc.now = func() time.Time { return base.Add(5 * time.Minute) }
	assert.Equal(t, "5 min ago", uc.Status(ctx, "c1").UserLastSeen)

	uc.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.Equal(t, base.Format("3:04 PM, Jan 2"), uc.Status(ctx, "c1").UserLastSeen)
}

func TestTypingSlotLastWriterWins(t *testing.T) {
	uc := newPresenceUseCase(t)
	ctx := context.Background()

	uc.SetTyping(ctx, "c1", "user", "hel")
	uc.SetTyping(ctx, "c1", "user", "hello th")

	state, ok := uc.Typing(ctx, "c1")
	require.True(t, ok)
	assert.Equal(t, "user", state.Sender)
	assert.Equal(t, "hello th", state.Text)
}

func TestTypingExpiresAfterTTL(t *testing.T) {
	uc := newPresenceUseCase(t)
	ctx := context.Background()

	base := time.Now()
	uc.now = func() time.Time { return base }
	uc.SetTyping(ctx, "c1", "user", "hel")

	uc.now = func() time.Time { return base.Add(4 * time.Second) }
	_, ok := uc.Typing(ctx, "c1")
	assert.True(t, ok)

	uc.now = func() time.Time { return base.Add(6 * time.Second) }
	_, ok = uc.Typing(ctx, "c1")
	assert.False(t, ok)

	// Expiry cleared the slot; it stays gone even if time rolls back in a
	// later read.
	uc.now = func() time.Time { return base.Add(4 * time.Second) }
	_, ok = uc.Typing(ctx, "c1")
	assert.False(t, ok)
}

func TestUnreadDefaultsToZero(t *testing.T) {
	uc := newPresenceUseCase(t)
	assert.Equal(t, 0, uc.UnreadCount(context.Background(), "c1", "user"))
}
