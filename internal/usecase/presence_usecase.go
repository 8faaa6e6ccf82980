package usecase

import (
	"context"
	"fmt"
	"time"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
	ws "livechat/internal/infrastructure/websocket"
)

const (
	// The human side polls aggressively; the staffed side does not. The
	// asymmetric windows keep the agent showing online between slower polls.
	userOnlineWindow  = 5 * time.Second
	agentOnlineWindow = 30 * time.Second

	typingTTL = 5 * time.Second
)

// PresenceUseCase tracks last-activity per channel key, the unread counters
// derived from message flow, and the transient typing slot.
type PresenceUseCase struct {
	presenceRepo repository.PresenceRepository
	typingRepo   repository.TypingRepository
	hub          *ws.Hub
	now          func() time.Time
}

func NewPresenceUseCase(presenceRepo repository.PresenceRepository, typingRepo repository.TypingRepository, hub *ws.Hub) *PresenceUseCase {
	return &PresenceUseCase{
		presenceRepo: presenceRepo,
		typingRepo:   typingRepo,
		hub:          hub,
		now:          time.Now,
	}
}

// MarkOnline records a heartbeat for the participant.
func (uc *PresenceUseCase) MarkOnline(ctx context.Context, chatID, participant string) {
	key := entity.ChannelKey{ChatID: chatID, Participant: participant}
	uc.presenceRepo.Heartbeat(ctx, key, uc.now())

	uc.hub.Broadcast(ws.Event{
		Type:    ws.EventPresence,
		ChatID:  chatID,
		Payload: map[string]string{"participant": participant, "state": "online"},
	})
}

// Status reports both sides' online flags and formatted last-seen strings.
// Intentionally unauthenticated.
func (uc *PresenceUseCase) Status(ctx context.Context, chatID string) entity.PresenceStatus {
	now := uc.now()
	status := entity.PresenceStatus{}

	if ts, ok := uc.presenceRepo.LastActive(ctx, entity.ChannelKey{ChatID: chatID, Participant: entity.ParticipantUser}); ok {
		status.UserOnline = now.Sub(ts) < userOnlineWindow
		status.UserLastSeen = formatLastSeen(ts, now)
	}
	if ts, ok := uc.presenceRepo.LastActive(ctx, entity.ChannelKey{ChatID: chatID, Participant: entity.ParticipantAgent}); ok {
		status.AgentOnline = now.Sub(ts) < agentOnlineWindow
		status.AgentLastSeen = formatLastSeen(ts, now)
	}
	return status
}

// UnreadCount returns how many messages the participant has not viewed yet.
func (uc *PresenceUseCase) UnreadCount(ctx context.Context, chatID, participant string) int {
	return uc.presenceRepo.UnreadCount(ctx, chatID, participant)
}

// SetTyping overwrites the chat's typing slot, last writer wins.
func (uc *PresenceUseCase) SetTyping(ctx context.Context, chatID, sender, text string) {
	uc.typingRepo.Set(ctx, chatID, entity.TypingState{
		Sender:    sender,
		Text:      text,
		UpdatedAt: uc.now(),
	})

	uc.hub.Broadcast(ws.Event{
		Type:    ws.EventTyping,
		ChatID:  chatID,
		Payload: map[string]string{"sender": sender, "text": text},
	})
}

// Typing returns the live typing slot, expiring it lazily after typingTTL.
func (uc *PresenceUseCase) Typing(ctx context.Context, chatID string) (entity.TypingState, bool) {
	return uc.typingRepo.Get(ctx, chatID, uc.now().Add(-typingTTL))
}

// formatLastSeen renders a timestamp relative to now: "just now" under a
// minute, minutes under an hour, then an absolute 12-hour stamp.
func formatLastSeen(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	delta := now.Sub(ts)
	switch {
	case delta < time.Minute:
		return "just now"
	case delta < time.Hour:
		return fmt.Sprintf("%d min ago", int(delta.Minutes()))
	default:
		return ts.Format("3:04 PM, Jan 2")
	}
}
