package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
	ws "livechat/internal/infrastructure/websocket"
	"livechat/pkg/errors"
	"livechat/pkg/logger"
)

// ChatUseCase is the message store: append, edit, tombstone-delete, reaction
// toggling and the projected read view. Authorization is the caller's job;
// ownership of individual messages is checked here.
type ChatUseCase struct {
	chatRepo     repository.ChatRepository
	presenceRepo repository.PresenceRepository
	hub          *ws.Hub
	now          func() time.Time
}

func NewChatUseCase(chatRepo repository.ChatRepository, presenceRepo repository.PresenceRepository, hub *ws.Hub) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:     chatRepo,
		presenceRepo: presenceRepo,
		hub:          hub,
		now:          time.Now,
	}
}

type SendMessageInput struct {
	ChatID  string
	Sender  string
	Kind    string
	Text    string
	URL     string
	ReplyTo string
}

// SendMessage validates the payload (exactly one of trimmed text or image
// url), appends the message and bumps the other side's unread counter.
func (uc *ChatUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	msg := &entity.Message{
		ID:        uuid.NewString(),
		ChatID:    input.ChatID,
		Sender:    input.Sender,
		ReplyTo:   input.ReplyTo,
		CreatedAt: uc.now(),
	}

	if input.Kind == entity.MessageKindImage && input.URL != "" {
		msg.Kind = entity.MessageKindImage
		msg.URL = input.URL
	} else {
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return nil, errors.EmptyContent("Message text must not be empty")
		}
		msg.Kind = entity.MessageKindText
		msg.Text = text
	}

	// Snapshot before the append makes the message reachable by concurrent
	// mutations; the hub marshals the payload on its own goroutine.
	snapshot := msg.Clone()

	if err := uc.chatRepo.Append(ctx, msg); err != nil {
		return nil, err
	}

	uc.presenceRepo.IncrementUnread(ctx, input.ChatID, entity.OtherParticipant(input.Sender))

	uc.hub.Broadcast(ws.Event{Type: ws.EventMessageNew, ChatID: input.ChatID, Payload: snapshot})
	return snapshot, nil
}

// EditMessage replaces the text of a message the editor owns. Tombstones are
// terminal and edit like absent messages.
func (uc *ChatUseCase) EditMessage(ctx context.Context, chatID, messageID, editor, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.EmptyContent("Message text must not be empty")
	}

	msg, err := uc.chatRepo.Edit(ctx, chatID, messageID, editor, text)
	if err != nil {
		return nil, err
	}

	uc.hub.Broadcast(ws.Event{Type: ws.EventMessageEdited, ChatID: chatID, Payload: msg})
	return msg, nil
}

// DeleteMessage tombstones a message the requester owns.
func (uc *ChatUseCase) DeleteMessage(ctx context.Context, chatID, messageID, requester string) error {
	if err := uc.chatRepo.Delete(ctx, chatID, messageID, requester); err != nil {
		return err
	}

	uc.hub.Broadcast(ws.Event{
		Type:    ws.EventMessageDeleted,
		ChatID:  chatID,
		Payload: map[string]string{"message_id": messageID},
	})
	return nil
}

// ReactToMessage toggles the participant's reaction. Applying the same
// reaction twice restores the original state. Any authorized participant may
// react to any live message, their own included.
func (uc *ChatUseCase) ReactToMessage(ctx context.Context, chatID, messageID, participant, emoji string) error {
	if emoji == "" {
		return errors.BadRequest("Reaction must not be empty", nil)
	}

	if err := uc.chatRepo.ToggleReaction(ctx, chatID, messageID, participant, emoji); err != nil {
		return err
	}

	uc.hub.Broadcast(ws.Event{
		Type:    ws.EventMessageReaction,
		ChatID:  chatID,
		Payload: map[string]string{"message_id": messageID, "reaction": emoji, "participant": participant},
	})
	return nil
}

// Messages returns the projected view of the chat. With markActive set the
// viewer is treated as actively watching: the latest message from the other
// side is marked seen and the viewer's unread counter resets.
func (uc *ChatUseCase) Messages(ctx context.Context, chatID, viewer string, markActive bool) ([]entity.ProjectedMessage, error) {
	projected, seenMarked, err := uc.chatRepo.Project(ctx, chatID, viewer, markActive)
	if err != nil {
		return nil, err
	}
	if seenMarked {
		uc.presenceRepo.ResetUnread(ctx, chatID, viewer)
	}
	return projected, nil
}

// ClearChat empties the chat's message sequence. Unread counters and
// presence have independent lifecycles and are left alone.
func (uc *ChatUseCase) ClearChat(ctx context.Context, chatID string) error {
	if err := uc.chatRepo.Clear(ctx, chatID); err != nil {
		return err
	}
	logger.Info("Chat cleared: chat=%s", chatID)

	uc.hub.Broadcast(ws.Event{Type: ws.EventChatCleared, ChatID: chatID})
	return nil
}
