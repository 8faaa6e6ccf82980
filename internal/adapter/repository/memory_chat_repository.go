package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
	"livechat/pkg/errors"
)

// memoryChatRepository keeps every chat's message sequence in process
// memory. Mutations and reads of the same chat are serialized through a
// per-chat mutex; different chats never contend.
type memoryChatRepository struct {
	mu    sync.Mutex
	chats map[string][]*entity.Message
	locks map[string]*sync.Mutex
	now   func() time.Time
}

func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{
		chats: make(map[string][]*entity.Message),
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

// chatLock returns the mutex for the given chat, creating it on first use.
func (r *memoryChatRepository) chatLock(chatID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[chatID]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.locks[chatID] = l
	return l
}

// messages snapshots the chat's slice header. The caller must hold the
// chat's lock, which keeps the slice contents stable; r.mu only guards the
// map itself against concurrent growth from other chats.
func (r *memoryChatRepository) messages(chatID string) []*entity.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chats[chatID]
}

func (r *memoryChatRepository) find(chatID, messageID string) *entity.Message {
	for _, msg := range r.messages(chatID) {
		if msg.ID == messageID {
			return msg
		}
	}
	return nil
}

func (r *memoryChatRepository) Append(ctx context.Context, msg *entity.Message) error {
	lock := r.chatLock(msg.ChatID)
	lock.Lock()
	defer lock.Unlock()

	if msg.ReplyTo != "" && r.find(msg.ChatID, msg.ReplyTo) == nil {
		return errors.BadRequest("Reply target does not exist in this chat", nil)
	}

	r.mu.Lock()
	r.chats[msg.ChatID] = append(r.chats[msg.ChatID], msg)
	r.mu.Unlock()
	return nil
}

func (r *memoryChatRepository) Edit(ctx context.Context, chatID, messageID, editor, text string) (*entity.Message, error) {
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	msg := r.find(chatID, messageID)
	if msg == nil || msg.Deleted {
		return nil, errors.NotFound("Message", nil)
	}
	if msg.Sender != editor {
		return nil, errors.Forbidden("Only the sender can edit a message", nil)
	}
	// An image message carries its url as the sole payload; giving it text
	// would leave it with both.
	if msg.Kind == entity.MessageKindImage {
		return nil, errors.BadRequest("Only text messages can be edited", nil)
	}

	msg.Text = text
	msg.Edited = true
	msg.EditedAt = r.now()

	// Return a snapshot: the stored message keeps mutating under this chat's
	// lock after we release it.
	return msg.Clone(), nil
}

func (r *memoryChatRepository) Delete(ctx context.Context, chatID, messageID, requester string) error {
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	msg := r.find(chatID, messageID)
	if msg == nil || msg.Deleted {
		return errors.NotFound("Message", nil)
	}
	if msg.Sender != requester {
		return errors.Forbidden("Only the sender can delete a message", nil)
	}

	// Tombstone: the id, sender and timestamps stay so replies and ordering
	// keep resolving; the content does not.
	msg.Deleted = true
	msg.Text = ""
	msg.URL = ""
	msg.Reactions = nil
	return nil
}

func (r *memoryChatRepository) ToggleReaction(ctx context.Context, chatID, messageID, participant, emoji string) error {
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	msg := r.find(chatID, messageID)
	if msg == nil || msg.Deleted {
		return errors.NotFound("Message", nil)
	}

	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}

	members := msg.Reactions[emoji]
	for i, id := range members {
		if id == participant {
			members = append(members[:i], members[i+1:]...)
			if len(members) == 0 {
				delete(msg.Reactions, emoji)
			} else {
				msg.Reactions[emoji] = members
			}
			return nil
		}
	}
	msg.Reactions[emoji] = append(members, participant)
	return nil
}

func (r *memoryChatRepository) Project(ctx context.Context, chatID, viewer string, markSeen bool) ([]entity.ProjectedMessage, bool, error) {
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	msgs := r.messages(chatID)

	seenMarked := false
	if markSeen && len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		if last.Sender != viewer && last.SeenBy == "" {
			last.SeenBy = viewer
			seenMarked = true
		}
	}

	index := make(map[string]*entity.Message, len(msgs))
	for _, msg := range msgs {
		index[msg.ID] = msg
	}

	projected := make([]entity.ProjectedMessage, 0, len(msgs))
	for _, msg := range msgs {
		projected = append(projected, projectMessage(msg, index))
	}
	return projected, seenMarked, nil
}

func (r *memoryChatRepository) Clear(ctx context.Context, chatID string) error {
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	r.chats[chatID] = nil
	r.mu.Unlock()
	return nil
}

func projectMessage(msg *entity.Message, index map[string]*entity.Message) entity.ProjectedMessage {
	p := entity.ProjectedMessage{
		ID:        msg.ID,
		Sender:    msg.Sender,
		SeenBy:    msg.SeenBy,
		CreatedAt: msg.CreatedAt,
	}

	if msg.Deleted {
		p.Kind = entity.MessageKindDeleted
		p.Text = entity.DeletedMessageText
		return p
	}

	p.Kind = msg.Kind
	p.Text = msg.Text
	p.URL = msg.URL
	p.Edited = msg.Edited
	p.EditedAt = msg.EditedAt
	p.ReplyTo = msg.ReplyTo
	p.Reactions = projectReactions(msg.Reactions)

	if msg.ReplyTo != "" {
		if target, ok := index[msg.ReplyTo]; ok {
			p.Reply = replyPreview(target)
		}
		// An unresolvable target (cleared away) projects no preview.
	}
	return p
}

func projectReactions(reactions map[string][]string) []entity.ReactionGroup {
	if len(reactions) == 0 {
		return nil
	}
	emojis := make([]string, 0, len(reactions))
	for emoji := range reactions {
		emojis = append(emojis, emoji)
	}
	sort.Strings(emojis)

	groups := make([]entity.ReactionGroup, 0, len(emojis))
	for _, emoji := range emojis {
		groups = append(groups, entity.ReactionGroup{Emoji: emoji, Count: len(reactions[emoji])})
	}
	return groups
}

func replyPreview(target *entity.Message) *entity.ReplyPreview {
	preview := &entity.ReplyPreview{Sender: target.Sender}
	switch {
	case target.Deleted:
		preview.Text = entity.DeletedReplyPreview
	case target.Kind == entity.MessageKindImage:
		preview.Text = entity.ImagePreviewText
	default:
		preview.Text = target.Text
	}
	return preview
}
