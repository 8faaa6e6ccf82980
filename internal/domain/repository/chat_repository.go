package repository

import (
	"context"

	"livechat/internal/domain/entity"
)

// ChatRepository owns the ordered message sequence of every chat. All
// mutations of a single chat are serialized by the implementation; callers
// are expected to have authorized the actor already.
type ChatRepository interface {
	// Append adds a fully-populated message to its chat, validating that a
	// reply target, when set, resolves within the same chat.
	Append(ctx context.Context, msg *entity.Message) error

	// Edit replaces the text of a live text message owned by editor and flags
	// it as edited. Tombstoned messages are terminal and edit like absent
	// ones; image messages cannot be edited. Returns a detached copy safe to
	// read outside the chat's lock.
	Edit(ctx context.Context, chatID, messageID, editor, text string) (*entity.Message, error)

	// Delete tombstones a live message owned by requester: content and
	// reactions are cleared, id/sender/timestamps survive.
	Delete(ctx context.Context, chatID, messageID, requester string) error

	// ToggleReaction flips participant's membership in the emoji's reaction
	// set, pruning the emoji when its set empties.
	ToggleReaction(ctx context.Context, chatID, messageID, participant, emoji string) error

	// Project builds the read view of a chat. When markSeen is set and the
	// last message was sent by the other side and has no prior viewer, it is
	// marked seen by viewer; the returned bool reports that transition.
	Project(ctx context.Context, chatID, viewer string, markSeen bool) ([]entity.ProjectedMessage, bool, error)

	// Clear replaces the chat's sequence with an empty one.
	Clear(ctx context.Context, chatID string) error
}
