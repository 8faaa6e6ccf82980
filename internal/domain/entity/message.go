package entity

import "time"

const (
	MessageKindText    = "text"
	MessageKindImage   = "image"
	MessageKindDeleted = "deleted"

	// DeletedMessageText replaces the body of a tombstoned message in
	// projections; DeletedReplyPreview replaces the preview text of replies
	// whose target has been tombstoned.
	DeletedMessageText  = "This message was deleted"
	DeletedReplyPreview = "Original message was deleted"

	// ImagePreviewText stands in for the body of an image message when it is
	// quoted in a reply preview.
	ImagePreviewText = "Photo"
)

// Message is the stored representation of a chat message. Reactions map an
// emoji to the participants who currently have it applied; empty sets are
// pruned on removal so the map never holds a dead key.
type Message struct {
	ID        string              `json:"id"`
	ChatID    string              `json:"chat_id"`
	Sender    string              `json:"sender"`
	Kind      string              `json:"type"`
	Text      string              `json:"text,omitempty"`
	URL       string              `json:"url,omitempty"`
	ReplyTo   string              `json:"reply_to,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
	SeenBy    string              `json:"seen_by,omitempty"`
	Edited    bool                `json:"edited,omitempty"`
	EditedAt  time.Time           `json:"edited_at,omitempty"`
	Deleted   bool                `json:"deleted,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Clone returns a detached copy of the message. The reaction sets are copied
// too, so the clone can be read outside the chat's lock while the stored
// message keeps mutating.
func (m *Message) Clone() *Message {
	clone := *m
	if m.Reactions != nil {
		clone.Reactions = make(map[string][]string, len(m.Reactions))
		for emoji, members := range m.Reactions {
			clone.Reactions[emoji] = append([]string(nil), members...)
		}
	}
	return &clone
}

// ReactionGroup is the projected form of one emoji's reactions.
type ReactionGroup struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ReplyPreview is the small quoted view attached to a message that replies
// to another one in the same chat.
type ReplyPreview struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ProjectedMessage is the read-only view served to clients: deleted content
// is masked, reactions are grouped and counted, and replies carry a resolved
// preview of their target.
type ProjectedMessage struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Kind      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	URL       string          `json:"url,omitempty"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	Reply     *ReplyPreview   `json:"reply,omitempty"`
	Reactions []ReactionGroup `json:"reactions,omitempty"`
	SeenBy    string          `json:"seen_by,omitempty"`
	Edited    bool            `json:"edited,omitempty"`
	EditedAt  time.Time       `json:"edited_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
