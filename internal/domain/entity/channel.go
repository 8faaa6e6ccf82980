package entity

import "time"

const (
	ParticipantUser  = "user"
	ParticipantAgent = "agent"
)

// ChannelKey identifies one side of one chat. Sessions and presence are
// tracked per key, not per chat.
type ChannelKey struct {
	ChatID      string
	Participant string
}

// ValidParticipant reports whether id names one of the two fixed sides.
func ValidParticipant(id string) bool {
	return id == ParticipantUser || id == ParticipantAgent
}

// OtherParticipant returns the opposite side of the chat.
func OtherParticipant(id string) string {
	if id == ParticipantUser {
		return ParticipantAgent
	}
	return ParticipantUser
}

// TypingState is the single last-writer-wins typing slot of a chat.
type TypingState struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"-"`
}

// PresenceStatus is the unauthenticated presence view of a chat. Last-seen
// values are pre-formatted relative strings, empty when the side has never
// been active.
type PresenceStatus struct {
	UserOnline    bool   `json:"user_online"`
	AgentOnline   bool   `json:"agent_online"`
	UserLastSeen  string `json:"user_last_seen"`
	AgentLastSeen string `json:"agent_last_seen"`
}
