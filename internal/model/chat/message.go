package chat

import "time"

// Sender roles for a chat turn.
const (
	SenderUser      = "user"
	SenderTherapist = "therapist"
)

// Message is a single transcript turn. Ordering is significant: the full
// ordered transcript is replayed verbatim as context on every chat reply.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
