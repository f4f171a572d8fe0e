package chat

import "time"

// Session captures one anonymous support conversation. State lives for the
// session only and is discarded with the process.
type Session struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	CreatedAt time.Time `json:"createdAt"`
}
