package domain

import "time"

// ChatMessage is one completed question/answer exchange within a session.
type ChatMessage struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the conversational context for one recipe discussion.
// Ingredients and recipe are fixed at creation; messages are append-only
// and their order defines the conversational context window.
type Session struct {
	ID           string        `json:"session_id"`
	Ingredients  []string      `json:"ingredients"`
	Recipe       string        `json:"recipe"`
	Messages     []ChatMessage `json:"messages"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
}

// SessionStats summarizes the live session population for the health endpoint.
type SessionStats struct {
	ActiveSessions int `json:"active_sessions"`
	TotalMessages  int `json:"total_messages"`
}

// SessionStore defines the interface for session storage. Reads return
// snapshots; all mutation goes through the store's own methods.
type SessionStore interface {
	Create(ingredients []string, recipe string) string
	Get(id string) (Session, bool)
	Touch(id string)
	AppendMessage(id, question, answer string)
	Delete(id string) bool
	Stats() SessionStats
}
