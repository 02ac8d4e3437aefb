package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session represents a chat session
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents a chat message. Append-only; never mutated after
// creation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Source represents a citation source returned with a chat answer
type Source struct {
	Filename     string  `json:"filename"`
	DocumentType string  `json:"document_type"`
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResult is the outcome of one chat turn
type ChatResult struct {
	Response   string   `json:"response"`
	SessionID  string   `json:"session_id"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// SessionCreateRequest is the request to create a chat session
type SessionCreateRequest struct {
	Title string `json:"title"`
}

// SessionSummary is a compact session listing entry
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
