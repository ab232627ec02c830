package models

import (
	"time"
	"unicode/utf8"
)

// Task represents a user's to-do item
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Conversation represents a chat conversation owned by a single user
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxMessageLength bounds the stored content of a single message, in bytes.
const MaxMessageLength = 10000

// TruncateMessage bounds content to MaxMessageLength bytes. The cut never
// splits a multi-byte rune, so the result is always valid UTF-8 and safe to
// store in a TEXT column.
func TruncateMessage(content string) string {
	if len(content) <= MaxMessageLength {
		return content
	}
	cut := MaxMessageLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// Message represents one half of a chat turn. Seq is a per-conversation
// counter assigned transactionally on append; history ordering follows it,
// never the wall clock.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Seq            int64     `json:"-"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"timestamp"`
}
