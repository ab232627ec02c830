// Package store owns persistence for tasks, users, conversations and
// messages. Interfaces are consumed by the handlers and the chat workflow;
// the Postgres implementations live alongside them.
package store

import (
	"context"
	"errors"

	"taskchat/models"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// Task status filters
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TaskUpdate lists the fields an update may change; nil fields are kept.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskStore persists tasks. Every operation is scoped to the owning user:
// a task that belongs to someone else behaves exactly like a missing one.
type TaskStore interface {
	Create(ctx context.Context, userID, title, description string) (models.Task, error)
	List(ctx context.Context, userID, status, sort string) ([]models.Task, error)
	Get(ctx context.Context, userID string, id int64) (models.Task, error)
	Update(ctx context.Context, userID string, id int64, upd TaskUpdate) (models.Task, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// ConversationStore persists conversations and their append-only message
// logs. AppendMessage must serialize appends within one conversation so the
// stored order always matches commit order.
type ConversationStore interface {
	Create(ctx context.Context, userID string) (models.Conversation, error)
	Get(ctx context.Context, id int64) (models.Conversation, error)
	Touch(ctx context.Context, id int64) error
	AppendMessage(ctx context.Context, conversationID int64, role, content string) (models.Message, error)
	RecentMessages(ctx context.Context, conversationID int64, limit int) ([]models.Message, error)
	Messages(ctx context.Context, conversationID int64) ([]models.Message, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}
