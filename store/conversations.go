package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskchat/models"
)

// PostgresConversationStore implements ConversationStore on top of a *sql.DB.
type PostgresConversationStore struct {
	db *sql.DB
}

// NewPostgresConversationStore creates a conversation store backed by Postgres.
func NewPostgresConversationStore(db *sql.DB) *PostgresConversationStore {
	return &PostgresConversationStore{db: db}
}

const conversationColumns = "id, user_id, title, created_at, updated_at"

func (s *PostgresConversationStore) Create(ctx context.Context, userID string) (models.Conversation, error) {
	var c models.Conversation
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO conversations (user_id) VALUES ($1) RETURNING "+conversationColumns,
		userID).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return c, nil
}

func (s *PostgresConversationStore) Get(ctx context.Context, id int64) (models.Conversation, error) {
	var c models.Conversation
	err := s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = $1",
		id).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrNotFound
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (s *PostgresConversationStore) Touch(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// AppendMessage appends one message inside a transaction that locks the
// conversation row. Two concurrent turns on the same conversation therefore
// commit their messages with strictly increasing seq values, so replayed
// history can never interleave out of commit order.
func (s *PostgresConversationStore) AppendMessage(ctx context.Context, conversationID int64, role, content string) (models.Message, error) {
	content = models.TruncateMessage(content)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Message{}, fmt.Errorf("append message: %w", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM conversations WHERE id = $1 FOR UPDATE", conversationID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrNotFound
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("lock conversation: %w", err)
	}

	msg := models.Message{ConversationID: conversationID, Role: role, Content: content}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO messages (conversation_id, seq, role, content)
		VALUES ($1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = $1), $2, $3)
		RETURNING id, seq, created_at`,
		conversationID, role, content).Scan(&msg.ID, &msg.Seq, &msg.CreatedAt)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// RecentMessages returns the last limit messages in ascending order.
func (s *PostgresConversationStore) RecentMessages(ctx context.Context, conversationID int64, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, seq, role, content, created_at FROM (
			SELECT id, conversation_id, seq, role, content, created_at
			FROM messages WHERE conversation_id = $1
			ORDER BY seq DESC LIMIT $2
		) recent ORDER BY seq ASC`,
		conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// Messages returns the full ordered log for a conversation.
func (s *PostgresConversationStore) Messages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, seq, role, content, created_at
		FROM messages WHERE conversation_id = $1 ORDER BY seq ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Seq, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
