// Package services contains the intent resolver strategies for the chat
// dispatcher: the OpenAI-backed remote resolver, the deterministic local
// fallback, and the failover wrapper that substitutes the fallback when the
// remote provider is unavailable.
package services

import (
	"context"

	"taskchat/models"
	"taskchat/tools"
)

// HistoryMessage is one prior turn half handed to a resolver for context.
type HistoryMessage struct {
	Role    string
	Content string
}

// Resolution is a resolver's verdict on one user message: a free-text reply,
// zero or more proposed tool calls, or both. When several calls are proposed
// only the first is ever executed.
type Resolution struct {
	Text      string
	ToolCalls []tools.Call
}

// Resolver maps chat history plus the current message to a Resolution.
// History excludes the current message; implementations must not assume the
// latest turn appears in both.
type Resolver interface {
	Resolve(ctx context.Context, history []HistoryMessage, message string) (Resolution, error)
}

// HistoryFromMessages converts stored messages to resolver history.
func HistoryFromMessages(messages []models.Message) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, HistoryMessage{Role: m.Role, Content: m.Content})
	}
	return history
}
