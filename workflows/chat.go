// Package workflows contains the chat turn orchestrator: one sequential unit
// of work that appends the user message, resolves intent, executes at most
// one authorized tool call, and appends the assistant reply. The turn runs
// either directly or as a DBOS durable workflow whose steps resume after a
// crash, so the user message is durably stored before the model is called.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"log"

	"taskchat/models"
	"taskchat/services"
	"taskchat/store"
	"taskchat/tools"
)

// historyWindow is how many recent messages are replayed to the resolver.
const historyWindow = 30

// defaultReply is returned when the resolver produces neither text nor a
// tool call.
const defaultReply = "Hello! How can I help with your tasks?"

// ErrForbidden is returned when a conversation belongs to another user.
var ErrForbidden = errors.New("conversation belongs to another user")

// TurnInput identifies one chat turn: the authenticated caller, the resolved
// conversation, and the raw message text.
type TurnInput struct {
	UserID         string
	ConversationID int64
	Message        string
}

// ChatWorkflows orchestrates chat turns over the injected collaborators.
type ChatWorkflows struct {
	conversations store.ConversationStore
	registry      *tools.Registry
	resolver      services.Resolver
}

// NewChatWorkflows creates the turn orchestrator.
func NewChatWorkflows(conversations store.ConversationStore, registry *tools.Registry, resolver services.Resolver) *ChatWorkflows {
	return &ChatWorkflows{
		conversations: conversations,
		registry:      registry,
		resolver:      resolver,
	}
}

// ResolveConversation loads the conversation for a turn, creating one when no
// id is supplied. A missing conversation is store.ErrNotFound and a
// conversation owned by someone else is ErrForbidden; both are request-level
// failures, unlike everything that happens inside the turn.
func (w *ChatWorkflows) ResolveConversation(ctx context.Context, userID string, conversationID int64) (models.Conversation, error) {
	if conversationID == 0 {
		return w.conversations.Create(ctx, userID)
	}
	conversation, err := w.conversations.Get(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if conversation.UserID != userID {
		return models.Conversation{}, ErrForbidden
	}
	return conversation, nil
}

// Turn runs one chat turn to completion. The sequence matches
// ChatTurnWorkflow step for step; this variant has no durability and exists
// for deployments without DBOS and for tests.
func (w *ChatWorkflows) Turn(ctx context.Context, input TurnInput) (models.ChatActionResponse, error) {
	userMsg, err := w.appendUserMessage(ctx, input)
	if err != nil {
		return models.ChatActionResponse{}, err
	}
	history, err := w.historyBefore(ctx, input.ConversationID, userMsg.ID)
	if err != nil {
		return models.ChatActionResponse{}, err
	}
	resolution := w.resolveIntent(ctx, history, input.Message)
	result := w.executeResolution(ctx, input.UserID, resolution)
	if err := w.recordAssistantReply(ctx, input.ConversationID, result.Message); err != nil {
		return models.ChatActionResponse{}, err
	}
	return envelope(input.ConversationID, result), nil
}

// appendUserMessage durably records the caller's message before anything
// else happens in the turn.
func (w *ChatWorkflows) appendUserMessage(ctx context.Context, input TurnInput) (models.Message, error) {
	return w.conversations.AppendMessage(ctx, input.ConversationID, models.RoleUser, input.Message)
}

// historyBefore reads the recent message window in order, excluding the
// message with the given id so the current turn is never replayed twice.
func (w *ChatWorkflows) historyBefore(ctx context.Context, conversationID, excludeID int64) ([]services.HistoryMessage, error) {
	messages, err := w.conversations.RecentMessages(ctx, conversationID, historyWindow)
	if err != nil {
		return nil, err
	}
	trimmed := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.ID == excludeID {
			continue
		}
		trimmed = append(trimmed, m)
	}
	return services.HistoryFromMessages(trimmed), nil
}

// resolveIntent asks the resolver for a verdict. Resolver failures are
// turn-level: they are logged for operators and degrade to an empty
// resolution, never to a request error.
func (w *ChatWorkflows) resolveIntent(ctx context.Context, history []services.HistoryMessage, message string) services.Resolution {
	resolution, err := w.resolver.Resolve(ctx, history, message)
	if err != nil {
		log.Printf("Intent resolution failed: %v", err)
		return services.Resolution{}
	}
	return resolution
}

// executeResolution turns the resolver verdict into a tool result. Only the
// first proposed call is honored; execution failures degrade to a "none"
// result with an explanatory message.
func (w *ChatWorkflows) executeResolution(ctx context.Context, userID string, resolution services.Resolution) tools.Result {
	if len(resolution.ToolCalls) == 0 {
		message := resolution.Text
		if message == "" {
			message = defaultReply
		}
		return tools.Result{Action: models.ActionNone, Message: message}
	}

	call := resolution.ToolCalls[0]
	result, err := w.registry.Execute(ctx, userID, call)
	if err == nil {
		return result
	}

	log.Printf("Tool %s failed for user %s: %v", call.Name, userID, err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return tools.Result{
			Action:  models.ActionNone,
			Message: "I couldn't find that task. Try listing your tasks to see their IDs.",
		}
	case errors.Is(err, tools.ErrInvalidArgs), errors.Is(err, tools.ErrUnknownTool):
		return tools.Result{
			Action:  models.ActionNone,
			Message: fmt.Sprintf("I couldn't carry out that request: %v.", err),
		}
	default:
		return tools.Result{
			Action:  models.ActionNone,
			Message: "Something went wrong while handling that request. Please try again.",
		}
	}
}

// recordAssistantReply appends the assistant message exactly as returned to
// the user, so replayed history matches what the user saw, and touches the
// conversation.
func (w *ChatWorkflows) recordAssistantReply(ctx context.Context, conversationID int64, message string) error {
	if _, err := w.conversations.AppendMessage(ctx, conversationID, models.RoleAssistant, message); err != nil {
		return err
	}
	return w.conversations.Touch(ctx, conversationID)
}

func envelope(conversationID int64, result tools.Result) models.ChatActionResponse {
	resp := models.ChatActionResponse{
		Action:         result.Action,
		Message:        result.Message,
		ConversationID: conversationID,
	}
	// the envelope never carries a snapshot for none or list actions
	if result.Action != models.ActionNone && result.Action != models.ActionList {
		resp.Task = result.Task
	}
	return resp
}
