package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/models"
)

func TestChat_RequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(t, http.MethodPost, "/api/chat", "", models.ChatRequest{Message: "hello"})
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestChat_GreetingTurn(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	rec := s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{Message: "Hello"})
	requireStatus(t, rec, http.StatusOK)

	resp := decode[models.ChatActionResponse](t, rec)
	assert.Equal(t, models.ActionNone, resp.Action)
	assert.Nil(t, resp.Task)
	assert.NotEmpty(t, resp.Message)
	assert.Positive(t, resp.ConversationID)
}

func TestChat_AddTaskTurn(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	rec := s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{
		Message: "Add a task to clean my room",
	})
	requireStatus(t, rec, http.StatusOK)

	resp := decode[models.ChatActionResponse](t, rec)
	assert.Equal(t, models.ActionAdd, resp.Action)
	require.NotNil(t, resp.Task)
	assert.Equal(t, "Clean my room", resp.Task.Title)
}

func TestChat_ConversationNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	rec := s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{
		Message:        "hello",
		ConversationID: 999,
	})
	requireStatus(t, rec, http.StatusNotFound)
}

func TestChat_ConversationForbidden(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")
	conversation, err := s.conversations.Create(context.Background(), "someone-else")
	require.NoError(t, err)

	rec := s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{
		Message:        "hello",
		ConversationID: conversation.ID,
	})
	requireStatus(t, rec, http.StatusForbidden)
}

func TestChat_TurnAppendsTwoMessages(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	first := decode[models.ChatActionResponse](t,
		s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{Message: "Hello"}))

	before := decode[[]models.Message](t,
		s.request(t, http.MethodGet, conversationPath(first.ConversationID), token, nil))

	second := decode[models.ChatActionResponse](t,
		s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{
			Message:        "Show my tasks",
			ConversationID: first.ConversationID,
		}))
	assert.Equal(t, first.ConversationID, second.ConversationID)

	after := decode[[]models.Message](t,
		s.request(t, http.MethodGet, conversationPath(first.ConversationID), token, nil))
	require.Len(t, after, len(before)+2)
	assert.Equal(t, models.RoleUser, after[len(after)-2].Role)
	assert.Equal(t, "Show my tasks", after[len(after)-2].Content)
	assert.Equal(t, models.RoleAssistant, after[len(after)-1].Role)
	assert.Equal(t, second.Message, after[len(after)-1].Content)
}

func TestMessages_IdempotentRead(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	resp := decode[models.ChatActionResponse](t,
		s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{Message: "Hello"}))

	first := s.request(t, http.MethodGet, conversationPath(resp.ConversationID), token, nil)
	second := s.request(t, http.MethodGet, conversationPath(resp.ConversationID), token, nil)
	requireStatus(t, first, http.StatusOK)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestMessages_OwnershipEnforced(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")
	otherToken := s.tokenFor(t, "user-2")

	resp := decode[models.ChatActionResponse](t,
		s.request(t, http.MethodPost, "/api/chat", token, models.ChatRequest{Message: "Hello"}))

	rec := s.request(t, http.MethodGet, conversationPath(resp.ConversationID), otherToken, nil)
	requireStatus(t, rec, http.StatusForbidden)

	rec = s.request(t, http.MethodGet, "/api/conversations/424242/messages", token, nil)
	requireStatus(t, rec, http.StatusNotFound)
}

func conversationPath(id int64) string {
	return fmt.Sprintf("/api/conversations/%d/messages", id)
}
