package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskchat/auth"
	"taskchat/models"
	"taskchat/store"
	"taskchat/workflows"
)

// ChatHandler handles the conversational endpoints.
type ChatHandler struct {
	workflows     *workflows.ChatWorkflows
	runner        workflows.TurnRunner
	conversations store.ConversationStore
}

// NewChatHandler creates a chat handler.
func NewChatHandler(wf *workflows.ChatWorkflows, runner workflows.TurnRunner, conversations store.ConversationStore) *ChatHandler {
	return &ChatHandler{
		workflows:     wf,
		runner:        runner,
		conversations: conversations,
	}
}

// HandleChat processes one chat turn for the authenticated user.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	userID := auth.UserID(c)

	conversation, err := h.workflows.ResolveConversation(c.Request.Context(), userID, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		case errors.Is(err, workflows.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to this conversation"})
		default:
			log.Printf("Failed to resolve conversation: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		}
		return
	}

	resp, err := h.runner.RunTurn(c.Request.Context(), workflows.TurnInput{
		UserID:         userID,
		ConversationID: conversation.ID,
		Message:        req.Message,
	})
	if err != nil {
		log.Printf("Chat turn failed for conversation %d: %v", conversation.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMessages returns the full ordered message history of a conversation the
// authenticated user owns.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}
	userID := auth.UserID(c)

	conversation, err := h.conversations.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to load conversation %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}
	if conversation.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to this conversation"})
		return
	}

	messages, err := h.conversations.Messages(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to load messages for conversation %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
