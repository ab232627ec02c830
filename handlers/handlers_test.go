package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taskchat/auth"
	"taskchat/models"
	"taskchat/services"
	"taskchat/store"
	"taskchat/tools"
	"taskchat/workflows"
)

// testServer wires the real router with in-memory stores, the local fallback
// resolver and the direct (non-durable) turn runner.
type testServer struct {
	router        *gin.Engine
	tokens        *auth.Tokens
	tasks         *store.MemoryTaskStore
	users         *store.MemoryUserStore
	conversations *store.MemoryConversationStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tasks := store.NewMemoryTaskStore()
	users := store.NewMemoryUserStore()
	conversations := store.NewMemoryConversationStore()

	registry := tools.NewRegistry(tasks, users)
	wf := workflows.NewChatWorkflows(conversations, registry, services.NewFallbackResolver())
	runner := &workflows.DirectRunner{Workflows: wf}
	tokens := auth.NewTokens("test-secret")

	authHandler := NewAuthHandler(users, tokens)
	taskHandler := NewTaskHandler(tasks)
	chatHandler := NewChatHandler(wf, runner, conversations)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	authed := api.Group("", auth.Middleware(tokens))
	authed.GET("/auth/token", authHandler.Token)
	authed.GET("/tasks", taskHandler.ListTasks)
	authed.GET("/tasks/:id", taskHandler.GetTask)
	authed.POST("/tasks", taskHandler.CreateTask)
	authed.PUT("/tasks/:id", taskHandler.UpdateTask)
	authed.PATCH("/tasks/:id", taskHandler.PatchTask)
	authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
	authed.POST("/chat", chatHandler.HandleChat)
	authed.GET("/conversations/:id/messages", chatHandler.GetMessages)

	return &testServer{
		router:        router,
		tokens:        tokens,
		tasks:         tasks,
		users:         users,
		conversations: conversations,
	}
}

// tokenFor registers a user record and returns a bearer token for it.
func (s *testServer) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	email := userID + "@example.com"
	err := s.users.Create(context.Background(), models.User{
		ID:        userID,
		Email:     email,
		Name:      userID,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	token, err := s.tokens.Issue(userID, email)
	require.NoError(t, err)
	return token
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
