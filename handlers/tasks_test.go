package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/models"
)

func TestTasks_CreateAndList(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	rec := s.request(t, http.MethodPost, "/api/tasks", token, models.TaskCreateRequest{
		Title:       "Buy milk",
		Description: "2 liters",
	})
	requireStatus(t, rec, http.StatusCreated)
	created := decode[models.Task](t, rec)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "user-1", created.UserID)

	rec = s.request(t, http.MethodGet, "/api/tasks", token, nil)
	requireStatus(t, rec, http.StatusOK)
	tasks := decode[[]models.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestTasks_GetByID(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")
	otherToken := s.tokenFor(t, "user-2")

	created := decode[models.Task](t, s.request(t, http.MethodPost, "/api/tasks", token,
		models.TaskCreateRequest{Title: "Buy milk", Description: "2 liters"}))

	rec := s.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	requireStatus(t, rec, http.StatusOK)
	got := decode[models.Task](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 liters", got.Description)

	// another user's id behaves like a missing task
	rec = s.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), otherToken, nil)
	requireStatus(t, rec, http.StatusNotFound)

	rec = s.request(t, http.MethodGet, "/api/tasks/not-a-number", token, nil)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestTasks_StatusFilter(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	open := decode[models.Task](t, s.request(t, http.MethodPost, "/api/tasks", token,
		models.TaskCreateRequest{Title: "open"}))
	done := decode[models.Task](t, s.request(t, http.MethodPost, "/api/tasks", token,
		models.TaskCreateRequest{Title: "done"}))

	completed := true
	rec := s.request(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", done.ID),
		token, models.TaskPatchRequest{Completed: &completed})
	requireStatus(t, rec, http.StatusOK)

	pending := decode[[]models.Task](t, s.request(t, http.MethodGet, "/api/tasks?status=pending", token, nil))
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)

	finished := decode[[]models.Task](t, s.request(t, http.MethodGet, "/api/tasks?status=completed", token, nil))
	require.Len(t, finished, 1)
	assert.Equal(t, done.ID, finished[0].ID)

	rec = s.request(t, http.MethodGet, "/api/tasks?status=overdue", token, nil)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestTasks_Update(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")

	created := decode[models.Task](t, s.request(t, http.MethodPost, "/api/tasks", token,
		models.TaskCreateRequest{Title: "draft", Description: "v1"}))

	title := "final"
	rec := s.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID),
		token, models.TaskUpdateRequest{Title: &title})
	requireStatus(t, rec, http.StatusOK)
	updated := decode[models.Task](t, rec)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "v1", updated.Description)
}

func TestTasks_DeleteAndOwnership(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "user-1")
	otherToken := s.tokenFor(t, "user-2")

	created := decode[models.Task](t, s.request(t, http.MethodPost, "/api/tasks", token,
		models.TaskCreateRequest{Title: "mine"}))

	// another user's id behaves like a missing task
	rec := s.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), otherToken, nil)
	requireStatus(t, rec, http.StatusNotFound)

	rec = s.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	requireStatus(t, rec, http.StatusNoContent)

	rec = s.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	requireStatus(t, rec, http.StatusNotFound)
}
