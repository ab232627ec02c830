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
)

// TaskHandler handles the task CRUD endpoints.
type TaskHandler struct {
	tasks store.TaskStore
}

// NewTaskHandler creates a task handler.
func NewTaskHandler(tasks store.TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks returns the caller's tasks, optionally filtered by status and
// sorted by created time or title.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	status := c.DefaultQuery("status", store.StatusAll)
	switch status {
	case store.StatusAll, store.StatusPending, store.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be all, pending or completed"})
		return
	}
	sort := c.Query("sort")
	switch sort {
	case "", "created", "title":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be created or title"})
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), auth.UserID(c), status, sort)
	if err != nil {
		log.Printf("Failed to list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask returns a single task the caller owns.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), auth.UserID(c), id)
	if h.respondTaskError(c, err) {
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a task owned by the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), auth.UserID(c), req.Title, req.Description)
	if err != nil {
		log.Printf("Failed to create task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies the provided fields to a task the caller owns.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), auth.UserID(c), id, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if h.respondTaskError(c, err) {
		return
	}
	c.JSON(http.StatusOK, task)
}

// PatchTask toggles a task's completion flag.
func (h *TaskHandler) PatchTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.TaskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed is required"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), auth.UserID(c), id, store.TaskUpdate{
		Completed: req.Completed,
	})
	if h.respondTaskError(c, err) {
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task the caller owns.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := h.tasks.Delete(c.Request.Context(), auth.UserID(c), id)
	if h.respondTaskError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return id, true
}

// respondTaskError writes the response for a store error and reports whether
// one was written.
func (h *TaskHandler) respondTaskError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return true
	}
	log.Printf("Task operation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Task operation failed"})
	return true
}
