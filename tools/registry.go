// Package tools declares the closed set of task operations the chat
// dispatcher may execute, validates and authorizes proposed invocations, and
// runs them against the stores. The subject user id of every invocation is
// forced to the authenticated caller before execution; whatever a resolver
// proposed for that field is discarded.
package tools

import (
	"context"
	"errors"
	"fmt"

	"taskchat/models"
	"taskchat/store"
)

// Name identifies one of the permitted tools.
type Name string

const (
	AddTask      Name = "add_task"
	ListTasks    Name = "list_tasks"
	CompleteTask Name = "complete_task"
	DeleteTask   Name = "delete_task"
	EditTask     Name = "edit_task"
	GetUserInfo  Name = "get_user_info"
)

// Call is a proposed tool invocation: a tool name and its raw argument bag
// as produced by a resolver. Args may contain a user_id; it is never trusted.
type Call struct {
	Name Name
	Args map[string]any
}

// Result is the outcome of an executed tool: the action tag for the response
// envelope, an optional task snapshot, and a user-facing message.
type Result struct {
	Action  models.Action
	Task    *models.TaskData
	Message string
}

// ErrInvalidArgs is returned when a proposed argument bag fails validation.
var ErrInvalidArgs = errors.New("invalid tool arguments")

// ErrUnknownTool is returned for tool names outside the registry.
var ErrUnknownTool = errors.New("unknown tool")

// Registry validates, authorizes and executes tool calls.
type Registry struct {
	tasks store.TaskStore
	users store.UserStore
}

// NewRegistry creates a registry over the given stores.
func NewRegistry(tasks store.TaskStore, users store.UserStore) *Registry {
	return &Registry{tasks: tasks, users: users}
}

// Execute validates the call's arguments, forces the subject user id to
// userID, and runs the tool. Callers translate the returned errors into
// degraded chat replies; nothing here is a request-level failure.
func (r *Registry) Execute(ctx context.Context, userID string, call Call) (Result, error) {
	// Authorization override: the resolver-proposed subject is discarded and
	// every store call below is scoped to the authenticated caller.
	delete(call.Args, "user_id")

	switch call.Name {
	case AddTask:
		return r.addTask(ctx, userID, call.Args)
	case ListTasks:
		return r.listTasks(ctx, userID, call.Args)
	case CompleteTask:
		return r.completeTask(ctx, userID, call.Args)
	case DeleteTask:
		return r.deleteTask(ctx, userID, call.Args)
	case EditTask:
		return r.editTask(ctx, userID, call.Args)
	case GetUserInfo:
		return r.getUserInfo(ctx, userID)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
}

func (r *Registry) addTask(ctx context.Context, userID string, args map[string]any) (Result, error) {
	title, ok := stringArg(args, "title")
	if !ok || title == "" {
		return Result{}, fmt.Errorf("%w: add_task requires a non-empty title", ErrInvalidArgs)
	}
	description, _ := stringArg(args, "description")

	task, err := r.tasks.Create(ctx, userID, title, description)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Action:  models.ActionAdd,
		Task:    snapshot(task),
		Message: fmt.Sprintf("Added '%s' to your task list.", task.Title),
	}, nil
}

func (r *Registry) listTasks(ctx context.Context, userID string, args map[string]any) (Result, error) {
	status, ok := stringArg(args, "status")
	if !ok || status == "" {
		status = store.StatusAll
	}
	switch status {
	case store.StatusAll, store.StatusPending, store.StatusCompleted:
	default:
		return Result{}, fmt.Errorf("%w: status must be all, pending or completed", ErrInvalidArgs)
	}

	tasks, err := r.tasks.List(ctx, userID, status, "")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Action:  models.ActionList,
		Message: fmt.Sprintf("Found %d tasks", len(tasks)),
	}, nil
}

func (r *Registry) completeTask(ctx context.Context, userID string, args map[string]any) (Result, error) {
	taskID, ok := intArg(args, "task_id")
	if !ok {
		return Result{}, fmt.Errorf("%w: complete_task requires a task_id", ErrInvalidArgs)
	}

	completed := true
	task, err := r.tasks.Update(ctx, userID, taskID, store.TaskUpdate{Completed: &completed})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Action:  models.ActionComplete,
		Task:    snapshot(task),
		Message: fmt.Sprintf("Marked '%s' as completed.", task.Title),
	}, nil
}

func (r *Registry) deleteTask(ctx context.Context, userID string, args map[string]any) (Result, error) {
	taskID, ok := intArg(args, "task_id")
	if !ok {
		return Result{}, fmt.Errorf("%w: delete_task requires a task_id", ErrInvalidArgs)
	}

	task, err := r.tasks.Get(ctx, userID, taskID)
	if err != nil {
		return Result{}, err
	}
	if err := r.tasks.Delete(ctx, userID, taskID); err != nil {
		return Result{}, err
	}
	return Result{
		Action:  models.ActionDelete,
		Task:    snapshot(task),
		Message: fmt.Sprintf("Removed '%s' from your task list.", task.Title),
	}, nil
}

func (r *Registry) editTask(ctx context.Context, userID string, args map[string]any) (Result, error) {
	taskID, ok := intArg(args, "task_id")
	if !ok {
		return Result{}, fmt.Errorf("%w: edit_task requires a task_id", ErrInvalidArgs)
	}

	var upd store.TaskUpdate
	if title, ok := stringArg(args, "title"); ok {
		upd.Title = &title
	}
	if description, ok := stringArg(args, "description"); ok {
		upd.Description = &description
	}
	if completed, ok := boolArg(args, "completed"); ok {
		upd.Completed = &completed
	}

	task, err := r.tasks.Update(ctx, userID, taskID, upd)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Action:  models.ActionUpdate,
		Task:    snapshot(task),
		Message: fmt.Sprintf("Updated '%s'.", task.Title),
	}, nil
}

func (r *Registry) getUserInfo(ctx context.Context, userID string) (Result, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	name := user.Name
	if name == "" {
		name = "Unknown"
	}
	return Result{
		Action:  models.ActionNone,
		Message: fmt.Sprintf("User info: %s (%s)", name, user.Email),
	}, nil
}

func snapshot(task models.Task) *models.TaskData {
	return &models.TaskData{
		ID:          fmt.Sprintf("%d", task.ID),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	}
}
