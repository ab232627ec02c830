package models

// ChatRequest is the request body for the chat endpoint
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

// Action tags the kind of task operation a chat turn performed. The set is
// closed; a tag outside it is a programming error, not data.
type Action string

const (
	ActionAdd      Action = "add"
	ActionDelete   Action = "delete"
	ActionUpdate   Action = "update"
	ActionComplete Action = "complete"
	ActionList     Action = "list"
	ActionNone     Action = "none"
)

// TaskData is the task snapshot embedded in a chat response. ID is a string
// so it may be empty for tasks whose id is not known to the caller yet.
type TaskData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ChatActionResponse is the normalized envelope returned for every chat turn.
// Task is nil whenever Action is "none" or "list".
type ChatActionResponse struct {
	Action         Action    `json:"action"`
	Task           *TaskData `json:"task,omitempty"`
	Message        string    `json:"message"`
	ConversationID int64     `json:"conversation_id"`
}

// TaskCreateRequest is the request body for creating a task
type TaskCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// TaskUpdateRequest is the request body for updating a task; nil fields are
// left unchanged.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskPatchRequest toggles a task's completion flag
type TaskPatchRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the authenticated user and a bearer token
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
