package tools

// Definition describes one tool to the remote model: its name, what it does,
// and a JSON schema for its parameters. The user_id parameter is advertised
// so the model produces well-formed calls, but its value is always replaced
// by the authenticated caller's id before execution.
type Definition struct {
	Name        Name
	Description string
	Parameters  map[string]any
}

// Definitions returns the fixed tool table.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        AddTask,
			Description: "Add a new task for the user",
			Parameters: schema(map[string]any{
				"user_id":     prop("string", "The ID of the user who owns the task"),
				"title":       prop("string", "The title of the task"),
				"description": prop("string", "An optional description of the task"),
			}, "user_id", "title"),
		},
		{
			Name:        ListTasks,
			Description: "List tasks for the user",
			Parameters: schema(map[string]any{
				"user_id": prop("string", "The ID of the user whose tasks to list"),
				"status": map[string]any{
					"type":        "string",
					"description": "Filter tasks by status",
					"enum":        []string{"all", "pending", "completed"},
				},
			}, "user_id"),
		},
		{
			Name:        CompleteTask,
			Description: "Mark a task as completed",
			Parameters: schema(map[string]any{
				"user_id": prop("string", "The ID of the user who owns the task"),
				"task_id": prop("integer", "The ID of the task to complete"),
			}, "user_id", "task_id"),
		},
		{
			Name:        DeleteTask,
			Description: "Delete a task",
			Parameters: schema(map[string]any{
				"user_id": prop("string", "The ID of the user who owns the task"),
				"task_id": prop("integer", "The ID of the task to delete"),
			}, "user_id", "task_id"),
		},
		{
			Name:        EditTask,
			Description: "Edit an existing task (title, description, or completion status)",
			Parameters: schema(map[string]any{
				"user_id":     prop("string", "The ID of the user who owns the task"),
				"task_id":     prop("integer", "The ID of the task to edit"),
				"title":       prop("string", "The new title for the task"),
				"description": prop("string", "The new description for the task"),
				"completed":   prop("boolean", "Whether the task is completed"),
			}, "user_id", "task_id"),
		},
		{
			Name:        GetUserInfo,
			Description: "Get the user's profile information",
			Parameters: schema(map[string]any{
				"user_id": prop("string", "The ID of the user whose information to retrieve"),
			}, "user_id"),
		},
	}
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func schema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
