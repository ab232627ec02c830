package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskchat/tools"
)

// FallbackResolver is a deterministic keyword classifier used when no remote
// provider is configured or the remote call fails. It is a best-effort
// heuristic, not language understanding; it only has to produce tool calls
// of the same shape as the remote resolver.
type FallbackResolver struct{}

// NewFallbackResolver creates the local rule-based resolver.
func NewFallbackResolver() *FallbackResolver {
	return &FallbackResolver{}
}

var (
	greetingKeywords = []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"}
	generalKeywords  = []string{"how are you", "what can you do", "help", "what's up", "what are you", "who are you"}
	userInfoKeywords = []string{"who am i", "user info", "profile", "about me", "my info"}
	listKeywords     = []string{"list", "show", "view", "my tasks", "see", "display"}
	completeKeywords = []string{"complete", "done", "finish", "finished", "mark as done"}
	deleteKeywords   = []string{"delete", "remove", "cancel", "get rid of", "eliminate"}
	editKeywords     = []string{"edit", "update", "change", "modify", "adjust", "fix"}
	createKeywords   = []string{"task", "add", "create", "new", "todo", "to-do", "to do"}
)

var greetingReplies = []string{
	"Hello! I'm your AI assistant. How can I help you today?",
	"Hi there! I'm here to assist you with managing your tasks. What would you like to do?",
	"Greetings! I'm your personal task assistant. Feel free to ask me to add, list, complete, or delete tasks.",
}

var generalReplies = []string{
	"I'm an AI assistant designed to help you manage your tasks. You can ask me to add, list, complete, edit, or delete tasks. How can I assist you today?",
	"I'm here to help you stay organized! I can manage your tasks, track your progress, and keep you on schedule. What would you like to do?",
	"I'm your personal task manager AI. I can help you create tasks, mark them as complete, update them, or remove them. Just tell me what you need!",
}

// Resolve runs the matcher chain in a fixed order; the first match wins.
func (r *FallbackResolver) Resolve(_ context.Context, _ []HistoryMessage, message string) (Resolution, error) {
	lower := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(lower, greetingKeywords):
		return Resolution{Text: pick(greetingReplies, lower)}, nil

	case containsAny(lower, generalKeywords):
		return Resolution{Text: pick(generalReplies, lower)}, nil

	case containsAny(lower, userInfoKeywords):
		return Resolution{
			Text:      "Let me look up your account information.",
			ToolCalls: []tools.Call{{Name: tools.GetUserInfo, Args: map[string]any{}}},
		}, nil

	case containsAny(lower, listKeywords):
		return Resolution{
			Text: "Here are your tasks with their IDs for easy reference.",
			ToolCalls: []tools.Call{{
				Name: tools.ListTasks,
				Args: map[string]any{"status": "all"},
			}},
		}, nil

	case containsAny(lower, completeKeywords):
		taskID := firstInteger(lower, 1)
		return Resolution{
			Text: fmt.Sprintf("I've marked task #%d as completed.", taskID),
			ToolCalls: []tools.Call{{
				Name: tools.CompleteTask,
				Args: map[string]any{"task_id": taskID},
			}},
		}, nil

	case containsAny(lower, deleteKeywords):
		taskID := firstInteger(lower, 1)
		return Resolution{
			Text: fmt.Sprintf("I've removed task #%d from your task list.", taskID),
			ToolCalls: []tools.Call{{
				Name: tools.DeleteTask,
				Args: map[string]any{"task_id": taskID},
			}},
		}, nil

	case containsAny(lower, editKeywords):
		return Resolution{
			Text: "I've updated your task.",
			ToolCalls: []tools.Call{{
				Name: tools.EditTask,
				Args: map[string]any{
					"task_id": firstInteger(lower, 1),
					"title":   editTitle(message),
				},
			}},
		}, nil

	case containsAny(lower, createKeywords):
		title := createTitle(lower)
		return Resolution{
			Text: fmt.Sprintf("I've added '%s' to your task list.", title),
			ToolCalls: []tools.Call{{
				Name: tools.AddTask,
				Args: map[string]any{
					"title":       title,
					"description": "Created based on your request: " + message,
				},
			}},
		}, nil
	}

	acknowledgements := []string{
		fmt.Sprintf("I understand you're saying: '%s'. I'm here to help you manage your tasks. You can ask me to add, list, complete, edit, or delete tasks.", message),
		fmt.Sprintf("Thanks for your message: '%s'. How can I assist you with your tasks today?", message),
		fmt.Sprintf("I received your message: '%s'. Would you like me to help you with something specific?", message),
		fmt.Sprintf("Got it: '%s'. I can help you create, update, complete, or remove tasks. What would you like to do?", message),
	}
	return Resolution{Text: pick(acknowledgements, lower)}, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// pick chooses a reply from a fixed pool, keyed on the input so repeated
// identical messages get identical replies.
func pick(pool []string, input string) string {
	sum := 0
	for _, r := range input {
		sum += int(r)
	}
	return pool[sum%len(pool)]
}

// firstInteger returns the first bare integer token in the message, or the
// given default when none is present.
func firstInteger(message string, def int64) int64 {
	for _, word := range strings.Fields(message) {
		if n, err := strconv.ParseInt(word, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// editTitle derives a new title from an edit request: text after the literal
// word "to" when present, else text after the edit keyword, else a
// placeholder.
func editTitle(message string) string {
	if _, after, found := strings.Cut(message, " to "); found {
		if title := strings.TrimSpace(after); title != "" {
			return title
		}
	}
	lower := strings.ToLower(message)
	for _, kw := range editKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			if title := strings.TrimSpace(message[idx+len(kw):]); title != "" {
				return title
			}
		}
	}
	return "Updated task"
}

// createTitle derives a task title from up to the first five words following
// the first recognized creation keyword, capitalized and with trailing
// punctuation stripped.
func createTitle(lower string) string {
	for _, kw := range createKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		remaining := strings.TrimSpace(lower[idx+len(kw):])
		remaining = strings.TrimPrefix(remaining, "to ")
		words := strings.Fields(remaining)
		if len(words) == 0 {
			continue
		}
		if len(words) > 5 {
			words = words[:5]
		}
		title := strings.TrimRight(strings.Join(words, " "), ".,!?")
		return capitalize(title)
	}
	return "New task"
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
