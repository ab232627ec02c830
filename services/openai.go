package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"taskchat/tools"
)

const systemPrompt = "You are a task-management assistant inside a todo " +
	"application. Use the provided tools to add, list, complete, edit or " +
	"delete the user's tasks when the user asks for a task operation; " +
	"otherwise answer conversationally in one or two sentences."

const defaultModel = "gpt-4o-mini"

// OpenAIResolver resolves intent through the OpenAI chat completions API
// with function tools. Provider failures and timeouts are returned as plain
// errors so the caller can substitute the local fallback.
type OpenAIResolver struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIResolver creates a remote resolver with an explicit per-call timeout.
func NewOpenAIResolver(apiKey string, timeout time.Duration) *OpenAIResolver {
	return &OpenAIResolver{
		client:  openai.NewClient(apiKey),
		model:   defaultModel,
		timeout: timeout,
	}
}

func (r *OpenAIResolver) Resolve(ctx context.Context, history []HistoryMessage, message string) (Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, h := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    h.Role,
			Content: h.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
		Tools:    openAITools(),
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Resolution{}, fmt.Errorf("openai chat completion: empty response")
	}

	choice := resp.Choices[0].Message
	resolution := Resolution{Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.Type != openai.ToolTypeFunction {
			continue
		}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return Resolution{}, fmt.Errorf("decode tool arguments for %s: %w", tc.Function.Name, err)
			}
		}
		resolution.ToolCalls = append(resolution.ToolCalls, tools.Call{
			Name: tools.Name(tc.Function.Name),
			Args: args,
		})
	}
	return resolution, nil
}

func openAITools() []openai.Tool {
	defs := tools.Definitions()
	out := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(def.Name),
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}
