package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/tools"
)

func resolve(t *testing.T, message string) Resolution {
	t.Helper()
	res, err := NewFallbackResolver().Resolve(context.Background(), nil, message)
	require.NoError(t, err)
	return res
}

func TestFallbackResolver_Greeting(t *testing.T) {
	res := resolve(t, "Hello there")
	assert.Empty(t, res.ToolCalls)
	assert.NotEmpty(t, res.Text)
}

func TestFallbackResolver_Capabilities(t *testing.T) {
	res := resolve(t, "What can you do?")
	assert.Empty(t, res.ToolCalls)
	assert.Contains(t, res.Text, "tasks")
}

func TestFallbackResolver_UserInfo(t *testing.T) {
	res := resolve(t, "who am i")
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, tools.GetUserInfo, res.ToolCalls[0].Name)
}

func TestFallbackResolver_List(t *testing.T) {
	res := resolve(t, "Show my tasks please")
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, tools.ListTasks, res.ToolCalls[0].Name)
	assert.Equal(t, "all", res.ToolCalls[0].Args["status"])
}

func TestFallbackResolver_Complete(t *testing.T) {
	t.Run("with id", func(t *testing.T) {
		res := resolve(t, "Complete task 7")
		require.Len(t, res.ToolCalls, 1)
		assert.Equal(t, tools.CompleteTask, res.ToolCalls[0].Name)
		assert.Equal(t, int64(7), res.ToolCalls[0].Args["task_id"])
	})

	t.Run("defaults to 1", func(t *testing.T) {
		res := resolve(t, "mark it as done")
		require.Len(t, res.ToolCalls, 1)
		assert.Equal(t, tools.CompleteTask, res.ToolCalls[0].Name)
		assert.Equal(t, int64(1), res.ToolCalls[0].Args["task_id"])
	})
}

func TestFallbackResolver_Delete(t *testing.T) {
	res := resolve(t, "please remove 3")
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, tools.DeleteTask, res.ToolCalls[0].Name)
	assert.Equal(t, int64(3), res.ToolCalls[0].Args["task_id"])
}

func TestFallbackResolver_Edit(t *testing.T) {
	t.Run("title after to", func(t *testing.T) {
		res := resolve(t, "change 2 to buy oat milk")
		require.Len(t, res.ToolCalls, 1)
		assert.Equal(t, tools.EditTask, res.ToolCalls[0].Name)
		assert.Equal(t, int64(2), res.ToolCalls[0].Args["task_id"])
		assert.Equal(t, "buy oat milk", res.ToolCalls[0].Args["title"])
	})

	t.Run("title after keyword", func(t *testing.T) {
		res := resolve(t, "update 4 groceries")
		require.Len(t, res.ToolCalls, 1)
		assert.Equal(t, "4 groceries", res.ToolCalls[0].Args["title"])
	})
}

func TestFallbackResolver_Add(t *testing.T) {
	res := resolve(t, "Add a task to clean my room")
	require.Len(t, res.ToolCalls, 1)
	call := res.ToolCalls[0]
	assert.Equal(t, tools.AddTask, call.Name)
	assert.Equal(t, "Clean my room", call.Args["title"])
	assert.Contains(t, call.Args["description"], "clean my room")
}

func TestFallbackResolver_AddStripsTrailingPunctuation(t *testing.T) {
	res := resolve(t, "create water the plants!")
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "Water the plants", res.ToolCalls[0].Args["title"])
}

func TestFallbackResolver_NoMatchEchoesInput(t *testing.T) {
	res := resolve(t, "the weather is nice")
	assert.Empty(t, res.ToolCalls)
	assert.Contains(t, res.Text, "the weather is nice")
}

func TestFallbackResolver_Deterministic(t *testing.T) {
	first := resolve(t, "Hello there")
	second := resolve(t, "Hello there")
	assert.Equal(t, first, second)
}
