package workflows

import (
	"context"

	"github.com/dbos-inc/dbos-transact-golang/dbos"

	"taskchat/models"
	"taskchat/services"
	"taskchat/tools"
)

// TurnRunner executes one chat turn. Handlers depend on this interface so
// the durable and direct implementations are interchangeable.
type TurnRunner interface {
	RunTurn(ctx context.Context, input TurnInput) (models.ChatActionResponse, error)
}

// DirectRunner runs turns in-process without durability.
type DirectRunner struct {
	Workflows *ChatWorkflows
}

func (r *DirectRunner) RunTurn(ctx context.Context, input TurnInput) (models.ChatActionResponse, error) {
	return r.Workflows.Turn(ctx, input)
}

// DBOSRunner runs turns as durable DBOS workflows: an interrupted turn
// resumes from its last completed step instead of losing the user message.
type DBOSRunner struct {
	Ctx       dbos.DBOSContext
	Workflows *ChatWorkflows
}

func (r *DBOSRunner) RunTurn(_ context.Context, input TurnInput) (models.ChatActionResponse, error) {
	handle, err := dbos.RunWorkflow(r.Ctx, r.Workflows.ChatTurnWorkflow, input)
	if err != nil {
		return models.ChatActionResponse{}, err
	}
	return handle.GetResult()
}

// ChatTurnWorkflow is the durable form of Turn. Each step is persisted when
// it completes: the user message outlives a crash during the resolver call,
// and the assistant message is appended exactly once.
func (w *ChatWorkflows) ChatTurnWorkflow(ctx dbos.DBOSContext, input TurnInput) (models.ChatActionResponse, error) {
	userMsg, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (models.Message, error) {
		return w.appendUserMessage(stepCtx, input)
	})
	if err != nil {
		return models.ChatActionResponse{}, err
	}

	history, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) ([]services.HistoryMessage, error) {
		return w.historyBefore(stepCtx, input.ConversationID, userMsg.ID)
	})
	if err != nil {
		return models.ChatActionResponse{}, err
	}

	resolution, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (services.Resolution, error) {
		return w.resolveIntent(stepCtx, history, input.Message), nil
	})
	if err != nil {
		return models.ChatActionResponse{}, err
	}

	result, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (tools.Result, error) {
		return w.executeResolution(stepCtx, input.UserID, resolution), nil
	})
	if err != nil {
		return models.ChatActionResponse{}, err
	}

	_, err = dbos.RunAsStep(ctx, func(stepCtx context.Context) (bool, error) {
		err := w.recordAssistantReply(stepCtx, input.ConversationID, result.Message)
		return err == nil, err
	})
	if err != nil {
		return models.ChatActionResponse{}, err
	}

	return envelope(input.ConversationID, result), nil
}
