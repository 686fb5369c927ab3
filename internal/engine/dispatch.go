package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"ai-engine/pkg/api"
)

const (
	OpCreateChat    = "createChat"
	OpCompleteText  = "completeText"
	OpGetChat       = "getChat"
	OpGetChats      = "getChats"
	OpTerminateChat = "terminateChat"
	OpSummarizeText = "summarizeText"
)

var operations = []string{
	OpCreateChat,
	OpCompleteText,
	OpGetChat,
	OpGetChats,
	OpTerminateChat,
	OpSummarizeText,
}

// Invoker runs engine operations by name on JSON payloads. It is implemented by
// the Engine itself and by clients that reach an engine in another process.
type Invoker interface {
	Invoke(ctx context.Context, operation string, data []byte) ([]byte, error)
	ListOperations(ctx context.Context) ([]string, error)
}

var _ Invoker = (*Engine)(nil)

func (e *Engine) ListOperations(ctx context.Context) ([]string, error) {
	return append([]string{}, operations...), nil
}

func (e *Engine) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	switch operation {
	case OpCreateChat:
		return handle(ctx, data, func(ctx context.Context, req api.CreateChatRequest) (struct{}, error) {
			return struct{}{}, e.CreateChat(ctx, req)
		})
	case OpCompleteText:
		return handle(ctx, data, e.CompleteText)
	case OpGetChat:
		return handle(ctx, data, e.GetChat)
	case OpGetChats:
		return handle(ctx, data, e.GetChats)
	case OpTerminateChat:
		return handle(ctx, data, func(ctx context.Context, req api.TerminateChatRequest) (struct{}, error) {
			return struct{}{}, e.TerminateChat(ctx, req)
		})
	case OpSummarizeText:
		return handle(ctx, data, e.SummarizeText)
	default:
		return nil, fmt.Errorf("%w: '%s', supported operations are %v", ErrUnknownOperation, operation, operations)
	}
}

func handle[Req any, Res any](ctx context.Context, data []byte, op func(context.Context, Req) (Res, error)) ([]byte, error) {
	var req Req
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, validationErrorf("unable to parse request payload: %v", err)
		}
	}

	res, err := op(ctx, req)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("error serializing response: %w", err)
	}
	return out, nil
}
