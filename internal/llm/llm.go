package llm

import (
	"context"
	"errors"

	"ai-engine/pkg/api"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoContent is returned when a provider answers without any text.
var ErrNoContent = errors.New("no chat content was returned")

type CompletionRequest struct {
	// History is the conversation so far, oldest first.
	History []api.ChatHistoryItem
	Prompt  string
	System  string
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, document string) (string, error)
}

// Params are the optional sampling parameters shared by providers. Zero or nil
// values leave the provider default in place.
type Params struct {
	MaxTokens   int
	Temperature *float64
	TopP        *float64
}
