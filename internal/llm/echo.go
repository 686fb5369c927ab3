package llm

import (
	"context"
	"fmt"
)

// Echo replies with the prompt it was given. It needs no credentials and is
// meant for local runs.
type Echo struct{}

var _ Completer = Echo{}

func (Echo) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("echo (%d prior messages): %s", len(req.History), req.Prompt), nil
}
