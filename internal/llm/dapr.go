package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ai-engine/pkg/api"

	dapr "github.com/dapr/go-sdk/client"
)

const (
	bindingCompleteText  = "completeText"
	bindingSummarizeText = "summarizeText"
)

type DaprBindingClient interface {
	InvokeBinding(ctx context.Context, in *dapr.InvokeBindingRequest) (*dapr.BindingEvent, error)
}

// DaprBinding forwards completions and summaries to another AI component
// reached through a dapr output binding.
type DaprBinding struct {
	client DaprBindingClient
	name   string
}

var _ Completer = (*DaprBinding)(nil)
var _ Summarizer = (*DaprBinding)(nil)

func NewDaprBinding(client DaprBindingClient, name string) *DaprBinding {
	return &DaprBinding{client: client, name: name}
}

func (d *DaprBinding) invoke(ctx context.Context, operation string, request, response any) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error encoding %s request: %w", operation, err)
	}

	event, err := d.client.InvokeBinding(ctx, &dapr.InvokeBindingRequest{
		Name:      d.name,
		Operation: operation,
		Data:      data,
	})
	if err != nil {
		slog.Error("dapr binding invocation failed", "binding", d.name, "operation", operation, "error", err)
		return fmt.Errorf("binding '%s' %s failed: %w", d.name, operation, err)
	}
	if event == nil || len(event.Data) == 0 {
		return ErrNoContent
	}

	if err := json.Unmarshal(event.Data, response); err != nil {
		return fmt.Errorf("error decoding %s response from binding '%s': %w", operation, d.name, err)
	}
	return nil
}

func (d *DaprBinding) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	request := api.BackendCompletionRequest{
		Prompt:  req.Prompt,
		System:  req.System,
		History: &api.ChatHistory{Items: req.History},
	}
	if request.History.Items == nil {
		request.History.Items = []api.ChatHistoryItem{}
	}

	var response api.BackendCompletionResponse
	if err := d.invoke(ctx, bindingCompleteText, request, &response); err != nil {
		return "", err
	}
	if response.Assistant == "" {
		return "", ErrNoContent
	}
	return response.Assistant, nil
}

func (d *DaprBinding) Summarize(ctx context.Context, document string) (string, error) {
	var response api.SummarizeResponse
	if err := d.invoke(ctx, bindingSummarizeText, api.BackendSummarizationRequest{Text: document}, &response); err != nil {
		return "", err
	}
	if response.Summary == "" {
		return "", ErrNoContent
	}
	return response.Summary, nil
}
