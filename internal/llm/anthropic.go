package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

type Anthropic struct {
	client anthropic.Client
	model  string
	params Params
}

var _ Completer = (*Anthropic)(nil)

func NewAnthropic(model string, params Params, opts ...option.RequestOption) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
		params: params,
	}
}

// anthropicMessages moves system items into the separate system blocks the
// messages API expects.
func anthropicMessages(req CompletionRequest) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	if len(req.System) > 0 {
		system = append(system, anthropic.TextBlockParam{Text: req.System})
	}

	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, item := range req.History {
		switch item.Role {
		case RoleSystem:
			if item.Message != "" {
				system = append(system, anthropic.TextBlockParam{Text: item.Message})
			}
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(item.Message)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(item.Message)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)))

	return system, messages
}

func (a *Anthropic) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	system, messages := anthropicMessages(req)

	maxTokens := int64(defaultAnthropicMaxTokens)
	if a.params.MaxTokens > 0 {
		maxTokens = int64(a.params.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if len(system) > 0 {
		params.System = system
	}
	if a.params.Temperature != nil {
		params.Temperature = anthropic.Float(*a.params.Temperature)
	}
	if a.params.TopP != nil {
		params.TopP = anthropic.Float(*a.params.TopP)
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		slog.Error("anthropic error: messages request failed", "model", a.model, "error", err)
		return "", fmt.Errorf("anthropic completion failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	if text.Len() == 0 {
		return "", ErrNoContent
	}
	return text.String(), nil
}
