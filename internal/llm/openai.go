package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAI struct {
	client openai.Client
	model  string
	params Params
}

var _ Completer = (*OpenAI)(nil)

func NewOpenAI(model string, params Params, opts ...option.RequestOption) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		params: params,
	}
}

func openAIMessages(req CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)

	if len(req.System) > 0 {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, item := range req.History {
		switch item.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(item.Message))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(item.Message))
		default:
			messages = append(messages, openai.UserMessage(item.Message))
		}
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	return messages
}

func (o *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatOpts := openai.ChatCompletionNewParams{
		Messages: openAIMessages(req),
		Model:    o.model,
	}
	if o.params.MaxTokens > 0 {
		chatOpts.MaxTokens = openai.Int(int64(o.params.MaxTokens))
	}
	if o.params.Temperature != nil {
		chatOpts.Temperature = openai.Float(*o.params.Temperature)
	}
	if o.params.TopP != nil {
		chatOpts.TopP = openai.Float(*o.params.TopP)
	}

	res, err := o.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		slog.Error("openai error: chat completions failed", "model", o.model, "error", err)
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return res.Choices[0].Message.Content, nil
}
