package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultAzureAPIVersion = "2024-02-01"

// LangChain adapts any langchaingo model. It is used for Azure OpenAI
// deployments, which the openai client does not address by deployment name.
type LangChain struct {
	model  llms.Model
	params Params
}

var _ Completer = (*LangChain)(nil)

func NewLangChain(model llms.Model, params Params) *LangChain {
	return &LangChain{model: model, params: params}
}

func NewAzureOpenAI(endpoint, key, deployment, apiVersion string, params Params) (*LangChain, error) {
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}

	client, err := openai.New(
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithBaseURL(endpoint),
		openai.WithToken(key),
		openai.WithModel(deployment),
		openai.WithAPIVersion(apiVersion),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create azure openai client: %w", err)
	}

	return NewLangChain(client, params), nil
}

func langChainMessages(req CompletionRequest) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.History)+2)

	if len(req.System) > 0 {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, item := range req.History {
		switch item.Role {
		case RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, item.Message))
		case RoleAssistant:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, item.Message))
		default:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, item.Message))
		}
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	return messages
}

func (l *LangChain) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if l.params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.params.MaxTokens))
	}
	if l.params.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*l.params.Temperature))
	}
	if l.params.TopP != nil {
		opts = append(opts, llms.WithTopP(*l.params.TopP))
	}
	return opts
}

func (l *LangChain) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := l.model.GenerateContent(ctx, langChainMessages(req), l.callOptions()...)
	if err != nil {
		slog.Error("langchain error: generate content failed", "error", err)
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", ErrNoContent
	}
	return resp.Choices[0].Content, nil
}
