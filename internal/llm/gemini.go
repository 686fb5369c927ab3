package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Gemini struct {
	client *genai.Client
	model  string
	params Params
}

var _ Completer = (*Gemini)(nil)

func NewGemini(ctx context.Context, model, apiKey string, params Params) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, params: params}, nil
}

// geminiHistory splits chat items into the system instruction and the prior
// turns. Gemini names the assistant role "model".
func geminiHistory(req CompletionRequest) (string, []*genai.Content) {
	var system []string
	if len(req.System) > 0 {
		system = append(system, req.System)
	}

	var history []*genai.Content
	for _, item := range req.History {
		switch item.Role {
		case RoleSystem:
			system = append(system, item.Message)
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(item.Message)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(item.Message)}})
		}
	}

	return strings.Join(system, "\n"), history
}

func geminiText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func (g *Gemini) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if g.params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.params.MaxTokens))
	}
	if g.params.Temperature != nil {
		model.SetTemperature(float32(*g.params.Temperature))
	}
	if g.params.TopP != nil {
		model.SetTopP(float32(*g.params.TopP))
	}

	system, history := geminiHistory(req)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(req.Prompt))
	if err != nil {
		slog.Error("gemini error: send message failed", "model", g.model, "error", err)
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
