package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-engine/internal/llm"
	"ai-engine/pkg/api"

	anthropic_option "github.com/anthropics/anthropic-sdk-go/option"
	dapr "github.com/dapr/go-sdk/client"
	openai_option "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

var sampleHistory = []api.ChatHistoryItem{
	{Role: "system", Message: "You are terse."},
	{Role: "user", Message: "Hi"},
	{Role: "assistant", Message: "Hello"},
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

func TestOpenAI_Complete(t *testing.T) {
	var received struct {
		Model       string        `json:"model"`
		Messages    []wireMessage `json:"messages"`
		Temperature *float64      `json:"temperature"`
		MaxTokens   *int          `json:"max_tokens"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "How can I help?"}}]
		}`))
	}))
	defer server.Close()

	temp := 0.2
	model := llm.NewOpenAI("gpt-4o-mini", llm.Params{MaxTokens: 64, Temperature: &temp},
		openai_option.WithBaseURL(server.URL+"/"),
		openai_option.WithAPIKey("test-key"),
		openai_option.WithMaxRetries(0),
	)

	reply, err := model.Complete(context.Background(), llm.CompletionRequest{History: sampleHistory, Prompt: "What now?"})
	require.NoError(t, err)
	assert.Equal(t, "How can I help?", reply)

	assert.Equal(t, "gpt-4o-mini", received.Model)
	require.Len(t, received.Messages, 4)
	roles := []string{}
	for _, m := range received.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Contains(t, string(received.Messages[3].Content), "What now?")
	require.NotNil(t, received.Temperature)
	assert.InDelta(t, 0.2, *received.Temperature, 1e-9)
	require.NotNil(t, received.MaxTokens)
	assert.Equal(t, 64, *received.MaxTokens)
}

func TestOpenAI_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer server.Close()

	model := llm.NewOpenAI("m", llm.Params{},
		openai_option.WithBaseURL(server.URL+"/"),
		openai_option.WithAPIKey("test-key"),
		openai_option.WithMaxRetries(0),
	)

	_, err := model.Complete(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

func TestOpenAI_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	model := llm.NewOpenAI("m", llm.Params{},
		openai_option.WithBaseURL(server.URL+"/"),
		openai_option.WithAPIKey("test-key"),
		openai_option.WithMaxRetries(0),
	)

	_, err := model.Complete(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrNoContent)
}

func TestAnthropic_Complete(t *testing.T) {
	var received struct {
		Model     string          `json:"model"`
		MaxTokens int             `json:"max_tokens"`
		System    json.RawMessage `json:"system"`
		Messages  []wireMessage   `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Sure."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 3, "output_tokens": 1}
		}`))
	}))
	defer server.Close()

	model := llm.NewAnthropic("claude-3-5-haiku-latest", llm.Params{},
		anthropic_option.WithBaseURL(server.URL),
		anthropic_option.WithAPIKey("test-key"),
		anthropic_option.WithMaxRetries(0),
	)

	reply, err := model.Complete(context.Background(), llm.CompletionRequest{History: sampleHistory, Prompt: "Go on"})
	require.NoError(t, err)
	assert.Equal(t, "Sure.", reply)

	assert.Equal(t, 1024, received.MaxTokens)
	assert.Contains(t, string(received.System), "You are terse.")
	require.Len(t, received.Messages, 3)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.Equal(t, "assistant", received.Messages[1].Role)
	assert.Equal(t, "user", received.Messages[2].Role)
	assert.Contains(t, string(received.Messages[2].Content), "Go on")
}

type fakeLangChainModel struct {
	messages []llms.MessageContent
	reply    string
	err      error
}

func (m *fakeLangChainModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeLangChainModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLangChain_Complete(t *testing.T) {
	fake := &fakeLangChainModel{reply: "ok"}
	model := llm.NewLangChain(fake, llm.Params{MaxTokens: 10})

	reply, err := model.Complete(context.Background(), llm.CompletionRequest{History: sampleHistory, Prompt: "next", System: "extra"})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	require.Len(t, fake.messages, 5)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, fake.messages[3].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[4].Role)
	assert.Equal(t, llms.TextContent{Text: "next"}, fake.messages[4].Parts[0])
}

func TestLangChain_EmptyAndFailed(t *testing.T) {
	_, err := llm.NewLangChain(&fakeLangChainModel{}, llm.Params{}).Complete(context.Background(), llm.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, llm.ErrNoContent)

	boom := errors.New("boom")
	_, err = llm.NewLangChain(&fakeLangChainModel{err: boom}, llm.Params{}).Complete(context.Background(), llm.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, boom)
}

type fakeBinding struct {
	requests []*dapr.InvokeBindingRequest
	reply    string
	err      error
}

func (f *fakeBinding) InvokeBinding(ctx context.Context, in *dapr.InvokeBindingRequest) (*dapr.BindingEvent, error) {
	f.requests = append(f.requests, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dapr.BindingEvent{Data: []byte(f.reply)}, nil
}

func TestDaprBinding_Complete(t *testing.T) {
	fake := &fakeBinding{reply: `{"assistant": "from binding"}`}
	binding := llm.NewDaprBinding(fake, "openai")

	reply, err := binding.Complete(context.Background(), llm.CompletionRequest{History: sampleHistory[1:], Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "from binding", reply)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "openai", fake.requests[0].Name)
	assert.Equal(t, "completeText", fake.requests[0].Operation)

	var sent api.BackendCompletionRequest
	require.NoError(t, json.Unmarshal(fake.requests[0].Data, &sent))
	assert.Equal(t, "p", sent.Prompt)
	require.NotNil(t, sent.History)
	assert.Equal(t, sampleHistory[1:], sent.History.Items)
}

func TestDaprBinding_Summarize(t *testing.T) {
	fake := &fakeBinding{reply: `{"summary": "short"}`}
	summary, err := llm.NewDaprBinding(fake, "openai").Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "short", summary)
	assert.Equal(t, "summarizeText", fake.requests[0].Operation)
	assert.JSONEq(t, `{"text": "long text"}`, string(fake.requests[0].Data))
}

func TestDaprBinding_EmptyReply(t *testing.T) {
	_, err := llm.NewDaprBinding(&fakeBinding{reply: `{"assistant": ""}`}, "b").Complete(context.Background(), llm.CompletionRequest{})
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

type recordingCompleter struct {
	req   llm.CompletionRequest
	reply string
}

func (c *recordingCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	c.req = req
	return c.reply, nil
}

func TestCompletionSummarizer(t *testing.T) {
	completer := &recordingCompleter{reply: "tl;dr"}
	summarizer, err := llm.NewCompletionSummarizer(completer, "Summarize this:\n{0}\nBe brief.")
	require.NoError(t, err)

	summary, err := summarizer.Summarize(context.Background(), "the document")
	require.NoError(t, err)
	assert.Equal(t, "tl;dr", summary)
	assert.Equal(t, "Summarize this:\nthe document\nBe brief.", completer.req.System)
	assert.Equal(t, "the document", completer.req.Prompt)
	assert.Empty(t, completer.req.History)

	_, err = llm.NewCompletionSummarizer(completer, "  ")
	assert.ErrorIs(t, err, llm.ErrMissingInstructions)
}

func TestEcho(t *testing.T) {
	reply, err := llm.Echo{}.Complete(context.Background(), llm.CompletionRequest{History: sampleHistory, Prompt: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "echo (3 prior messages): ping", reply)
}
