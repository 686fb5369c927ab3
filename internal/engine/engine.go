package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ai-engine/internal/chat"
	"ai-engine/internal/llm"
	"ai-engine/internal/state"
	"ai-engine/internal/utils"
	"ai-engine/pkg/api"
)

const defaultHistoryFetchConcurrency = 8

type Options struct {
	// Fetcher resolves summarization requests given by url. Nil disables them.
	Fetcher DocumentFetcher

	// SerializeInstances makes stateful operations on the same instance run one
	// at a time within this process.
	SerializeInstances bool

	HistoryFetchConcurrency int
}

// Engine turns a stateless completion backend into multi-turn chats whose
// history lives in a key-value state store. It is the only writer of history
// and index records.
type Engine struct {
	store      *chat.Store
	index      *chat.Index
	completer  llm.Completer
	summarizer llm.Summarizer
	fetcher    DocumentFetcher
	locks      *utils.MutexMap

	historyFetchConcurrency int
}

func New(store state.Store, completer llm.Completer, summarizer llm.Summarizer, opts Options) *Engine {
	chatStore := chat.NewStore(store)

	e := &Engine{
		store:                   chatStore,
		index:                   chat.NewIndex(chatStore),
		completer:               completer,
		summarizer:              summarizer,
		fetcher:                 opts.Fetcher,
		historyFetchConcurrency: opts.HistoryFetchConcurrency,
	}
	if e.historyFetchConcurrency <= 0 {
		e.historyFetchConcurrency = defaultHistoryFetchConcurrency
	}
	if opts.SerializeInstances {
		e.locks = utils.NewMutexMap(0)
	}

	if !e.index.Atomic() {
		slog.Warn("state store has no conditional updates, concurrent index changes may be lost")
	}

	return e
}

func (e *Engine) lock(ctx context.Context, instanceId string) (func(), error) {
	if e.locks == nil {
		return func() {}, nil
	}
	if err := e.locks.Lock(ctx, instanceId); err != nil {
		return nil, fmt.Errorf("error acquiring lock for instance '%s': %w", instanceId, err)
	}
	return func() {
		if err := e.locks.Unlock(instanceId); err != nil {
			slog.Error("error releasing instance lock", "instance_id", instanceId, "error", err)
		}
	}, nil
}

func requireInstanceId(instanceId string) error {
	if instanceId == "" {
		return validationErrorf("instanceId is required")
	}
	return nil
}

func (e *Engine) CreateChat(ctx context.Context, req api.CreateChatRequest) error {
	if err := requireInstanceId(req.InstanceId); err != nil {
		return err
	}

	unlock, err := e.lock(ctx, req.InstanceId)
	if err != nil {
		return err
	}
	defer unlock()

	_, found, err := e.store.GetHistory(ctx, req.InstanceId)
	if err != nil {
		return storeError(err)
	}

	if found {
		// A previous create may have saved the history and then failed to
		// update the index; adding again is a no-op otherwise.
		if err := e.index.Add(ctx, req.InstanceId); err != nil {
			return storeError(err)
		}
		return fmt.Errorf("chat instance '%s': %w", req.InstanceId, ErrAlreadyExists)
	}

	seed := api.ChatHistory{Items: []api.ChatHistoryItem{}}
	if req.System != "" {
		seed.Items = append(seed.Items, api.ChatHistoryItem{Role: llm.RoleSystem, Message: req.System})
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("create chat '%s' aborted: %w", req.InstanceId, err)
	}
	if err := e.store.SaveHistory(ctx, req.InstanceId, seed); err != nil {
		return storeError(err)
	}
	if err := e.index.Add(ctx, req.InstanceId); err != nil {
		return storeError(err)
	}

	slog.Info("created chat instance", "instance_id", req.InstanceId, "with_system", req.System != "")
	return nil
}

func (e *Engine) complete(ctx context.Context, history []api.ChatHistoryItem, prompt string) (string, error) {
	reply, err := e.completer.Complete(ctx, llm.CompletionRequest{History: history, Prompt: prompt})
	if err != nil {
		return "", backendError(err)
	}
	if reply == "" {
		return "", backendError(llm.ErrNoContent)
	}
	return reply, nil
}

func (e *Engine) CompleteText(ctx context.Context, req api.CompletionRequest) (api.CompletionResponse, error) {
	switch c := ResolveCompletion(req).(type) {
	case Stateless:
		reply, err := e.complete(ctx, []api.ChatHistoryItem{}, c.Prompt)
		if err != nil {
			return api.CompletionResponse{}, err
		}
		return api.CompletionResponse{Assistant: reply}, nil

	case Stateful:
		return e.completeStateful(ctx, c)

	default:
		return api.CompletionResponse{}, fmt.Errorf("unexpected completion type %T", c)
	}
}

func (e *Engine) completeStateful(ctx context.Context, c Stateful) (api.CompletionResponse, error) {
	unlock, err := e.lock(ctx, c.InstanceId)
	if err != nil {
		return api.CompletionResponse{}, err
	}
	defer unlock()

	history, found, err := e.store.GetHistory(ctx, c.InstanceId)
	if err != nil {
		return api.CompletionResponse{}, storeError(err)
	}
	if !found {
		history = api.ChatHistory{Items: []api.ChatHistoryItem{}}
	}

	reply, err := e.complete(ctx, history.Items, c.Prompt)
	if err != nil {
		slog.Error("completion failed", "instance_id", c.InstanceId, "error", err)
		return api.CompletionResponse{}, err
	}

	if err := ctx.Err(); err != nil {
		return api.CompletionResponse{}, fmt.Errorf("completion for '%s' aborted: %w", c.InstanceId, err)
	}

	history.Items = append(history.Items,
		api.ChatHistoryItem{Role: llm.RoleUser, Message: c.Prompt},
		api.ChatHistoryItem{Role: llm.RoleAssistant, Message: reply},
	)
	if err := e.store.SaveHistory(ctx, c.InstanceId, history); err != nil {
		return api.CompletionResponse{}, storeError(err)
	}

	if !found {
		// The instance was never created explicitly; the save above created it.
		if err := e.index.Add(ctx, c.InstanceId); err != nil {
			return api.CompletionResponse{}, storeError(err)
		}
		slog.Info("chat instance created by completion", "instance_id", c.InstanceId)
	}

	return api.CompletionResponse{Assistant: reply, InstanceId: c.InstanceId}, nil
}

// GetChat returns a response without history when the instance does not exist.
func (e *Engine) GetChat(ctx context.Context, req api.GetChatRequest) (api.GetChatResponse, error) {
	if err := requireInstanceId(req.InstanceId); err != nil {
		return api.GetChatResponse{}, err
	}

	history, found, err := e.store.GetHistory(ctx, req.InstanceId)
	if err != nil {
		return api.GetChatResponse{}, storeError(err)
	}
	if !found {
		return api.GetChatResponse{}, nil
	}
	return api.GetChatResponse{History: &history}, nil
}

func (e *Engine) GetChats(ctx context.Context, req api.GetChatsRequest) (api.GetChatsResponse, error) {
	if req.Limit < 0 {
		return api.GetChatsResponse{}, validationErrorf("limit must not be negative")
	}

	ids, err := e.index.List(ctx)
	if err != nil {
		return api.GetChatsResponse{}, storeError(err)
	}
	if req.Limit > 0 && len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}

	chats := make([]api.ChatSummary, len(ids))
	for i, id := range ids {
		chats[i] = api.ChatSummary{InstanceId: id}
	}

	if !req.WithHistory {
		return api.GetChatsResponse{Chats: chats}, nil
	}

	load := func(ctx context.Context, id string) (*api.ChatHistory, error) {
		history, found, err := e.store.GetHistory(ctx, id)
		if err != nil || !found {
			return nil, err
		}
		return &history, nil
	}

	for i, result := range utils.RunInPool(ctx, load, ids, e.historyFetchConcurrency) {
		if result.Error != nil {
			return api.GetChatsResponse{}, storeError(result.Error)
		}
		// Ids whose history is gone are still listed, just without history.
		chats[i].History = result.Result
	}

	return api.GetChatsResponse{Chats: chats}, nil
}

// TerminateChat deletes the instance. Terminating an unknown instance succeeds.
func (e *Engine) TerminateChat(ctx context.Context, req api.TerminateChatRequest) error {
	if err := requireInstanceId(req.InstanceId); err != nil {
		return err
	}

	unlock, err := e.lock(ctx, req.InstanceId)
	if err != nil {
		return err
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("terminate chat '%s' aborted: %w", req.InstanceId, err)
	}
	if err := e.store.DeleteHistory(ctx, req.InstanceId); err != nil {
		return storeError(err)
	}
	if err := e.index.Remove(ctx, req.InstanceId); err != nil {
		return storeError(err)
	}

	slog.Info("terminated chat instance", "instance_id", req.InstanceId)
	return nil
}

var errNoSummarizer = errors.New("no summarization backend is configured")

func (e *Engine) SummarizeText(ctx context.Context, req api.SummarizeRequest) (api.SummarizeResponse, error) {
	document, err := e.resolveDocument(ctx, req)
	if err != nil {
		return api.SummarizeResponse{}, err
	}

	if e.summarizer == nil {
		return api.SummarizeResponse{}, backendError(errNoSummarizer)
	}

	summary, err := e.summarizer.Summarize(ctx, document)
	if err != nil {
		slog.Error("summarization failed", "error", err)
		return api.SummarizeResponse{}, backendError(err)
	}
	if summary == "" {
		return api.SummarizeResponse{}, backendError(llm.ErrNoContent)
	}

	return api.SummarizeResponse{Summary: summary}, nil
}
