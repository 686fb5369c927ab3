package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ai-engine/internal/engine"
	"ai-engine/pkg/api"
)

// EngineService exposes an engine over HTTP. The engine may run in this
// process, in a plugin, or behind a queue.
type EngineService struct {
	engine engine.Invoker
}

func NewEngineService(invoker engine.Invoker) *EngineService {
	return &EngineService{engine: invoker}
}

func (s *EngineService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Get("/operations", RestHandler(s.ListOperations))

	r.Route("/chats", func(r chi.Router) {
		r.Post("/", RestHandler(s.CreateChat))
		r.Get("/", RestHandler(s.GetChats))
		r.Get("/stream", RestStreamHandler(s.StreamChats))
		r.Get("/{instance_id}", RestHandler(s.GetChat))
		r.Delete("/{instance_id}", RestHandler(s.TerminateChat))
		r.Post("/{instance_id}/messages", RestHandler(s.SendMessage))
	})

	r.Post("/complete", RestHandler(s.CompleteText))
	r.Post("/summarize", RestHandler(s.Summarize))
	r.Post("/invoke/{operation}", RestHandler(s.Invoke))
}

func invoke[Res any](ctx context.Context, invoker engine.Invoker, operation string, req any) (Res, error) {
	var res Res

	data, err := json.Marshal(req)
	if err != nil {
		return res, CodedErrorf(http.StatusInternalServerError, "error serializing %s request: %w", operation, err)
	}

	out, err := invoker.Invoke(ctx, operation, data)
	if err != nil {
		return res, err
	}

	if err := json.Unmarshal(out, &res); err != nil {
		slog.Error("error parsing engine response", "operation", operation, "error", err)
		return res, CodedErrorf(http.StatusInternalServerError, "error parsing %s response", operation)
	}
	return res, nil
}

func (s *EngineService) ListOperations(r *http.Request) (any, error) {
	ops, err := s.engine.ListOperations(r.Context())
	if err != nil {
		return nil, err
	}
	return api.ListOperationsResponse{Operations: ops}, nil
}

func (s *EngineService) CreateChat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CreateChatRequest](r)
	if err != nil {
		return nil, err
	}
	return invoke[struct{}](r.Context(), s.engine, engine.OpCreateChat, req)
}

func (s *EngineService) GetChats(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.GetChatsRequest](r)
	if err != nil {
		return nil, err
	}
	return invoke[api.GetChatsResponse](r.Context(), s.engine, engine.OpGetChats, req)
}

// StreamChats writes one message per chat instead of a single response.
func (s *EngineService) StreamChats(r *http.Request) (StreamResponse, error) {
	req, err := ParseRequestQueryParams[api.GetChatsRequest](r)
	if err != nil {
		return nil, err
	}

	res, err := invoke[api.GetChatsResponse](r.Context(), s.engine, engine.OpGetChats, req)
	if err != nil {
		return nil, err
	}

	return func(yield func(any, error) bool) {
		for _, chat := range res.Chats {
			if !yield(chat, nil) {
				return
			}
		}
	}, nil
}

func (s *EngineService) GetChat(r *http.Request) (any, error) {
	instanceId, err := URLParam(r, "instance_id")
	if err != nil {
		return nil, err
	}

	res, err := invoke[api.GetChatResponse](r.Context(), s.engine, engine.OpGetChat, api.GetChatRequest{InstanceId: instanceId})
	if err != nil {
		return nil, err
	}
	if res.History == nil {
		return nil, CodedError(http.StatusNotFound, fmt.Errorf("chat instance '%s': %w", instanceId, engine.ErrNotFound))
	}
	return res, nil
}

func (s *EngineService) TerminateChat(r *http.Request) (any, error) {
	instanceId, err := URLParam(r, "instance_id")
	if err != nil {
		return nil, err
	}
	return invoke[struct{}](r.Context(), s.engine, engine.OpTerminateChat, api.TerminateChatRequest{InstanceId: instanceId})
}

func (s *EngineService) SendMessage(r *http.Request) (any, error) {
	instanceId, err := URLParam(r, "instance_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.CompletionRequest](r)
	if err != nil {
		return nil, err
	}
	req.InstanceId = instanceId

	return invoke[api.CompletionResponse](r.Context(), s.engine, engine.OpCompleteText, req)
}

func (s *EngineService) CompleteText(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CompletionRequest](r)
	if err != nil {
		return nil, err
	}
	return invoke[api.CompletionResponse](r.Context(), s.engine, engine.OpCompleteText, req)
}

func (s *EngineService) Summarize(r *http.Request) (any, error) {
	req, err := ParseRequest[api.SummarizeRequest](r)
	if err != nil {
		return nil, err
	}
	return invoke[api.SummarizeResponse](r.Context(), s.engine, engine.OpSummarizeText, req)
}

// Invoke passes the body to the named operation untouched and returns the
// engine's response as is.
func (s *EngineService) Invoke(r *http.Request) (any, error) {
	operation, err := URLParam(r, "operation")
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "unable to read request body")
	}

	out, err := s.engine.Invoke(r.Context(), operation, data)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}
