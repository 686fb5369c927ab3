package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backend "ai-engine/internal/api"
	"ai-engine/internal/engine"
	"ai-engine/internal/llm"
	"ai-engine/internal/state"
	"ai-engine/pkg/api"
)

type failingCompleter struct{}

func (failingCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return "", errors.New("provider is down")
}

func newRouter(completer llm.Completer) http.Handler {
	e := engine.New(state.NewMemoryStore(), completer, nil, engine.Options{})
	r := chi.NewRouter()
	backend.NewEngineService(e).AddRoutes(r)
	return r
}

func httpRequest(t *testing.T, router http.Handler, method, endpoint string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, endpoint, &body)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func TestChatLifecycle(t *testing.T) {
	router := newRouter(llm.Echo{})

	rr := httpRequest(t, router, "POST", "/chats", api.CreateChatRequest{InstanceId: "c1", System: "be nice"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())

	rr = httpRequest(t, router, "POST", "/chats", api.CreateChatRequest{InstanceId: "c1"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	completion := decode[api.CompletionResponse](t, httpRequest(t, router, "POST", "/chats/c1/messages", api.CompletionRequest{User: "hello"}))
	assert.Equal(t, "echo (1 prior messages): hello", completion.Assistant)
	assert.Equal(t, "c1", completion.InstanceId)

	chat := decode[api.GetChatResponse](t, httpRequest(t, router, "GET", "/chats/c1", nil))
	require.NotNil(t, chat.History)
	assert.Equal(t, []api.ChatHistoryItem{
		{Role: "system", Message: "be nice"},
		{Role: "user", Message: "hello"},
		{Role: "assistant", Message: completion.Assistant},
	}, chat.History.Items)

	chats := decode[api.GetChatsResponse](t, httpRequest(t, router, "GET", "/chats?withHistory=true", nil))
	require.Len(t, chats.Chats, 1)
	assert.Len(t, chats.Chats[0].History.Items, 3)

	rr = httpRequest(t, router, "DELETE", "/chats/c1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httpRequest(t, router, "GET", "/chats/c1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	chats = decode[api.GetChatsResponse](t, httpRequest(t, router, "GET", "/chats", nil))
	assert.Empty(t, chats.Chats)
}

func TestGetChats_Limit(t *testing.T) {
	router := newRouter(llm.Echo{})

	for _, id := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusOK, httpRequest(t, router, "POST", "/chats", api.CreateChatRequest{InstanceId: id}).Code)
	}

	chats := decode[api.GetChatsResponse](t, httpRequest(t, router, "GET", "/chats?limit=2", nil))
	require.Len(t, chats.Chats, 2)
	assert.Equal(t, "a", chats.Chats[0].InstanceId)
	assert.Nil(t, chats.Chats[0].History)

	rr := httpRequest(t, router, "GET", "/chats?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httpRequest(t, router, "GET", "/chats?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStreamChats(t *testing.T) {
	router := newRouter(llm.Echo{})

	for _, id := range []string{"a", "b"} {
		require.Equal(t, http.StatusOK, httpRequest(t, router, "POST", "/chats", api.CreateChatRequest{InstanceId: id}).Code)
	}

	rr := httpRequest(t, router, "GET", "/chats/stream", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	ids := []string{}
	scanner := bufio.NewScanner(strings.NewReader(rr.Body.String()))
	for scanner.Scan() {
		var msg struct {
			Data  api.ChatSummary
			Error string
			Code  int
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		assert.Equal(t, http.StatusOK, msg.Code)
		ids = append(ids, msg.Data.InstanceId)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestCompleteText_Stateless(t *testing.T) {
	router := newRouter(llm.Echo{})

	res := decode[api.CompletionResponse](t, httpRequest(t, router, "POST", "/complete", api.CompletionRequest{User: "one off"}))
	assert.Equal(t, "echo (0 prior messages): one off", res.Assistant)
	assert.Empty(t, res.InstanceId)

	chats := decode[api.GetChatsResponse](t, httpRequest(t, router, "GET", "/chats", nil))
	assert.Empty(t, chats.Chats)
}

func TestErrorStatusCodes(t *testing.T) {
	router := newRouter(failingCompleter{})

	rr := httpRequest(t, router, "POST", "/complete", api.CompletionRequest{User: "hi"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = httpRequest(t, router, "POST", "/summarize", api.SummarizeRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httpRequest(t, router, "POST", "/chats", api.CreateChatRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest("POST", "/chats", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rr = httpRequest(t, router, "POST", "/invoke/dropTables", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestEngineErrorCodes(t *testing.T) {
	cases := map[error]int{
		engine.ErrValidation:       http.StatusBadRequest,
		engine.ErrNotFound:         http.StatusNotFound,
		engine.ErrAlreadyExists:    http.StatusConflict,
		engine.ErrUnknownOperation: http.StatusNotImplemented,
		engine.ErrBackend:          http.StatusBadGateway,
		engine.ErrStoreUnavailable: http.StatusServiceUnavailable,
		errors.New("other"):        http.StatusInternalServerError,
		// An explicit code wins over the engine kind.
		backend.CodedError(http.StatusTeapot, engine.ErrBackend): http.StatusTeapot,
	}

	for cause, code := range cases {
		err := fmt.Errorf("wrapped: %w", cause)

		router := chi.NewRouter()
		router.Get("/", backend.RestHandler(func(r *http.Request) (any, error) {
			return nil, err
		}))
		router.Get("/stream", backend.RestStreamHandler(func(r *http.Request) (backend.StreamResponse, error) {
			return func(yield func(any, error) bool) {
				if yield("first", nil) {
					yield(nil, err)
				}
			}, nil
		}))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, code, rr.Code, cause.Error())

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/stream", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
		require.Len(t, lines, 2)

		var msg backend.StreamMessage
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
		assert.Equal(t, code, msg.Code, cause.Error())
		assert.Contains(t, msg.Error, "wrapped")
	}
}

func TestInvokeRoute(t *testing.T) {
	router := newRouter(llm.Echo{})

	rr := httpRequest(t, router, "POST", "/invoke/createChat", map[string]string{"instanceId": "raw"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{}`, rr.Body.String())

	rr = httpRequest(t, router, "POST", "/invoke/getChat", map[string]string{"instanceId": "raw"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"history":{"items":[]}}`, rr.Body.String())

	// Unlike GET /chats/{id}, the raw operation reports a missing chat as a
	// response without history.
	rr = httpRequest(t, router, "POST", "/invoke/getChat", map[string]string{"instanceId": "missing"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())

	ops := decode[api.ListOperationsResponse](t, httpRequest(t, router, "GET", "/operations", nil))
	assert.Len(t, ops.Operations, 6)
}

func TestHealth(t *testing.T) {
	router := newRouter(llm.Echo{})
	rr := httpRequest(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
