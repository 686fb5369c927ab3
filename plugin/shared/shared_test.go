package shared_test

import (
	"context"
	"testing"

	"github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-engine/internal/engine"
	"ai-engine/internal/llm"
	"ai-engine/internal/state"
	"ai-engine/plugin/proto"
	"ai-engine/plugin/shared"
)

func newEngine() *engine.Engine {
	return engine.New(state.NewMemoryStore(), llm.Echo{}, nil, engine.Options{})
}

func exerciseInvoker(t *testing.T, invoker engine.Invoker) {
	ctx := context.Background()

	ops, err := invoker.ListOperations(ctx)
	require.NoError(t, err)
	assert.Contains(t, ops, engine.OpCompleteText)

	out, err := invoker.Invoke(ctx, engine.OpCreateChat, []byte(`{"instanceId":"p1","system":"sys"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))

	out, err = invoker.Invoke(ctx, engine.OpCompleteText, []byte(`{"instanceId":"p1","user":"hi"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"assistant":"echo (1 prior messages): hi","instanceId":"p1"}`, string(out))

	_, err = invoker.Invoke(ctx, engine.OpCreateChat, []byte(`{"instanceId":"p1"}`))
	require.ErrorIs(t, err, engine.ErrAlreadyExists)

	_, err = invoker.Invoke(ctx, "nope", nil)
	require.ErrorIs(t, err, engine.ErrUnknownOperation)

	_, err = invoker.Invoke(ctx, engine.OpGetChat, []byte(`not json`))
	require.ErrorIs(t, err, engine.ErrValidation)
}

func TestRPCPlugin(t *testing.T) {
	client, _ := plugin.TestPluginRPCConn(t, shared.ServePlugins(newEngine()), nil)
	defer client.Close()

	raw, err := client.Dispense(shared.RPCPluginName)
	require.NoError(t, err)

	invoker, ok := raw.(engine.Invoker)
	require.True(t, ok)

	exerciseInvoker(t, invoker)
}

func TestGRPCPlugin(t *testing.T) {
	client, server := plugin.TestPluginGRPCConn(t, false, shared.ServePlugins(newEngine()))
	defer client.Close()
	defer server.Stop()

	raw, err := client.Dispense(shared.GRPCPluginName)
	require.NoError(t, err)

	invoker, ok := raw.(engine.Invoker)
	require.True(t, ok)

	exerciseInvoker(t, invoker)
}

func TestGRPCServer_ErrorInResponse(t *testing.T) {
	server := &shared.GRPCServer{Impl: newEngine()}

	resp, err := server.Invoke(context.Background(), &proto.InvokeRequest{Operation: "nope"})
	require.NoError(t, err)
	assert.Equal(t, engine.KindUnknownOperation, resp.GetErrorKind())
	assert.NotEmpty(t, resp.GetErrorMessage())
	assert.Empty(t, resp.GetData())

	resp, err = server.Invoke(context.Background(), &proto.InvokeRequest{Operation: engine.OpGetChat, Data: []byte(`{"instanceId":"x"}`)})
	require.NoError(t, err)
	assert.Empty(t, resp.GetErrorKind())
	assert.JSONEq(t, `{}`, string(resp.GetData()))

	ops, err := server.ListOperations(context.Background(), &proto.ListOperationsRequest{})
	require.NoError(t, err)
	assert.Empty(t, ops.GetErrorKind())
	assert.Len(t, ops.GetOperations(), 6)
}
