package shared

import (
	"context"
	"fmt"
	"net/rpc"

	"ai-engine/internal/engine"
)

// RPCClient is an implementation of engine.Invoker that talks over RPC. net/rpc
// has no notion of cancellation, so ctx is only checked before each call.
type RPCClient struct{ client *rpc.Client }

func (m *RPCClient) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp InvokeResponse
	if err := m.client.Call("Plugin.Invoke", InvokeRequest{Operation: operation, Data: data}, &resp); err != nil {
		return nil, fmt.Errorf("error calling engine plugin: %w", err)
	}
	if err := resp.Error.asError(); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (m *RPCClient) ListOperations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp ListOperationsResponse
	if err := m.client.Call("Plugin.ListOperations", new(interface{}), &resp); err != nil {
		return nil, fmt.Errorf("error calling engine plugin: %w", err)
	}
	if err := resp.Error.asError(); err != nil {
		return nil, err
	}
	return resp.Operations, nil
}

// Here is the RPC server that RPCClient talks to, conforming to
// the requirements of net/rpc
type RPCServer struct {
	// This is the real implementation
	Impl engine.Invoker
}

func (m *RPCServer) Invoke(req InvokeRequest, resp *InvokeResponse) error {
	data, err := m.Impl.Invoke(context.Background(), req.Operation, req.Data)
	*resp = InvokeResponse{Data: data, Error: toRemoteError(err)}
	return nil
}

func (m *RPCServer) ListOperations(args interface{}, resp *ListOperationsResponse) error {
	ops, err := m.Impl.ListOperations(context.Background())
	*resp = ListOperationsResponse{Operations: ops, Error: toRemoteError(err)}
	return nil
}
