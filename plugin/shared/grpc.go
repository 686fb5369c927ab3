package shared

import (
	"context"
	"fmt"

	"ai-engine/internal/engine"
	"ai-engine/plugin/proto"
)

// GRPCClient is an implementation of engine.Invoker that talks over gRPC.
type GRPCClient struct{ client proto.EngineClient }

func remoteError(kind, message string) error {
	if kind == "" {
		return nil
	}
	return engine.KindError(kind, message)
}

func (m *GRPCClient) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	resp, err := m.client.Invoke(ctx, &proto.InvokeRequest{Operation: operation, Data: data})
	if err != nil {
		return nil, fmt.Errorf("error calling engine plugin: %w", err)
	}
	if err := remoteError(resp.ErrorKind, resp.ErrorMessage); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (m *GRPCClient) ListOperations(ctx context.Context) ([]string, error) {
	resp, err := m.client.ListOperations(ctx, &proto.ListOperationsRequest{})
	if err != nil {
		return nil, fmt.Errorf("error calling engine plugin: %w", err)
	}
	if err := remoteError(resp.ErrorKind, resp.ErrorMessage); err != nil {
		return nil, err
	}
	return resp.Operations, nil
}

// Here is the gRPC server that GRPCClient talks to.
type GRPCServer struct {
	proto.UnimplementedEngineServer
	// This is the real implementation
	Impl engine.Invoker
}

// Engine errors travel in the response so their kind survives; a gRPC status
// error means the transport itself failed.
func (m *GRPCServer) Invoke(ctx context.Context, req *proto.InvokeRequest) (*proto.InvokeResponse, error) {
	data, err := m.Impl.Invoke(ctx, req.Operation, req.Data)
	resp := &proto.InvokeResponse{Data: data}
	if err != nil {
		resp.ErrorKind, resp.ErrorMessage = engine.ErrorKind(err), err.Error()
	}
	return resp, nil
}

func (m *GRPCServer) ListOperations(ctx context.Context, req *proto.ListOperationsRequest) (*proto.ListOperationsResponse, error) {
	ops, err := m.Impl.ListOperations(ctx)
	resp := &proto.ListOperationsResponse{Operations: ops}
	if err != nil {
		resp.ErrorKind, resp.ErrorMessage = engine.ErrorKind(err), err.Error()
	}
	return resp, nil
}
