package shared

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"

	"ai-engine/internal/engine"
	"ai-engine/plugin/proto"
)

// Handshake is a common handshake that is shared by plugin and host.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "AI_ENGINE_PLUGIN",
	MagicCookieValue: "conversation-engine",
}

const (
	RPCPluginName  = "engine"
	GRPCPluginName = "engine_grpc"
)

// PluginMap is the map of plugins we can dispense.
var PluginMap = map[string]plugin.Plugin{
	RPCPluginName:  &EngineRPCPlugin{},
	GRPCPluginName: &EngineGRPCPlugin{},
}

// ServePlugins returns the plugin set a plugin binary serves for impl.
func ServePlugins(impl engine.Invoker) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		RPCPluginName:  &EngineRPCPlugin{Impl: impl},
		GRPCPluginName: &EngineGRPCPlugin{Impl: impl},
	}
}

// RemoteError carries an engine error across the net/rpc boundary so its kind
// survives.
type RemoteError struct {
	Kind    string
	Message string
}

func toRemoteError(err error) *RemoteError {
	if err == nil {
		return nil
	}
	return &RemoteError{Kind: engine.ErrorKind(err), Message: err.Error()}
}

func (e *RemoteError) asError() error {
	if e == nil {
		return nil
	}
	return engine.KindError(e.Kind, e.Message)
}

// net/rpc messages. The gRPC transport uses the generated types in
// plugin/proto instead.
type InvokeRequest struct {
	Operation string
	Data      []byte
}

type InvokeResponse struct {
	Data  []byte
	Error *RemoteError
}

type ListOperationsResponse struct {
	Operations []string
	Error      *RemoteError
}

// EngineRPCPlugin is the net/rpc implementation of plugin.Plugin.
type EngineRPCPlugin struct {
	Impl engine.Invoker
}

func (p *EngineRPCPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

func (*EngineRPCPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// EngineGRPCPlugin is the gRPC implementation of plugin.GRPCPlugin.
type EngineGRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl engine.Invoker
}

func (p *EngineGRPCPlugin) GRPCServer(broker *plugin.GRPCBroker, s *grpc.Server) error {
	proto.RegisterEngineServer(s, &GRPCServer{Impl: p.Impl})
	return nil
}

func (p *EngineGRPCPlugin) GRPCClient(ctx context.Context, broker *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return &GRPCClient{client: proto.NewEngineClient(c)}, nil
}

var (
	_ engine.Invoker = (*RPCClient)(nil)
	_ engine.Invoker = (*GRPCClient)(nil)
)
