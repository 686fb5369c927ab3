package shared

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"ai-engine/internal/engine"
)

// EnginePlugin is an engine running in a child process.
type EnginePlugin struct {
	client *plugin.Client
	engine engine.Invoker
}

var _ engine.Invoker = (*EnginePlugin)(nil)

func LoadEnginePlugin(executable string, args ...string) (*EnginePlugin, error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap,
		Cmd:             exec.Command(executable, args...),
		AllowedProtocols: []plugin.Protocol{
			plugin.ProtocolNetRPC, plugin.ProtocolGRPC},
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   "engine-plugin",
			Output: os.Stderr,
			Level:  hclog.Info,
		}),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("error establishing RPC connection: %w", err)
	}

	name := GRPCPluginName
	if client.Protocol() == plugin.ProtocolNetRPC {
		name = RPCPluginName
	}

	raw, err := rpcClient.Dispense(name)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("error dispensing '%s': %w", name, err)
	}

	invoker, ok := raw.(engine.Invoker)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("dispensed interface '%s' is not of expected type engine.Invoker (actual type: %T)", name, raw)
	}

	return &EnginePlugin{client: client, engine: invoker}, nil
}

func (p *EnginePlugin) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	return p.engine.Invoke(ctx, operation, data)
}

func (p *EnginePlugin) ListOperations(ctx context.Context) ([]string, error) {
	return p.engine.ListOperations(ctx)
}

func (p *EnginePlugin) Release() {
	if p.client == nil {
		return
	}

	p.client.Kill()
	p.client = nil
	p.engine = nil
}
