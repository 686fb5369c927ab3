package main

import (
	"context"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"ai-engine/cmd"
	"ai-engine/internal/config"
	"ai-engine/plugin/shared"
)

// Serves the engine as a go-plugin. It is started by cmd/api when
// ENGINE_PLUGIN_PATH points at this binary and inherits its environment.
func main() {
	// stdout belongs to the plugin handshake.
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e, resources, err := cmd.BuildEngine(context.Background(), cfg)
	defer resources.Close()
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.Handshake,
		Plugins:         shared.ServePlugins(e),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:       "engine",
			Output:     os.Stderr,
			Level:      hclog.Info,
			JSONFormat: true,
		}),
	})
}
