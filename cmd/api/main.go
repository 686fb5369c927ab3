package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ai-engine/cmd"
	"ai-engine/internal/api"
	"ai-engine/internal/config"
	"ai-engine/internal/engine"
	"ai-engine/internal/messaging"
	"ai-engine/plugin/shared"
)

// connectEngine picks where the engine runs: a plugin process, workers behind
// RabbitMQ, or this process.
func connectEngine(cfg *config.Config) (engine.Invoker, func()) {
	switch {
	case cfg.EnginePluginPath != "":
		log.Printf("launching engine plugin %s", cfg.EnginePluginPath)
		plugin, err := shared.LoadEnginePlugin(cfg.EnginePluginPath)
		if err != nil {
			log.Fatalf("Failed to load engine plugin: %v", err)
		}
		return plugin, plugin.Release

	case cfg.RabbitMQURL != "":
		log.Printf("sending engine requests to queue %s", cfg.EngineQueue)
		client, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL, cfg.EngineQueue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		return client, client.Close

	default:
		e, resources, err := cmd.BuildEngine(context.Background(), cfg)
		if err != nil {
			resources.Close()
			log.Fatalf("Failed to build engine: %v", err)
		}
		return e, resources.Close
	}
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	invoker, release := connectEngine(cfg)
	defer release()

	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout

	api.NewEngineService(invoker).AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
