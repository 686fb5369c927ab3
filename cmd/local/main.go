package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ai-engine/cmd"
	"ai-engine/internal/api"
	"ai-engine/internal/config"
	"ai-engine/internal/messaging"
)

// Runs the api, the engine and a worker in one process, with chats kept in a
// sqlite database under ROOT unless STATE_STORE says otherwise.
type Config struct {
	Root string `env:"ROOT" envDefault:"./ai-engine"`
	Port int    `env:"PORT" envDefault:"3001"`
}

func createServer(queue *messaging.InMemoryQueue, port int) *http.Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},                                // Allow all origins
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"}, // Allow all HTTP methods
		AllowedHeaders:   []string{"*"},                                // Allow all headers
		ExposedHeaders:   []string{"*"},                                // Expose all headers
		AllowCredentials: true,                                         // Allow cookies/auth headers
		MaxAge:           300,                                          // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout

	r.Route("/api/v1", func(r chi.Router) {
		api.NewEngineService(queue).AddRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	cmd.LoadEnvFile()

	var localCfg Config
	if err := env.Parse(&localCfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	if _, ok := os.LookupEnv("STATE_STORE"); !ok {
		dbPath := filepath.Join(localCfg.Root, "db", "ai-engine.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
		os.Setenv("STATE_STORE", config.StoreSqlite)
		os.Setenv("DATABASE_URL", dbPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, resources, err := cmd.BuildEngine(ctx, cfg)
	defer resources.Close()
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	queue := messaging.NewInMemoryQueue()
	worker := messaging.NewWorker(e, queue, cfg.WorkerConcurrency)

	workerDone := make(chan struct{})
	go func() {
		worker.Run(context.Background())
		close(workerDone)
	}()

	server := createServer(queue, localCfg.Port)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("local server listening on port %d", localCfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v", localCfg.Port, err)
	}

	queue.Close()
	<-workerDone

	log.Println("Server stopped.")
}
