package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-engine/cmd"
	"ai-engine/internal/config"
	"ai-engine/internal/messaging"
)

func main() {
	log.Println("Starting Worker Process...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatalf("RABBITMQ_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	e, resources, err := cmd.BuildEngine(ctx, cfg)
	defer resources.Close()
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL, cfg.EngineQueue, cfg.WorkerConcurrency)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer receiver.Close()

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")

	messaging.NewWorker(e, receiver, cfg.WorkerConcurrency).Run(ctx)

	log.Println("Worker process stopped.")
}
