package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gomlready/internal/config"
	"gomlready/internal/container"
)

func main() {
	appConfig, err := config.Load(os.Getenv("GOMLREADY_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Serve(ctx); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
