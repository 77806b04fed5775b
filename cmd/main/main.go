package main

import (
	"context"

	"storefront/engine/internal/config"
	"storefront/engine/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting storefront session engine...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	// Run the demo session
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Session exited with error: %v", err)
	}

	log.Info("Session finished successfully")
}
