package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mobilemsg/push-js-bridge/bridge"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
)

const defaultAPIBaseURL = "https://api.push.example.com"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	baseURL := os.Getenv("PUSH_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}

	apiKey, err := conf.ResolveAPIKey()
	if err != nil {
		log.Fatalf("Failed to resolve API key: %v", err)
	}

	baseDir := os.Getenv("PUSH_BRIDGE_DIR")
	if baseDir == "" {
		homeDir, _ := os.UserHomeDir()
		baseDir = filepath.Join(homeDir, ".push-js-bridge")
	}

	b, err := bridge.New(bridge.Config{
		APIBaseURL: baseURL,
		APIKey:     apiKey,
		BaseDir:    baseDir,
		ConfigPath: os.Getenv("PUSH_BRIDGE_CONFIG"),
		Debug:      os.Getenv("PUSH_BRIDGE_DEBUG") == "true",
	})
	if err != nil {
		log.Fatalf("Failed to create bridge: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Start(ctx); err != nil {
		log.Fatalf("Failed to start bridge: %v", err)
	}

	for key, value := range b.GetEnvVars() {
		fmt.Printf("%s=%s\n", key, value)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	b.Stop()
}
