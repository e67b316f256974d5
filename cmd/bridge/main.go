// Command bridge runs the bridge and spawns a JS host process with the
// channel locations in its environment:
//
//	bridge -- node host.js
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mobilemsg/push-js-bridge/bridge"
	"github.com/mobilemsg/push-js-bridge/internal/conf"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	hostArgs := hostCommand(os.Args[1:])
	if len(hostArgs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: bridge -- <host command> [args...]")
		os.Exit(2)
	}

	baseURL := os.Getenv("PUSH_API_BASE_URL")
	if baseURL == "" {
		log.Fatal("PUSH_API_BASE_URL is required")
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
	defer b.Stop()

	cmd := exec.CommandContext(ctx, hostArgs[0], hostArgs[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	for key, value := range b.GetEnvVars() {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start host: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("Shutting down...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			log.Printf("Host exited: %v", err)
		}
	}
}

// hostCommand strips an optional leading "--" separator.
func hostCommand(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
