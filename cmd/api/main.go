package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/api"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/sdk"
	"go.uber.org/zap"
)

func main() {
	fmt.Println("DriveLister API Server")
	fmt.Println("======================")

	// Load configuration
	configPath := getConfigPath()

	dl, err := sdk.New(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize DriveLister: %v\n", err)
		os.Exit(1)
	}

	cfg := dl.GetConfig()
	if err := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	logging.Info("DriveLister initialized",
		zap.String("config", configPath),
		zap.Bool("loaded", dl.HasConfig()),
		zap.String("host", cfg.API.Host),
		zap.Int("port", cfg.API.Port),
	)

	server := api.NewServer(dl, &cfg.API)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sigChan
		logging.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logging.Error("Error shutting down server", zap.Error(err))
		}
	}()

	logging.Info("Press Ctrl+C to stop the server")

	// I am here to serve.
	if err := server.Start(); err != nil {
		logging.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logging.Info("Server shutdown complete")
}

// getConfigPath returns the configuration file path
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "configs/default.json"
}
