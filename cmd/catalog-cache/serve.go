package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(GetConfigPath(configPath), debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config (default $CATALOG_CONFIG_FILE or "+defaultConfigPath+")")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable development logging")

	return cmd
}

func runServe(configPath string, debug bool) error {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot(configPath, debug)
	if err != nil {
		return err
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := root.HTTPServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a startup failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		root.Logger.Error("Server failed", zap.Error(err))
		return err
	}

	root.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return nil
}
