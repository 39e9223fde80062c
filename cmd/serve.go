package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"otlabs.dev/labgate/internal/api"
	"otlabs.dev/labgate/internal/auth"
	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/content"
	"otlabs.dev/labgate/internal/labctl"
	"otlabs.dev/labgate/internal/logging"
)

// shutdownGrace is how long in-flight requests get to finish on SIGTERM.
const shutdownGrace = 10 * time.Second

// RunServe starts the gateway and blocks until the process is signalled
// or the listener fails.
func RunServe(configFile, listenOverride string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if listenOverride != "" {
		cfg.API.Listen = listenOverride
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	setupLogging(cfg)
	logger := logging.WithComponent("serve")

	lab := labctl.NewFromConfig(cfg)
	sessions := auth.NewStore(time.Duration(cfg.API.SessionTTLMinutes)*time.Minute, nil)
	srv := api.NewServer(api.ServerOptions{
		Config:   cfg,
		Lab:      lab,
		Catalog:  content.NewMemoryStore(),
		Sessions: sessions,
	})

	// Expired sessions accumulate silently otherwise.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n := sessions.Prune(); n > 0 {
				logger.Debug("Pruned expired sessions", "count", n)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.API.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-errCh:
		return err
	}
}

// loadConfig reads the config file when one is given, otherwise builds
// the config from environment variables alone.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		return config.FromEnv(), nil
	}
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	logging.SetDefault(logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		JSON:   cfg.Log.JSON,
		Output: os.Stderr,
	}))
}
