package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidbrief/api"
	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/events"
	"vidbrief/logging"
	"vidbrief/metadata"
	"vidbrief/recent"
	"vidbrief/store"
	"vidbrief/theme"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.LogDir, cfg.LogLevel, true)
	if err != nil {
		fmt.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := serve(cfg); err != nil {
		logrus.WithError(err).Fatal("Gateway stopped")
	}
}

func serve(cfg *config.Config) error {
	ctx := context.Background()

	kv, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer kv.Close()

	publisher := events.Open(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	// the gateway has no terminal to query, so an unset preference is light
	themes := theme.NewManager(ctx, kv, func() bool { return false })

	s := api.NewServer(
		client.New(cfg.BackendURL, cfg.HTTPTimeout),
		recent.NewStore(kv),
		themes,
		publisher,
	)
	s.UseEnricher(metadata.Open(ctx, cfg.YouTube))

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(s, cfg.RateLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithFields(logrus.Fields{
		"addr":    srv.Addr,
		"backend": cfg.BackendURL,
		"store":   cfg.Store.Kind,
		"kafka":   len(cfg.Kafka.Brokers) > 0,
		"youtube": cfg.YouTube.Enabled(),
	}).Info("Starting API gateway")
	logrus.Info("API endpoints available:")
	logrus.Info("  POST /process")
	logrus.Info("  POST /export-summary")
	logrus.Info("  GET  /exports/:filename")
	logrus.Info("  GET  /api/recent, POST /api/recent")
	logrus.Info("  GET  /api/theme, PUT /api/theme")
	logrus.Info("  GET  /api/health")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logrus.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
