package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/config"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/mcp"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/hiyaw/hiyaw-admin/internal/repository"
	"github.com/hiyaw/hiyaw-admin/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "0.1.0"

func main() {
	// A missing .env is normal outside development.
	dotenvErr := loadDotenv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries JSON-RPC in stdio mode.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	if dotenvErr != nil {
		logger.Warn("ignoring .env", "error", dotenvErr)
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	registry := preview.NewRegistry(cfg.Preview.PublicURL, cfg.Preview.MaxLive, logger)
	adminSvc := admin.NewService(admin.Config{
		Trainings: training.NewService(repository.NewTrainingRepository(client), logger),
		Projects:  project.NewService(repository.NewProjectRepository(client), logger),
		Locators:  registry,
		Timeout:   cfg.Backend.Timeout,
		MediaRoot: cfg.Media.Root,
		Logger:    logger,
	})
	defer adminSvc.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Admin:   adminSvc,
		Version: version,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	previews := registry.Routes(cfg.Preview.AllowedOrigins)
	if cfg.Transport.Mode == config.TransportStdio {
		err = runStdioMode(ctx, logger, cfg, mcpServer, previews)
	} else {
		err = runHTTPMode(ctx, logger, cfg, mcpServer, previews)
	}
	if err != nil {
		logger.Error("server error", "error", err)
		adminSvc.Close()
		os.Exit(1)
	}
}

// runStdioMode serves MCP over stdin/stdout. Previews are still served over
// HTTP when a port is configured so staged files stay viewable.
func runStdioMode(ctx context.Context, logger *slog.Logger, cfg config.Config, mcpServer *sdkmcp.Server, previews http.Handler) error {
	logger.Info("starting stdio transport")

	if cfg.Server.Port > 0 {
		previewServer := &http.Server{
			Addr:              listenAddr(cfg),
			Handler:           transport.NewServer(transport.Config{Previews: previews, Logger: logger}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("preview server listening", "addr", previewServer.Addr)
			if err := previewServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("preview server unavailable", "error", err)
			}
		}()
		defer shutdown(logger, previewServer)
	}

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, cfg config.Config, mcpServer *sdkmcp.Server, previews http.Handler) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	httpServer := &http.Server{
		Addr: listenAddr(cfg),
		Handler: transport.NewServer(transport.Config{
			MCP:      mcpHandler,
			Previews: previews,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "backend", cfg.Backend.URL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdown(logger, httpServer)
	return nil
}

func shutdown(logger *slog.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func listenAddr(cfg config.Config) string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
