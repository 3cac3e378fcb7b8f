// Package main provides the MCP entry point for the BAMIC return-to-play server.
// It requires no config file or external services; Redis is optional.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bamic-rtp-server/internal/config"
	"github.com/bamic-rtp-server/internal/domain"
	"github.com/bamic-rtp-server/internal/logging"
	"github.com/bamic-rtp-server/internal/mcp"
	"github.com/bamic-rtp-server/internal/service"
)

var version = "v0.1.0"

func main() {
	// Load lightweight configuration
	cfg := config.LoadLiteConfig()

	// stdout carries the MCP protocol, so logs go to stderr
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, closeCache, err := service.NewResultCache(ctx, domain.CacheConfig{
		Enabled:    true,
		MaxItems:   cfg.CacheMaxItems,
		DefaultTTL: cfg.CacheTTL,
		RedisURL:   cfg.RedisURL,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create result cache")
	}
	defer closeCache()

	assessor := service.NewAssessmentService(logger,
		service.WithResultCache(cache),
		service.WithStrictValidation(cfg.StrictValidation),
	)

	server := mcp.NewServer(
		mcp.ServerInfo{Name: "bamic-rtp-mcp-server", Version: version},
		assessor,
		mcp.WithLogger(logger),
		mcp.WithTransport(cfg.Transport),
		mcp.WithStrictValidation(cfg.StrictValidation),
	)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	// Start MCP server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("MCP server failed")
	}

	logger.Info("BAMIC MCP server stopped")
}
