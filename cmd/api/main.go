package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"datachat/config"
	_ "datachat/docs" // Swagger docs
	"datachat/internal/agent/orchestrator"
	"datachat/internal/chart"
	chatHTTP "datachat/internal/chat/delivery/http"
	"datachat/internal/chat/repository/memory"
	chatUC "datachat/internal/chat/usecase"
	"datachat/internal/httpserver"
	"datachat/internal/middleware"
	"datachat/internal/sandbox"
	"datachat/pkg/gemini"
	"datachat/pkg/log"
)

// @title       DataChat API
// @description Chat with an uploaded CSV dataset in natural language, backed by the Gemini function-calling API.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting DataChat...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Model: %s", cfg.Gemini.Model)

	// 3. Model API client
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey)
	geminiClient.SetModel(cfg.Gemini.Model)

	// 4. Chart rendering + retention
	renderer, err := chart.NewRenderer(cfg.Charts.Dir)
	if err != nil {
		logger.Error(ctx, "Failed to initialize chart renderer: ", err)
		return
	}
	charts, err := chart.NewRegistry(logger, cfg.Charts.Dir, cfg.Charts.MaxEntries, cfg.Charts.TTL)
	if err != nil {
		logger.Error(ctx, "Failed to initialize chart registry: ", err)
		return
	}

	// 5. Restricted analysis evaluator
	evaluator := sandbox.New(cfg.Sandbox.Timeout, cfg.Sandbox.MaxCodeChars)

	// 6. Chat domain: store → usecase → delivery
	sessionRepo := memory.New(cfg.Session.MaxEntries, cfg.Session.TTL)
	orch := orchestrator.New(geminiClient, logger)
	uc := chatUC.New(logger, sessionRepo, orch, evaluator, renderer, charts, chatUC.Config{
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		PreviewRows:     cfg.Upload.PreviewRows,
		MaxMessageChars: cfg.Chat.MaxMessageChars,
	})
	chatHandler := chatHTTP.New(logger, uc, chatHTTP.Config{MaxUploadBytes: cfg.Upload.MaxBytes})

	// 7. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Model:       geminiClient.Model(),
		Sessions:    sessionRepo,
		ChatHandler: chatHandler,
		Middleware:  middleware.New(logger, cfg),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
