package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"quizmaker/internal/api"
	"quizmaker/internal/archive"
	"quizmaker/internal/config"
	"quizmaker/internal/db"
	"quizmaker/internal/gemini"
	"quizmaker/internal/ledger"
	"quizmaker/internal/logger"
	"quizmaker/internal/quiz"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}
	if cfg.JWTSecret == "" && cfg.QuotaEnforcement {
		logger.Fatal("JWT_SECRET must be set when quota enforcement is on")
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("failed to bootstrap schema", "error", err)
	}

	geminiClient := gemini.NewClient()
	generator := quiz.NewGenerator(geminiClient)

	accounts := ledger.NewService(ledger.NewRepository(database.Pool), cfg.JWTSecret, cfg.DevBypassEmail)

	handler := &api.Handler{
		Keys:          cfg,
		Verifier:      geminiClient,
		Generator:     generator,
		Accounts:      accounts,
		QuotaEnforced: cfg.QuotaEnforcement,
	}

	archiveClient, err := archive.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialize document archive", "error", err)
	}
	if archiveClient != nil {
		handler.Archive = archiveClient
	}

	router := gin.Default()
	api.SetupRoutes(router, handler, cfg.JWTSecret, cfg.FrontendURL)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr(), "quota_enforcement", cfg.QuotaEnforcement)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited properly")
}
