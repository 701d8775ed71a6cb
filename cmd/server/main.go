package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/api"
	"github.com/studypilot/studypilot/internal/config"
	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/storage"
	"github.com/studypilot/studypilot/internal/store"
	"github.com/studypilot/studypilot/internal/tasks"
	"github.com/studypilot/studypilot/internal/youtube"
)

func main() {
	// Load configuration
	config.LoadConfig()

	logger, err := newLogger(config.AppConfig.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	namespace, err := uuid.Parse(config.AppConfig.UUIDNamespace)
	if err != nil {
		logger.Fatal("UUID_NAMESPACE is not a valid UUID", zap.Error(err))
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	ctx := context.Background()

	// Model client
	gemini, err := core.NewGeminiService(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GenerationTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	defer gemini.Close()

	// Blob storage for uploads
	uploader, err := storage.NewGCSUploader(ctx, config.AppConfig.StorageBucket, config.AppConfig.StorageCDNDomain, logger)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	defer uploader.Close()

	// YouTube metadata client
	ytClient, err := youtube.NewClient(ctx, config.AppConfig.YouTubeAPIKey)
	if err != nil {
		logger.Fatal("Failed to initialize YouTube client", zap.Error(err))
	}

	// Background workers for summaries and conversation persistence. The
	// task timeout matches the generation timeout since most tasks call the
	// model.
	runner := tasks.NewRunner(4, 128, config.AppConfig.GenerationTimeout, logger)
	defer runner.Close()

	// Source fetch cache
	fileCache := core.NewFileCache(config.AppConfig.FileCacheSize, config.AppConfig.FileCacheTTL, logger)

	// Services
	userService := core.NewUserService(dbStore, logger)
	workspaceService := core.NewWorkspaceService(dbStore, namespace, logger)
	fileService := core.NewFileService(dbStore, uploader, gemini, runner, config.AppConfig.RegularModel, logger)
	videoService := core.NewVideoService(dbStore, ytClient, logger)
	chatService := core.NewChatService(dbStore, gemini, fileCache, fileService, config.AppConfig.RegularModel, logger)
	generationService := core.NewGenerationService(dbStore, gemini, fileCache, runner, config.AppConfig.ThinkingModel, config.AppConfig.RegularModel, logger)
	quizService := core.NewQuizService(dbStore, logger)
	flashcardService := core.NewFlashcardService(dbStore, logger)

	// API
	apiHandler := api.NewAPIHandler(
		dbStore,
		userService,
		workspaceService,
		fileService,
		videoService,
		chatService,
		generationService,
		quizService,
		flashcardService,
		logger,
	)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // Uploads can be large
		WriteTimeout: 180 * time.Second, // Generation calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "DEBUG" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
