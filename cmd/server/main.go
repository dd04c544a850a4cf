package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikedutoitzs/floogleads/internal/api"
	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/config"
	"github.com/mikedutoitzs/floogleads/internal/generator"
	"github.com/mikedutoitzs/floogleads/internal/logging"
	"github.com/mikedutoitzs/floogleads/internal/sitefetch"
	"github.com/mikedutoitzs/floogleads/internal/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stateStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}
	defer stateStore.Close()

	// Initialize Gemini client
	geminiClient, err := generator.NewGeminiClient(ctx, generator.Config{
		APIKey:     cfg.Gemini.APIKey,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	defer geminiClient.Close()

	if cfg.SiteFetch.Enabled {
		geminiClient.WithPageFetcher(sitefetch.NewChromeFetcher(cfg.SiteFetch.Timeout, logger))
		logger.Info("Page snapshots enabled", zap.Duration("timeout", cfg.SiteFetch.Timeout))
	}

	service, err := campaign.NewService(ctx, stateStore, geminiClient, logger)
	if err != nil {
		logger.Fatal("Failed to start campaign service", zap.Error(err))
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(service, logger), logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("AdCraft server starting", zap.String("port", cfg.Port))
		logger.Info("Campaign API available", zap.String("url", "http://localhost:"+cfg.Port+"/api/campaign"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
