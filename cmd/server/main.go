package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everyonewrite/writeguide/internal/api"
	"github.com/everyonewrite/writeguide/internal/assistant"
	"github.com/everyonewrite/writeguide/internal/auth"
	"github.com/everyonewrite/writeguide/internal/cache"
	"github.com/everyonewrite/writeguide/internal/config"
	"github.com/everyonewrite/writeguide/internal/db"
	"github.com/everyonewrite/writeguide/internal/llm"
	"github.com/everyonewrite/writeguide/internal/order"
	"github.com/everyonewrite/writeguide/internal/translate"
	"github.com/everyonewrite/writeguide/internal/user"
	"github.com/everyonewrite/writeguide/internal/utools"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	userRepo := user.NewUserRepository(database)
	orderRepo := order.NewOrderRepository(database)
	taskRepo := assistant.NewWritingTaskRepository(database)

	ctx := context.Background()
	for _, init := range []func(context.Context) error{
		userRepo.InitializeDatabase,
		orderRepo.InitializeDatabase,
		taskRepo.InitializeDatabase,
	} {
		if err := init(ctx); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	utoolsClient := utools.NewClient(cfg.UtoolsBaseURL, cfg.UtoolsPluginID, cfg.UtoolsSecret)

	tencentClient, err := translate.NewClient(cfg.TencentSecretID, cfg.TencentSecretKey, cfg.TencentRegion)
	if err != nil {
		log.Fatalf("Failed to create translation client: %v", err)
	}
	translator := translate.Cached(tencentClient, cache.NewInMemoryResultCache())

	dispatcher := llm.NewDispatcher()
	dispatcher.Register(llm.NewSiliconFlowClient(cfg.SiliconFlowURL, cfg.SiliconFlowAPIKey), llm.SiliconFlowModels...)
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		dispatcher.Register(gemini, llm.GeminiModels...)
	}

	orderService := order.NewService(orderRepo, utoolsClient, cfg.TokensPerYuan)
	assistantService := assistant.NewService(translator, dispatcher, userRepo, taskRepo)

	issuer := auth.NewIssuer(
		cfg.JWTSecret,
		time.Duration(cfg.AccessExpiryHours)*time.Hour,
		time.Duration(cfg.RefreshExpiryHours)*time.Hour,
	)
	verifier := auth.NewHS256Verifier(cfg.JWTSecret)

	router := api.SetupRoutes(
		api.NewAuthHandler(utoolsClient, userRepo, issuer, float64(cfg.DefaultTokenBalance)),
		api.NewAssistantHandler(assistantService, userRepo),
		api.NewOrderHandler(orderService),
		verifier,
		userRepo,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
