// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatpal/internal/config"
	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/handlers"
	"github.com/iyunix/go-chatpal/internal/middleware"
	"github.com/iyunix/go-chatpal/internal/repository"
	"github.com/iyunix/go-chatpal/internal/services"
	"github.com/iyunix/go-chatpal/internal/services/ai"
	"github.com/iyunix/go-chatpal/internal/services/render"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func buildAIConfig(cfg *config.Config) *ai.Config {
	aiCfg := ai.DefaultConfig()
	aiCfg.CloudKey = cfg.OpenAIAPIKey
	aiCfg.CloudBaseURL = cfg.OpenAIBaseURL
	aiCfg.CloudTextModel = cfg.CloudTextModel
	aiCfg.CloudVisionModel = cfg.CloudVisionModel
	aiCfg.WhisperModel = cfg.WhisperModel
	aiCfg.LocalHost = cfg.OllamaHost
	aiCfg.LocalTextModel = cfg.LocalTextModel
	aiCfg.LocalVisionModel = cfg.LocalVisionModel
	aiCfg.PreferCloud = cfg.PreferCloud
	aiCfg.TranscribeCLI = cfg.TranscribeCLI
	return aiCfg
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("server")

	db, err := gorm.Open(sqlite.Open("chatpal.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &domain.PromptTemplate{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Upload directory error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	// --- AI wiring ---
	aiCfg := buildAIConfig(cfg)
	if err := aiCfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid AI configuration: %v", err)
	}

	cloudProvider := ai.NewOpenAIProvider(aiCfg)

	var localProvider ai.Provider
	var localLister ai.ModelLister
	if ollamaProvider, err := ai.NewOllamaProvider(aiCfg); err != nil {
		logger.Warn("local provider disabled", "error", err)
	} else {
		localProvider = ollamaProvider
		localLister = ollamaProvider
	}

	var cloudPinger ai.Pinger
	if cfg.OpenAIAPIKey != "" {
		cloudPinger = cloudProvider
	}

	prober := ai.NewProber(aiCfg, cloudPinger, localLister, logger)
	gateway := ai.NewGateway(aiCfg, cloudProvider, localProvider, prober, logger)

	// The startup probe settles the service mode before the first request.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	gateway.Init(probeCtx)
	probeCancel()

	var recognizer ai.SpeechRecognizer
	if cfg.OpenAIAPIKey != "" {
		recognizer = ai.NewWhisperRecognizer(aiCfg)
	}
	transcriber := ai.NewTranscriber(aiCfg, recognizer, logger)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.JWTSecretKey, logger)
	chatService, err := services.NewChatService(chatRepo, messageRepo, templateRepo, gateway, transcriber, cfg.ContextLimit, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}
	renderer := render.New()

	// --- Handlers ---
	secureCookies := strings.ToLower(cfg.Environment) == "production"
	authHandler := handlers.NewAuthHandler(userService, secureCookies)
	chatHandler := handlers.NewChatHandler(chatService, renderer)
	aiHandler := handlers.NewAIHandler(gateway, transcriber)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	templateHandler := handlers.NewTemplateHandler(templateRepo)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET", "POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/chats", chatHandler.GetUserChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/stream", chatHandler.StreamChat).Methods("GET")
	api.HandleFunc("/templates", templateHandler.List).Methods("GET")
	api.HandleFunc("/templates", templateHandler.Create).Methods("POST")
	api.HandleFunc("/templates/{id:[0-9]+}", templateHandler.Delete).Methods("DELETE")
	api.HandleFunc("/uploads", uploadHandler.Upload).Methods("POST")
	api.HandleFunc("/ai/status", aiHandler.Status).Methods("GET")
	api.HandleFunc("/ai/transcribe", aiHandler.Transcribe).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	status := gateway.Status()
	logger.Info("server starting",
		"port", port,
		"mode", string(status.Mode),
		"ai_available", status.Available,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
