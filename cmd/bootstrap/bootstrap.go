package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook-server/config"
	deliveryHttp "medibook-server/internal/delivery/http"
	"medibook-server/internal/delivery/http/handler"
	"medibook-server/internal/delivery/http/middleware"
	"medibook-server/internal/infrastructure/cache"
	"medibook-server/internal/repository"
	"medibook-server/internal/service"
	"medibook-server/internal/usecase"
	"medibook-server/pkg/jwt"
	"medibook-server/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize Redis (session and OTP state)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, redisClient *redis.Client) *http.Server {
	// Initialize session token service
	tokenService := jwt.NewSessionTokenService(cfg.Session)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	formSessionRepo := repository.NewFormSessionRepository(redisClient, cfg.Session.TTL)
	chatSessionRepo := repository.NewChatSessionRepository(redisClient, cfg.Session.TTL)

	// Initialize services
	otpService := service.NewOTPService(redisClient, log)
	sheetsService := service.NewSheetsService(cfg.Sheets, log)
	smsService := service.NewSMSService(formSessionRepo, chatSessionRepo, cfg.SMS, log)
	profileProvider := service.NewLineProfileService(cfg.Line, log)

	// Initialize usecases
	formUsecase := usecase.NewFormWizardUsecase(log, formSessionRepo, otpService, sheetsService, smsService, profileProvider, tokenService)
	chatUsecase := usecase.NewChatWizardUsecase(log, chatSessionRepo, sheetsService, smsService)

	// Initialize handlers
	formHandler := handler.NewFormHandler(formUsecase, customValidator)
	chatHandler := handler.NewChatHandler(chatUsecase, customValidator)
	catalogHandler := handler.NewCatalogHandler()

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(tokenService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(formHandler, chatHandler, catalogHandler, sessionMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (redis, etc.)
func (app *App) Close() {
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
