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

	"staffing_bridge/internal/config"
	"staffing_bridge/internal/handler"
	"staffing_bridge/internal/middleware"
	"staffing_bridge/internal/realtime"
	"staffing_bridge/internal/repository"
	"staffing_bridge/internal/service"
	"staffing_bridge/internal/slack"
	"staffing_bridge/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// One configured Slack client for the whole process.
	slackClient := slack.NewClient(cfg.Slack.APIBaseURL, cfg.Slack.BotToken, cfg.Slack.Timeout)

	hub := realtime.NewHub()

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, slackClient, hub, cfg, appLogger)

	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)
	signatureMiddleware := middleware.NewSignatureMiddleware(cfg.Slack.SigningSecret, cfg.Slack.ReplayWindow, appLogger)

	handlers := handler.NewHandlers(services, hub, cfg, appLogger)

	router := setupRouter(handlers, rateLimitMiddleware, signatureMiddleware, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	signatureMiddleware *middleware.SignatureMiddleware,
	cfg *config.Config,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	v1 := router.Group("/api/v1")
	{
		// Collaborator boundary: the public dashboard posting new requests.
		v1.POST("/requests", rateLimitMiddleware.Limit(), handlers.Request.Create)

		// Chat bridge, used by both viewer surfaces.
		v1.POST("/messages", handlers.Chat.PostMessage)
		v1.GET("/messages", handlers.Chat.ListMessages)

		// Interactive-action callbacks from the messaging platform.
		v1.POST("/slack/actions", signatureMiddleware.Verify(), handlers.Webhook.HandleAction)

		v1.GET("/stats", handlers.Stats.Overview)
	}

	// Realtime message stream per request.
	router.GET("/ws/requests/:id", handlers.WebSocket.HandleMessages)

	return router
}
