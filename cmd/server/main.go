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

	"chat_platform/internal/config"
	"chat_platform/internal/handler"
	"chat_platform/internal/middleware"
	"chat_platform/internal/repository"
	"chat_platform/internal/service"
	"chat_platform/internal/ws"
	"chat_platform/pkg/logger"

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

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to parse database DSN", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
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

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	hub := ws.NewHub(services.Presence, appLogger)
	go hub.Run()

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, hub, dbPool, rdb, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

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

	if err := hub.Shutdown(5 * time.Second); err != nil {
		appLogger.Warn("Hub did not drain in time", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.Health.Check)
	router.GET("/health/ready", handlers.Health.Ready)

	// API v1
	v1 := router.Group("/api/v1")
	{
		public := v1.Group("/auth")
		{
			public.POST("/register", rateLimitMiddleware.Limit(), handlers.Auth.Register)
			public.POST("/login", rateLimitMiddleware.Limit(), handlers.Auth.Login)
			public.POST("/refresh", handlers.Auth.RefreshToken)
			public.POST("/logout", handlers.Auth.Logout)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			users := protected.Group("/users")
			{
				users.GET("", handlers.User.Search)
				users.GET("/me", handlers.User.GetMe)
				users.PUT("/me", handlers.User.UpdateMe)
				users.GET("/:id", handlers.User.GetByID)
			}

			// Presence
			status := protected.Group("/status")
			{
				status.PUT("", handlers.Presence.SetStatus)
				status.POST("/heartbeat", handlers.Presence.Heartbeat)
				status.GET("/:id", handlers.Presence.GetStatus)
			}

			// Connections
			connect := protected.Group("/connect")
			{
				connect.POST("/:id", handlers.Connection.Request)
				connect.POST("/:id/accept", handlers.Connection.Accept)
				connect.POST("/:id/reject", handlers.Connection.Reject)
			}
			protected.GET("/connections", handlers.Connection.List)

			// Notifications
			protected.POST("/notify/:id", handlers.Notification.Notify)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.Notification.List)
				notifications.GET("/unread", handlers.Notification.UnreadCount)
				notifications.POST("/read-all", handlers.Notification.MarkAllRead)
				notifications.POST("/:id/read", handlers.Notification.MarkRead)
			}

			// Rooms and chat history
			rooms := protected.Group("/rooms")
			{
				rooms.POST("", handlers.Room.Create)
				rooms.GET("", handlers.Room.List)
				rooms.GET("/:id", handlers.Room.GetByID)
				rooms.DELETE("/:id", handlers.Room.Delete)
				rooms.POST("/:id/join", handlers.Room.Join)
				rooms.POST("/:id/leave", handlers.Room.Leave)
				rooms.GET("/:id/members", handlers.Room.GetMembers)
				rooms.GET("/:id/messages", handlers.Chat.GetMessages)
				rooms.POST("/:id/messages", handlers.Chat.SendMessage)
			}
		}

		// Realtime relay. The handler does its own token check because
		// browsers cannot set headers on websocket requests.
		v1.GET("/ws", handlers.WebSocket.Serve)
	}

	return router
}
