package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"livechat/internal/adapter/api"
	"livechat/internal/adapter/api/handler"
	apimiddleware "livechat/internal/adapter/api/middleware"
	"livechat/internal/adapter/api/router"
	"livechat/internal/adapter/repository"
	"livechat/internal/infrastructure/ratelimit"
	"livechat/internal/infrastructure/websocket"
	"livechat/internal/usecase"
	"livechat/pkg/config"
)

const maxSessionTokensPerKey = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	sessionRepo := repository.NewMemorySessionRepository(cfg.SessionTokenTTL, maxSessionTokensPerKey)
	chatRepo := repository.NewMemoryChatRepository()
	presenceRepo := repository.NewMemoryPresenceRepository()
	typingRepo := repository.NewMemoryTypingRepository()

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	hub := websocket.NewHub()
	hub.Start(ctx)

	sessionUseCase := usecase.NewSessionUseCase(sessionRepo, rateLimiter, cfg.ChatPassword)
	chatUseCase := usecase.NewChatUseCase(chatRepo, presenceRepo, hub)
	presenceUseCase := usecase.NewPresenceUseCase(presenceRepo, typingRepo, hub)

	sessionHandler := handler.NewSessionHandler(sessionUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase, sessionUseCase)
	presenceHandler := handler.NewPresenceHandler(presenceUseCase, sessionUseCase)
	uploadHandler := handler.NewUploadHandler(sessionUseCase, cfg.MaxUploadSize)
	wsHandler := handler.NewWebSocketHandler(hub, sessionUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowCredentials: false,
	}))

	e.Validator = api.NewValidator()

	sessionMiddleware := apimiddleware.NewSessionMiddleware()

	router.Setup(e, sessionMiddleware, sessionHandler, chatHandler, presenceHandler, uploadHandler, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
