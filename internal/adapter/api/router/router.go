package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
	"livechat/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	sessionMiddleware *middleware.SessionMiddleware,
	sessionHandler *handler.SessionHandler,
	chatHandler *handler.ChatHandler,
	presenceHandler *handler.PresenceHandler,
	uploadHandler *handler.UploadHandler,
	wsHandler *handler.WebSocketHandler,
) {
	SetupHealthRouter(e)
	SetupSessionRouter(e, sessionHandler, sessionMiddleware)
	SetupChatRouter(e, chatHandler, sessionMiddleware)
	SetupPresenceRouter(e, presenceHandler, sessionMiddleware)
	SetupUploadRouter(e, uploadHandler, sessionMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
