package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
	"livechat/internal/adapter/api/middleware"
)

// SetupPresenceRouter registers presence, unread and typing routes. The
// status and unread reads are public; heartbeats and typing writes are not.
func SetupPresenceRouter(e *echo.Echo, presenceHandler *handler.PresenceHandler, m *middleware.SessionMiddleware) {
	e.GET("/v1/chats/:chat_id/presence", presenceHandler.Status)
	e.GET("/v1/chats/:chat_id/unread/:participant", presenceHandler.UnreadCount)

	e.POST("/v1/chats/:chat_id/online", presenceHandler.MarkOnline, m.Authenticate)
	e.POST("/v1/chats/:chat_id/typing", presenceHandler.SetTyping, m.Authenticate)
	e.GET("/v1/chats/:chat_id/typing", presenceHandler.GetTyping, m.Authenticate)
}
