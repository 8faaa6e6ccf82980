package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the event stream. Auth happens in the
// handler via query-string token since websocket dials cannot set headers.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/chats/:chat_id/events", wsHandler.Events)
}
