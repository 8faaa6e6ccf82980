package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
	"livechat/internal/adapter/api/middleware"
)

// SetupChatRouter registers the message lifecycle routes. Everything here
// mutates or reads channel state and therefore requires a session token.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, m *middleware.SessionMiddleware) {
	chatGroup := e.Group("/v1/chats/:chat_id")
	chatGroup.Use(m.Authenticate)

	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/messages", chatHandler.GetMessages)
	chatGroup.PUT("/messages/:id", chatHandler.EditMessage)
	chatGroup.DELETE("/messages/:id", chatHandler.DeleteMessage)
	chatGroup.POST("/messages/:id/reactions", chatHandler.ReactToMessage)
	chatGroup.POST("/clear", chatHandler.ClearChat)
}
