package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
	"livechat/internal/adapter/api/middleware"
)

func SetupSessionRouter(e *echo.Echo, sessionHandler *handler.SessionHandler, m *middleware.SessionMiddleware) {
	e.POST("/v1/login", sessionHandler.Login)
	// Logout needs the token to know what to revoke, but revoking an already
	// dead token still succeeds.
	e.POST("/v1/logout", sessionHandler.Logout, m.Authenticate)
}
