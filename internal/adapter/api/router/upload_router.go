package router

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/handler"
	"livechat/internal/adapter/api/middleware"
)

func SetupUploadRouter(e *echo.Echo, uploadHandler *handler.UploadHandler, m *middleware.SessionMiddleware) {
	e.POST("/v1/upload", uploadHandler.Upload, m.Authenticate)
}
