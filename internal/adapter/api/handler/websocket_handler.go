package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"livechat/internal/domain/entity"
	ws "livechat/internal/infrastructure/websocket"
	"livechat/internal/usecase"
	"livechat/pkg/errors"
	"livechat/pkg/logger"
	"livechat/pkg/response"
)

// WebSocketHandler upgrades an authorized subscriber onto the chat's event
// stream. Browsers cannot set headers on websocket dials, so the token rides
// in the query string here.
type WebSocketHandler struct {
	hub            *ws.Hub
	sessionUseCase *usecase.SessionUseCase
	upgrader       gorilla.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, sessionUseCase *usecase.SessionUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		sessionUseCase: sessionUseCase,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The polling API is already open cross-origin; the stream
			// mirrors that.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) Events(c echo.Context) error {
	chatID := c.Param("chat_id")
	viewer := c.QueryParam("viewer")
	token := c.QueryParam("token")

	if !entity.ValidParticipant(viewer) {
		return response.Error(c, errors.BadRequest("Viewer must be \"user\" or \"agent\"", nil))
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, viewer, token); err != nil {
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Websocket upgrade failed: %v", err)
		return err
	}

	client := &ws.Client{
		ChatID:      chatID,
		Participant: viewer,
		Conn:        conn,
		Send:        make(chan []byte, 32),
	}

	h.hub.Register <- client
	go client.WritePump()
	go client.ReadPump(h.hub)
	return nil
}
