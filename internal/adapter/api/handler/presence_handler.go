package handler

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/middleware"
	"livechat/internal/usecase"
	"livechat/pkg/errors"
	"livechat/pkg/response"
)

type PresenceHandler struct {
	presenceUseCase *usecase.PresenceUseCase
	sessionUseCase  *usecase.SessionUseCase
}

func NewPresenceHandler(presenceUseCase *usecase.PresenceUseCase, sessionUseCase *usecase.SessionUseCase) *PresenceHandler {
	return &PresenceHandler{
		presenceUseCase: presenceUseCase,
		sessionUseCase:  sessionUseCase,
	}
}

type markOnlineRequest struct {
	Sender string `json:"sender" validate:"required,oneof=user agent"`
}

type typingRequest struct {
	Sender string `json:"sender" validate:"required,oneof=user agent"`
	Text   string `json:"text"`
}

// MarkOnline records a presence heartbeat for the sender.
func (h *PresenceHandler) MarkOnline(c echo.Context) error {
	chatID := c.Param("chat_id")

	var req markOnlineRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	h.presenceUseCase.MarkOnline(c.Request().Context(), chatID, req.Sender)
	return response.Success(c, nil)
}

// Status reports both sides' presence. Deliberately unauthenticated so the
// widget can render before login.
func (h *PresenceHandler) Status(c echo.Context) error {
	chatID := c.Param("chat_id")
	return response.Success(c, h.presenceUseCase.Status(c.Request().Context(), chatID))
}

// UnreadCount returns the participant's unread counter.
func (h *PresenceHandler) UnreadCount(c echo.Context) error {
	chatID := c.Param("chat_id")
	participant := c.Param("participant")

	count := h.presenceUseCase.UnreadCount(c.Request().Context(), chatID, participant)
	return response.Success(c, map[string]int{"count": count})
}

// SetTyping overwrites the chat's live typing slot.
func (h *PresenceHandler) SetTyping(c echo.Context) error {
	chatID := c.Param("chat_id")

	var req typingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	h.presenceUseCase.SetTyping(c.Request().Context(), chatID, req.Sender, req.Text)
	return response.Success(c, nil)
}

// GetTyping returns the live typing slot, or an empty object once it has
// expired.
func (h *PresenceHandler) GetTyping(c echo.Context) error {
	chatID := c.Param("chat_id")

	viewer := c.QueryParam("viewer")
	if viewer == "" {
		return response.Error(c, errors.BadRequest("Viewer parameter required", nil))
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, viewer, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	state, ok := h.presenceUseCase.Typing(c.Request().Context(), chatID)
	if !ok {
		return response.Success(c, map[string]string{})
	}
	return response.Success(c, state)
}
