package handler

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/middleware"
	"livechat/internal/usecase"
	"livechat/pkg/response"
)

type SessionHandler struct {
	sessionUseCase *usecase.SessionUseCase
}

func NewSessionHandler(sessionUseCase *usecase.SessionUseCase) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
	}
}

type loginRequest struct {
	ChatID   string `json:"chat_id" validate:"required"`
	Sender   string `json:"sender" validate:"required,oneof=user agent"`
	Password string `json:"password" validate:"required"`
}

type logoutRequest struct {
	ChatID string `json:"chat_id" validate:"required"`
	Sender string `json:"sender" validate:"required,oneof=user agent"`
}

// Login exchanges the shared password for a session token.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.sessionUseCase.Login(c.Request().Context(), req.ChatID, req.Sender, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"session_token": token})
}

// Logout revokes the presented token. Idempotent: logging out twice is fine.
func (h *SessionHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	h.sessionUseCase.Logout(c.Request().Context(), req.ChatID, req.Sender, middleware.Token(c))
	return response.Success(c, nil)
}
