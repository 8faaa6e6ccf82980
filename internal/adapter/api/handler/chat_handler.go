package handler

import (
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/middleware"
	"livechat/internal/usecase"
	"livechat/pkg/errors"
	"livechat/pkg/response"
)

type ChatHandler struct {
	chatUseCase    *usecase.ChatUseCase
	sessionUseCase *usecase.SessionUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, sessionUseCase *usecase.SessionUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:    chatUseCase,
		sessionUseCase: sessionUseCase,
	}
}

type sendMessageRequest struct {
	Sender  string `json:"sender" validate:"required,oneof=user agent"`
	Type    string `json:"type" validate:"omitempty,oneof=text image"`
	Text    string `json:"text"`
	URL     string `json:"url" validate:"omitempty,url|startswith=data:"`
	ReplyTo string `json:"reply_to"`
}

type editMessageRequest struct {
	Sender string `json:"sender" validate:"required,oneof=user agent"`
	Text   string `json:"text"`
}

type reactRequest struct {
	Sender   string `json:"sender" validate:"required,oneof=user agent"`
	Reaction string `json:"reaction" validate:"required"`
}

type clearChatRequest struct {
	Sender string `json:"sender" validate:"required,oneof=user agent"`
}

// SendMessage appends a text or image message to the chat.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("chat_id")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		ChatID:  chatID,
		Sender:  req.Sender,
		Kind:    req.Type,
		Text:    req.Text,
		URL:     req.URL,
		ReplyTo: req.ReplyTo,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"message_id": msg.ID})
}

// EditMessage updates a message's text in place.
func (h *ChatHandler) EditMessage(c echo.Context) error {
	chatID := c.Param("chat_id")
	messageID := c.Param("id")

	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	if _, err := h.chatUseCase.EditMessage(c.Request().Context(), chatID, messageID, req.Sender, req.Text); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, nil)
}

// DeleteMessage tombstones a message. The requester arrives as a query
// param since DELETE carries no body.
func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	chatID := c.Param("chat_id")
	messageID := c.Param("id")

	sender := c.QueryParam("sender")
	if sender == "" {
		return response.Error(c, errors.BadRequest("Sender parameter required", nil))
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.DeleteMessage(c.Request().Context(), chatID, messageID, sender); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, nil)
}

// ReactToMessage toggles an emoji reaction on a message.
func (h *ChatHandler) ReactToMessage(c echo.Context) error {
	chatID := c.Param("chat_id")
	messageID := c.Param("id")

	var req reactRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.ReactToMessage(c.Request().Context(), chatID, messageID, req.Sender, req.Reaction); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, nil)
}

// GetMessages returns the projected chat. With active=true the viewer is
// counted as watching: seen bookkeeping and unread reset apply.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	chatID := c.Param("chat_id")

	viewer := c.QueryParam("viewer")
	if viewer == "" {
		return response.Error(c, errors.BadRequest("Viewer parameter required", nil))
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, viewer, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	active := c.QueryParam("active") == "true"

	messages, err := h.chatUseCase.Messages(c.Request().Context(), chatID, viewer, active)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// ClearChat resets the chat to an empty sequence.
func (h *ChatHandler) ClearChat(c echo.Context) error {
	chatID := c.Param("chat_id")

	var req clearChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, req.Sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.ClearChat(c.Request().Context(), chatID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, nil)
}
