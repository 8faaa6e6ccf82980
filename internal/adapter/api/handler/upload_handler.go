package handler

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"livechat/internal/adapter/api/middleware"
	"livechat/internal/usecase"
	"livechat/pkg/errors"
	"livechat/pkg/logger"
	"livechat/pkg/response"
)

// UploadHandler turns an uploaded image into a data URL the client can pass
// back through the send endpoint. The message store never inspects the
// resulting URL.
type UploadHandler struct {
	sessionUseCase *usecase.SessionUseCase
	maxFileSize    int64
}

func NewUploadHandler(sessionUseCase *usecase.SessionUseCase, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		sessionUseCase: sessionUseCase,
		maxFileSize:    maxFileSize,
	}
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

func (h *UploadHandler) Upload(c echo.Context) error {
	chatID := c.FormValue("chat_id")
	sender := c.FormValue("sender")
	if chatID == "" || sender == "" {
		return response.Error(c, errors.BadRequest("chat_id and sender are required", nil))
	}

	if err := h.sessionUseCase.Authorize(c.Request().Context(), chatID, sender, middleware.Token(c)); err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		logger.Warn("Upload too large: %d bytes (max %d)", file.Size, h.maxFileSize)
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}

	// Sniff the real content type; the filename extension is not trusted.
	mime := mimetype.Detect(data)
	if !isAllowedImageType(mime.String()) {
		logger.Warn("Rejected upload of type %s", mime.String())
		return response.Error(c, errors.BadRequest("Unsupported file type", nil))
	}

	url := fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data))
	return response.Success(c, map[string]string{"url": url})
}

func isAllowedImageType(mime string) bool {
	for _, allowed := range allowedImageTypes {
		if mime == allowed {
			return true
		}
	}
	return false
}
