package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechat/internal/adapter/api"
	"livechat/internal/adapter/api/handler"
	apimiddleware "livechat/internal/adapter/api/middleware"
	"livechat/internal/adapter/api/router"
	"livechat/internal/adapter/repository"
	"livechat/internal/infrastructure/websocket"
	"livechat/internal/usecase"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	sessionRepo := repository.NewMemorySessionRepository(time.Hour, 2)
	chatRepo := repository.NewMemoryChatRepository()
	presenceRepo := repository.NewMemoryPresenceRepository()
	typingRepo := repository.NewMemoryTypingRepository()

	hub := websocket.NewHub()
	hub.Start(context.Background())

	// No rate limiter: tests log in freely.
	sessionUseCase := usecase.NewSessionUseCase(sessionRepo, nil, "1")
	chatUseCase := usecase.NewChatUseCase(chatRepo, presenceRepo, hub)
	presenceUseCase := usecase.NewPresenceUseCase(presenceRepo, typingRepo, hub)

	e := echo.New()
	e.Validator = api.NewValidator()

	router.Setup(e,
		apimiddleware.NewSessionMiddleware(),
		handler.NewSessionHandler(sessionUseCase),
		handler.NewChatHandler(chatUseCase, sessionUseCase),
		handler.NewPresenceHandler(presenceUseCase, sessionUseCase),
		handler.NewUploadHandler(sessionUseCase, 5*1024*1024),
		handler.NewWebSocketHandler(hub, sessionUseCase),
	)
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func login(t *testing.T, e *echo.Echo, chatID, sender string) string {
	t.Helper()

	rec, env := doJSON(t, e, http.MethodPost, "/v1/login", "", map[string]string{
		"chat_id":  chatID,
		"sender":   sender,
		"password": "1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		SessionToken string `json:"session_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.SessionToken)
	return data.SessionToken
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/v1/login", "", map[string]string{
		"chat_id":  "c1",
		"sender":   "user",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestLoginValidatesSender(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/v1/login", "", map[string]string{
		"chat_id":  "c1",
		"sender":   "visitor",
		"password": "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSendRequiresAuthorizationHeader(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", "", map[string]string{
		"sender": "user",
		"text":   "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendRejectsForeignToken(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "c1", "user")

	// A user token does not authorize the agent side.
	rec, env := doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", token, map[string]string{
		"sender": "agent",
		"text":   "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestMessageLifecycleFlow(t *testing.T) {
	e := newTestServer(t)
	userToken := login(t, e, "c1", "user")
	agentToken := login(t, e, "c1", "agent")

	// user sends "hi"
	rec, env := doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", userToken, map[string]string{
		"sender": "user",
		"text":   "hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		MessageID string `json:"message_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.MessageID)

	// agent's unread counter went up (public endpoint)
	rec, env = doJSON(t, e, http.MethodGet, "/v1/chats/c1/unread/agent", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.Equal(t, 1, unread.Count)

	// agent fetches actively: the message gets marked seen, unread resets
	rec, env = doJSON(t, e, http.MethodGet, "/v1/chats/c1/messages?viewer=agent&active=true", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Text  string `json:"text"`
		Reply *struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	require.Len(t, msgs, 1)

	rec, env = doJSON(t, e, http.MethodGet, "/v1/chats/c1/unread/agent", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.Equal(t, 0, unread.Count)

	// agent replies to the first message
	rec, _ = doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", agentToken, map[string]string{
		"sender":   "agent",
		"text":     "hello",
		"reply_to": created.MessageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, "/v1/chats/c1/messages?viewer=user", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	require.Len(t, msgs, 2)
	require.NotNil(t, msgs[1].Reply)
	assert.Equal(t, "user", msgs[1].Reply.Sender)
	assert.Equal(t, "hi", msgs[1].Reply.Text)

	// user deletes the first message; the preview flips to the placeholder
	rec, _ = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/chats/c1/messages/%s?sender=user", created.MessageID), userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, "/v1/chats/c1/messages?viewer=user", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "deleted", msgs[0].Type)
	assert.Equal(t, "This message was deleted", msgs[0].Text)
	require.NotNil(t, msgs[1].Reply)
	assert.Equal(t, "Original message was deleted", msgs[1].Reply.Text)
}

func TestSendEmptyTextRejected(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "c1", "user")

	rec, env := doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", token, map[string]string{
		"sender": "user",
		"text":   "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EMPTY_CONTENT", env.Error.Code)
}

func TestTypingRoundTrip(t *testing.T) {
	e := newTestServer(t)
	userToken := login(t, e, "c1", "user")
	agentToken := login(t, e, "c1", "agent")

	rec, _ := doJSON(t, e, http.MethodPost, "/v1/chats/c1/typing", userToken, map[string]string{
		"sender": "user",
		"text":   "typi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, e, http.MethodGet, "/v1/chats/c1/typing?viewer=agent", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var typing struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &typing))
	assert.Equal(t, "user", typing.Sender)
	assert.Equal(t, "typi", typing.Text)
}

func TestPresenceFlow(t *testing.T) {
	e := newTestServer(t)
	userToken := login(t, e, "c1", "user")

	rec, _ := doJSON(t, e, http.MethodPost, "/v1/chats/c1/online", userToken, map[string]string{
		"sender": "user",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, e, http.MethodGet, "/v1/chats/c1/presence", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		UserOnline   bool   `json:"user_online"`
		AgentOnline  bool   `json:"agent_online"`
		UserLastSeen string `json:"user_last_seen"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.UserOnline)
	assert.False(t, status.AgentOnline)
	assert.Equal(t, "just now", status.UserLastSeen)
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "c1", "user")

	rec, _ := doJSON(t, e, http.MethodPost, "/v1/logout", token, map[string]string{
		"chat_id": "c1",
		"sender":  "user",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, e, http.MethodPost, "/v1/chats/c1/messages", token, map[string]string{
		"sender": "user",
		"text":   "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadProducesDataURL(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "c1", "user")

	// Minimal PNG header; enough for content sniffing.
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

	rec, env := uploadFile(t, e, token, "pic.png", png)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, strings.HasPrefix(data.URL, "data:image/png;base64,"))
}

func TestUploadRejectsNonImage(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "c1", "user")

	rec, env := uploadFile(t, e, token, "notes.txt", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func uploadFile(t *testing.T, e *echo.Echo, token, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("chat_id", "c1"))
	require.NoError(t, writer.WriteField("sender", "user"))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/upload", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}
