package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const TokenContextKey = "session_token"

// SessionMiddleware extracts the bearer token from the Authorization header.
// Tokens are scoped to a (chat, participant) pair, both of which arrive in
// the request body or path, so the actual registry check happens in the
// handler; this middleware only enforces the header's shape.
type SessionMiddleware struct{}

func NewSessionMiddleware() *SessionMiddleware {
	return &SessionMiddleware{}
}

func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		c.Set(TokenContextKey, parts[1])
		return next(c)
	}
}

// Token returns the bearer token stashed by Authenticate, or "".
func Token(c echo.Context) string {
	token, _ := c.Get(TokenContextKey).(string)
	return token
}
