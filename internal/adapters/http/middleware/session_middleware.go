package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

const (
	SessionCookieName = "session"
	sessionContextKey = "session"
)

type SessionMiddleware struct {
	codec service.SessionCodec
}

func NewSessionMiddleware(codec service.SessionCodec) *SessionMiddleware {
	return &SessionMiddleware{codec: codec}
}

// Handler rejects requests without a decodable session cookie. A tampered or
// expired cookie behaves exactly like a missing one.
func (m *SessionMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing session", RequestIDFromCtx(c), nil)
		}
		session, err := m.codec.Decode(cookie.Value)
		if err != nil {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "invalid session", RequestIDFromCtx(c), nil)
		}
		c.Set(sessionContextKey, session)
		return next(c)
	}
}

// SessionFromCtx returns the decoded session set by Handler.
func SessionFromCtx(c echo.Context) *service.Session {
	if session, ok := c.Get(sessionContextKey).(*service.Session); ok {
		return session
	}
	return nil
}
