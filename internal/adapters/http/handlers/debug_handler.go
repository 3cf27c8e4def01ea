package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/academia/config"
	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

// DebugHandler serves local diagnostics. The router only registers these
// routes outside production.
type DebugHandler struct {
	cfg   *config.Config
	users service.UserService
}

func NewDebugHandler(cfg *config.Config, users service.UserService) *DebugHandler {
	return &DebugHandler{cfg: cfg, users: users}
}

// OAuthConfig reports which OAuth settings are present without leaking them.
func (h *DebugHandler) OAuthConfig(c echo.Context) error {
	keyPrefix := ""
	if len(h.cfg.TikTokClientKey) >= 4 {
		keyPrefix = h.cfg.TikTokClientKey[:4] + "..."
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"hasClientKey":    h.cfg.TikTokClientKey != "",
		"hasClientSecret": h.cfg.TikTokClientSecret != "",
		"hasRedirectUri":  h.cfg.TikTokRedirectURI != "",
		"redirectUri":     h.cfg.TikTokRedirectURI,
		"clientKeyPrefix": keyPrefix,
		"appEnv":          h.cfg.AppEnv,
	})
}

// UserData dumps the session, user row and hydrated videos for the caller.
func (h *DebugHandler) UserData(c echo.Context) error {
	session := mw.SessionFromCtx(c)
	if session == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing session", mw.RequestIDFromCtx(c), nil)
	}
	data, err := h.users.UserData(c.Request().Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return res.ErrorJSON(c, http.StatusNotFound, "not_found", "user not found", mw.RequestIDFromCtx(c), nil)
		}
		return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", err.Error(), mw.RequestIDFromCtx(c), nil)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":     session,
		"user":        data.User,
		"videosCount": len(data.Videos),
		"videos":      data.Videos,
	})
}
