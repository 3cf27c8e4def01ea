package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/example/academia/config"
	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/service"
	pkglog "github.com/example/academia/pkg/log"
)

const csrfCookieName = "tiktok_csrf_state"

type AuthHandler struct {
	cfg    *config.Config
	logger pkglog.Logger
	auth   service.AuthService
	codec  service.SessionCodec
}

func NewAuthHandler(cfg *config.Config, logger pkglog.Logger, auth service.AuthService, codec service.SessionCodec) *AuthHandler {
	return &AuthHandler{cfg: cfg, logger: logger, auth: auth, codec: codec}
}

// Login starts the OAuth flow: random CSRF state into a short-lived cookie,
// redirect to the provider's authorize URL.
func (h *AuthHandler) Login(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(h.cfg.CSRFStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.auth.LoginURL(state))
}

// Callback finishes the OAuth flow. Terminal states are redirects; error
// outcomes land on the root page with a machine-readable error code.
func (h *AuthHandler) Callback(c echo.Context) error {
	query := c.QueryParams()

	if provErr := query.Get("error"); provErr != "" {
		h.logger.Error().
			Str("error", provErr).
			Str("error_type", query.Get("error_type")).
			Str("error_description", query.Get("error_description")).
			Msg("provider returned oauth error")
		params := url.Values{}
		params.Set("error", provErr)
		if v := query.Get("error_type"); v != "" {
			params.Set("error_type", v)
		}
		if v := query.Get("error_description"); v != "" {
			params.Set("error_description", v)
		}
		return c.Redirect(http.StatusFound, "/?"+params.Encode())
	}

	// Fails closed before any network call: state must match the cookie.
	state := query.Get("state")
	cookie, err := c.Cookie(csrfCookieName)
	if err != nil || state == "" || state != cookie.Value {
		return h.errorRedirect(c, service.CodeInvalidState, "")
	}

	code := query.Get("code")
	if code == "" {
		return h.errorRedirect(c, service.CodeNoCode, "")
	}

	result, err := h.auth.CompleteLogin(c.Request().Context(), mw.RequestIDFromCtx(c), code)
	if err != nil {
		if flowErr, ok := err.(*service.FlowError); ok {
			return h.errorRedirect(c, flowErr.Code, flowErr.Details)
		}
		h.logger.Error().Err(err).Msg("oauth callback failed")
		return h.errorRedirect(c, service.CodeOAuthFailed, "")
	}

	sessionValue, err := h.codec.Encode(service.Session{
		UserID:       result.User.ID,
		TikTokUserID: result.User.TikTokUserID,
		AccessToken:  result.AccessToken,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("session encode failed")
		return h.errorRedirect(c, service.CodeOAuthFailed, "")
	}

	c.SetCookie(&http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    sessionValue,
		Path:     "/",
		MaxAge:   int(h.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	h.clearCSRFCookie(c)

	if result.NewUser {
		return c.Redirect(http.StatusFound, "/onboarding")
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) errorRedirect(c echo.Context, code, details string) error {
	params := url.Values{}
	params.Set("error", code)
	if details != "" {
		params.Set("details", details)
	}
	return c.Redirect(http.StatusFound, "/?"+params.Encode())
}

func (h *AuthHandler) clearCSRFCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
