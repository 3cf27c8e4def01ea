package internalapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

// Handler hosts the internal surface: health plus the creator-refresh
// function, the only caller of the EchoTik API.
type Handler struct {
	anonKey string
	refresh service.RefreshService
}

func NewHandler(anonKey string, refresh service.RefreshService) *Handler {
	return &Handler{anonKey: anonKey, refresh: refresh}
}

// Register mounts internal endpoints under the provided group.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	g.POST("/functions/refresh-creators", h.RefreshCreators, h.requireAnonKey)
}

type refreshRequest struct {
	Category string `json:"category"`
	Region   string `json:"region"`
	Language string `json:"language"`
	PageNum  int    `json:"pageNum"`
	PageSize int    `json:"pageSize"`
}

func (h *Handler) RefreshCreators(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", mw.RequestIDFromCtx(c), nil)
	}
	count, err := h.refresh.RefreshCreators(c.Request().Context(), service.RefreshRequest{
		Category: req.Category,
		Region:   req.Region,
		Language: req.Language,
		PageNum:  req.PageNum,
		PageSize: req.PageSize,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryRequired) {
			return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "category is required", mw.RequestIDFromCtx(c), nil)
		}
		return res.ErrorJSON(c, http.StatusInternalServerError, "refresh_failed", err.Error(), mw.RequestIDFromCtx(c), nil)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "count": count})
}

func (h *Handler) requireAnonKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") ||
			subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.anonKey)) != 1 {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "invalid key", mw.RequestIDFromCtx(c), nil)
		}
		return next(c)
	}
}
