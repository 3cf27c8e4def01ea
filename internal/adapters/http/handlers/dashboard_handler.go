package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(c echo.Context) error {
	session := mw.SessionFromCtx(c)
	if session == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing session", mw.RequestIDFromCtx(c), nil)
	}
	result, err := h.dashboard.Dashboard(c.Request().Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return res.ErrorJSON(c, http.StatusNotFound, "not_found", "user not found", mw.RequestIDFromCtx(c), nil)
		}
		return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", err.Error(), mw.RequestIDFromCtx(c), nil)
	}
	return c.JSON(http.StatusOK, result)
}
