package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

type CreatorsHandler struct {
	creators service.CreatorService
}

func NewCreatorsHandler(creators service.CreatorService) *CreatorsHandler {
	return &CreatorsHandler{creators: creators}
}

type similarCreatorsResponse struct {
	Success bool `json:"success"`
	*service.SimilarCreatorsResult
}

func (h *CreatorsHandler) List(c echo.Context) error {
	session := mw.SessionFromCtx(c)
	if session == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing session", mw.RequestIDFromCtx(c), nil)
	}

	query := service.CreatorQuery{
		Refresh:  c.QueryParam("refresh") == "true",
		Page:     intParam(c, "page", 1),
		PageSize: intParam(c, "pageSize", service.MaxPageSize),
	}

	result, err := h.creators.SimilarCreators(c.Request().Context(), session.UserID, query)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return res.ErrorJSON(c, http.StatusNotFound, "not_found", "user not found", mw.RequestIDFromCtx(c), nil)
		}
		return res.ErrorJSON(c, http.StatusInternalServerError, "fetch_failed", "failed to fetch creators", mw.RequestIDFromCtx(c), nil)
	}
	return c.JSON(http.StatusOK, similarCreatorsResponse{Success: true, SimilarCreatorsResult: result})
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
