package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/service"
	res "github.com/example/academia/pkg/http"
)

type OnboardingHandler struct {
	users service.UserService
}

func NewOnboardingHandler(users service.UserService) *OnboardingHandler {
	return &OnboardingHandler{users: users}
}

type onboardingRequest struct {
	DisplayName        string `json:"displayName" validate:"required,min=1,max=100"`
	Category           string `json:"category" validate:"max=100"`
	LanguagePreference string `json:"languagePreference" validate:"omitempty,len=2"`
}

type onboardingResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

func (h *OnboardingHandler) Complete(c echo.Context) error {
	session := mw.SessionFromCtx(c)
	if session == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing session", mw.RequestIDFromCtx(c), nil)
	}
	req := new(onboardingRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", mw.RequestIDFromCtx(c), nil)
	}
	if err := c.Validate(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "validation_failed", err.Error(), mw.RequestIDFromCtx(c), nil)
	}

	user, err := h.users.CompleteOnboarding(c.Request().Context(), mw.RequestIDFromCtx(c), session.UserID, service.OnboardingInput{
		DisplayName:        req.DisplayName,
		Category:           req.Category,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return res.ErrorJSON(c, http.StatusNotFound, "not_found", "user not found", mw.RequestIDFromCtx(c), nil)
		}
		return res.ErrorJSON(c, http.StatusInternalServerError, "update_failed", "failed to update user", mw.RequestIDFromCtx(c), nil)
	}
	return c.JSON(http.StatusOK, onboardingResponse{Success: true, User: user})
}
