package http

import (
	"github.com/labstack/echo/v4"
)

type ErrorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func JSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// ErrorJSON writes the service-wide error envelope.
func ErrorJSON(c echo.Context, status int, code, message, requestID string, details interface{}) error {
	return c.JSON(status, ErrorEnvelope{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}})
}
