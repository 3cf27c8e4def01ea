package middleware

import "github.com/labstack/echo/v4"

// RequestIDFromCtx returns the request id assigned by the RequestID
// middleware, which writes it to the response header. Falls back to an
// id the caller supplied on the request.
func RequestIDFromCtx(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
