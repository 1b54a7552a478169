package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestID returns the request's correlation ID, minting one when the
// RequestID middleware is not installed. Commands carry it into domain
// events so a round can be traced across logs and emails.
func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
