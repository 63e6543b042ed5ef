// Package handler implements the HTTP endpoints for the three actor roles.
// Handlers bind request DTOs, call into the auth service and repositories,
// and translate the auth failure taxonomy into HTTP statuses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
)

// Health is a simple health-check endpoint for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// dbCtx bounds the duration of store calls made from a handler.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// authError maps a failure from the auth layer onto an HTTP response.
// Unknown errors are logged and reported as a generic 500 so no store or
// driver detail leaks to clients.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrNotApproved):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not approved"})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or already used reset token"})
	case errors.Is(err, auth.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "account already exists"})
	case errors.Is(err, auth.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, auth.ErrMailDelivery):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "reset link created but email delivery failed"})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// forgotPasswordResponse is the uniform reply for reset requests; it does
// not reveal whether the email is registered.
func forgotPasswordResponse(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "if the email is registered, a reset link has been sent",
	})
}
