// Package middleware provides shared request processing: bearer-token
// authentication, role enforcement and rate limiting.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
)

// principalKey is the context key the authenticated principal is stored
// under. Handlers read it through CurrentPrincipal.
const principalKey = "principal"

// Authenticate returns a middleware that derives a principal from the
// Authorization header. It never rejects a request: a missing or invalid
// token simply leaves the request anonymous, and RequireRole decides later
// whether that matters. Running it twice is a no-op once a principal exists.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Decode(raw)
			if err != nil {
				c.Logger().Warnf("bearer token rejected: %v", err)
				return next(c)
			}

			if _, ok := CurrentPrincipal(c); ok {
				return next(c)
			}
			c.Set(principalKey, model.Principal{
				Subject: claims.Subject,
				Role:    claims.Role,
				UserID:  claims.UserID,
			})
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal established for this request, if
// any.
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}
