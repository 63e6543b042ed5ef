// Package router wires the HTTP routes for the three actor roles. The
// bearer-token authenticator runs on every request and never rejects;
// role checks happen per group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/handler"
	"github.com/iliyamo/save-n-serve/internal/middleware"
	"github.com/iliyamo/save-n-serve/internal/model"
)

// RegisterRoutes registers routes that do not belong to a role: currently
// only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBuyer registers the buyer endpoints under /buyer. The limiter
// wraps the credential endpoints; profile routes require a BUYER token.
func RegisterBuyer(e *echo.Echo, h *handler.BuyerHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/buyer")
	g.POST("/registration", h.Register, limiter)
	g.POST("/login", h.Login, limiter)
	g.POST("/forgot-password", h.ForgotPassword, limiter)
	g.POST("/reset-password", h.ResetPassword, limiter)

	p := g.Group("", middleware.RequireRole(model.RoleBuyer))
	p.PUT("/update", h.Update)
	p.GET("/me", h.Me)
}

// RegisterSeller registers the seller endpoints under /seller.
func RegisterSeller(e *echo.Echo, h *handler.SellerHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/seller")
	g.POST("/registration", h.Register, limiter)
	g.POST("/login", h.Login, limiter)
	g.POST("/forgot-password", h.ForgotPassword, limiter)
	g.POST("/reset-password", h.ResetPassword, limiter)

	p := g.Group("", middleware.RequireRole(model.RoleSeller))
	p.PUT("/update", h.Update)
	p.GET("/me", h.Me)
}

// RegisterAdmin registers the admin endpoints under /admin. Everything
// except the credential endpoints requires an ADMIN token.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/admin")
	g.POST("/login", h.Login, limiter)
	g.POST("/forgot-password", h.ForgotPassword, limiter)
	g.POST("/reset-password", h.ResetPassword, limiter)

	p := g.Group("", middleware.RequireRole(model.RoleAdmin))
	p.GET("/sellers", h.ListSellers)
	p.GET("/sellers/pending", h.PendingSellers)
	p.POST("/sellers", h.AddSeller)
	p.PUT("/sellers/:id/approve", h.ApproveSeller)
	p.PUT("/sellers/:id/reject", h.RejectSeller)
	p.DELETE("/sellers/:id", h.DeleteSeller)
	p.GET("/buyers", h.ListBuyers)
	p.DELETE("/buyers/:id", h.DeleteBuyer)
}
