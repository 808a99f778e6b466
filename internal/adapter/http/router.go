package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CSRF protects the page's forms. The token is read from the hidden _csrf
// field every form carries.
func CSRF() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// Register mounts the health check and the page routes. mw wraps the page
// routes only.
func Register(e *echo.Echo, h *Handler, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("", mw...)
	g.GET("/", h.Index)
	g.GET("/login", h.ShowLogin)
	g.GET("/signup", h.ShowSignup)
	g.POST("/login", h.Login)
	g.POST("/signup", h.Signup)
	g.POST("/logout", h.Logout)
	g.POST("/borrowers", h.CreateBorrower)
	g.POST("/loans", h.CreateLoan)
	g.POST("/loans/refresh", h.RefreshLoans)
	g.POST("/loans/:loan_id/repay", h.Repay)
	g.POST("/loans/:loan_id/delete", h.Delete)
}
