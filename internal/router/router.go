package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/model"
)

// allRoles lists every role accepted on generally-protected endpoints.
// Endpoints with a narrower audience apply their own RequireRole.
var allRoles = []string{
	model.RoleBuyer,
	model.RoleSeller,
	model.RoleAuctionManager,
	model.RoleSystemAdmin,
	model.RoleSuperUser,
}

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints. Register, login,
// refresh and logout are unauthenticated; /api/auth/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
