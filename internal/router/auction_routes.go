package router

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/model"
)

// RegisterAuctions wires the auction lifecycle endpoints. Browsing is
// public; creating, ending and editing auctions is reserved for auction
// managers and super users.
func RegisterAuctions(e *echo.Echo, h *handler.AuctionHandler, jwtSecret string) {
	// Public browse surface.
	e.GET("/api/auction/filter", h.Filter)
	e.GET("/api/auction/active", h.Active)
	e.GET("/api/auction/stats", h.Stats)
	e.GET("/api/auction/:id/details", h.Details)

	manage := e.Group(
		"/api/auction",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAuctionManager, model.RoleSuperUser),
	)
	manage.POST("", h.Create)
	manage.PATCH("/end/:id", h.End)
	manage.PUT("/:id", h.Update)

	auth := e.Group("/api/auction", middleware.JWTAuth(jwtSecret), middleware.RequireRole(allRoles...))
	auth.GET("/user/:userId/bids", h.UserBids)
}
