package router

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/model"
)

// RegisterBids wires the bid endpoints. Only buyers place and edit bids;
// withdrawal is open to the buyer or a system admin; reads require any
// authenticated role.
func RegisterBids(e *echo.Echo, h *handler.BidHandler, jwtSecret string) {
	buyer := e.Group(
		"/api/bids",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer),
	)
	buyer.POST("/create", h.Create)
	buyer.PUT("/update/:bidId", h.Update)

	remove := e.Group(
		"/api/bids",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer, model.RoleSystemAdmin),
	)
	remove.DELETE("/delete/:bidId", h.Delete)

	auth := e.Group("/api/bids", middleware.JWTAuth(jwtSecret), middleware.RequireRole(allRoles...))
	auth.GET("/auction/:auctionId", h.ListByAuction)
	auth.GET("/:bidId", h.Get)
}
