package router

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/model"
)

// RegisterScrap wires the scrap inventory endpoints. Listing and reading
// are public; writes are staff-only and deletion is admin-only.
func RegisterScrap(e *echo.Echo, h *handler.ScrapHandler, jwtSecret string) {
	// Public browse surface.
	e.GET("/api/scrap", h.List)
	e.GET("/api/scrap/search", h.Search)
	e.GET("/api/scrap/status/:status", h.ByStatus)
	e.GET("/api/scrap/category/:categoryType", h.ByCategory)
	e.GET("/api/scrap/location/:locationType", h.ByLocation)
	e.GET("/api/scrap/:id", h.Get)

	staff := e.Group(
		"/api/scrap",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAuctionManager, model.RoleSystemAdmin, model.RoleSuperUser),
	)
	staff.POST("", h.Create)
	staff.GET("/count/status", h.CountByStatus)
	staff.PUT("/:id", h.Update)
	staff.PATCH("/status/:id/:status", h.PatchStatus)

	admin := e.Group(
		"/api/scrap",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSystemAdmin, model.RoleSuperUser),
	)
	admin.DELETE("/:id", h.Delete)
}
