package router

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
)

// RegisterUsers wires the user profile endpoints. Ownership and role
// checks happen inside the handlers.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/api/users", middleware.JWTAuth(jwtSecret), middleware.RequireRole(allRoles...))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
}

// RegisterSubscriptions wires the notification and newsletter subscription
// endpoints for authenticated users.
func RegisterSubscriptions(e *echo.Echo, h *handler.SubscriptionHandler, jwtSecret string) {
	jwt := middleware.JWTAuth(jwtSecret)
	anyRole := middleware.RequireRole(allRoles...)

	e.Group("/api/notifications", jwt, anyRole).POST("/subscribe", h.Subscribe)

	news := e.Group("/api/newsletter", jwt, anyRole)
	news.POST("/subscribe", h.NewsletterSubscribe)
	news.PUT("/preferences", h.NewsletterPreferences)
	news.DELETE("/unsubscribe", h.NewsletterUnsubscribe)
}
