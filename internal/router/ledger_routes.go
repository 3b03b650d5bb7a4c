package router

import (
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/model"
)

// RegisterLedger wires the payment and transaction endpoints. All of them
// require authentication; deletes are reserved for administrators.
func RegisterLedger(e *echo.Echo, p *handler.PaymentHandler, t *handler.TransactionHandler, jwtSecret string) {
	jwt := middleware.JWTAuth(jwtSecret)
	anyRole := middleware.RequireRole(allRoles...)
	adminOnly := middleware.RequireRole(model.RoleSystemAdmin, model.RoleSuperUser)

	pay := e.Group("/api/payments", jwt, anyRole)
	pay.POST("", p.Create)
	pay.GET("", p.List)
	pay.GET("/:id", p.Get)
	pay.PUT("/:id", p.Update)

	e.Group("/api/payments", jwt, adminOnly).DELETE("/:id", p.Delete)

	tx := e.Group("/api/transactions", jwt, anyRole)
	tx.POST("", t.Create)
	tx.GET("", t.List)
	tx.GET("/:id", t.Get)
	tx.PUT("/:id", t.Update)

	e.Group("/api/transactions", jwt, adminOnly).DELETE("/:id", t.Delete)
}
