package router // router registers the HTTP routes of the board API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lift-board/internal/handler"
	"github.com/iliyamo/lift-board/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBoard mounts the board under /v1.  Every route needs a valid
// JWT.  Reading the board is open to all shop roles; moving vehicles
// between lifts is limited to managers and service advisors and is rate
// limited by limit.
func RegisterBoard(e *echo.Echo, h *handler.BoardHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	read := middleware.RequireRole(middleware.RoleManager, middleware.RoleAdvisor, middleware.RoleTechnician)
	g.GET("/board", h.GetBoard, read)
	g.GET("/repair-orders/:id/workers", h.ListOrderWorkers, read)

	write := g.Group("", middleware.RequireRole(middleware.RoleManager, middleware.RoleAdvisor), limit)
	write.PUT("/lift-assignments", h.UpsertAssignment)
	write.PATCH("/lift-assignments/:id", h.UpdateAssignment)
	write.DELETE("/lift-assignments/:id/lift", h.ClearAssignment)
	write.PATCH("/lift-assignments/:id/parts-wait", h.SetPartsWait)
}
