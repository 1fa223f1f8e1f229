package router

import (
	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/handler"
	"github.com/osmapp/osm-backend/internal/middleware"
	"github.com/osmapp/osm-backend/internal/model"
)

// RegisterMechanic registers mechanic-scoped endpoints under /v1. All
// routes require a valid session with the MECHANIC role: the request
// inbox, the approve/reject transitions, the availability flag, the
// detailed own-profile view and the profile update.
func RegisterMechanic(e *echo.Echo, r *handler.RequestHandler, m *handler.MechanicHandler, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.SessionAuth(jwtSecret),
		middleware.RequireRole(model.RoleMechanic),
	)

	// ---- Request lifecycle ----
	g.GET("/mechanic/requests", r.Inbox)
	g.PUT("/service-requests/:id/approve", r.Approve)
	g.PUT("/service-requests/:id/reject", r.Reject)

	// ---- Self service ----
	g.GET("/mechanic/status", m.GetStatus)
	g.PUT("/mechanic/status", m.UpdateStatus)
	g.GET("/mechanic/details", m.Details)
	g.PUT("/mechanics/:id", p.UpdateMechanic)
}
