package router

import (
	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/handler"
	"github.com/osmapp/osm-backend/internal/middleware"
	"github.com/osmapp/osm-backend/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid session with the CUSTOMER role. Customers can
// list the requests filed under their account and edit their own
// profile (the handler additionally checks the path id against the
// session id).
func RegisterCustomer(e *echo.Echo, r *handler.RequestHandler, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.SessionAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.GET("/my-requests", r.ListMine)
	g.PUT("/customers/:id", p.UpdateCustomer)
}
