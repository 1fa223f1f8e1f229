package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/handler"
	"github.com/osmapp/osm-backend/internal/middleware"
	"github.com/osmapp/osm-backend/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity endpoints. The unauthenticated
// credential routes (register, login, and the password reset pair) sit
// behind the rate limiter since they are the brute-force surface;
// /v1/me requires a valid session of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1",
		middleware.SessionAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleMechanic),
	)
	auth.GET("/me", a.Me)
}

// RegisterProfile registers the ownership-gated profile mutations.
// Deletion is open to either role; the customer/mechanic update routes
// carry their role's group in customer_routes.go / mechanic_routes.go.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.SessionAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleMechanic),
	)
	g.DELETE("/profile/:id", p.Delete)
}

// RegisterRequests registers service request creation. The route is
// public: a request may be filed without an account.
func RegisterRequests(e *echo.Echo, r *handler.RequestHandler) {
	e.POST("/v1/service-requests", r.Create)
}
