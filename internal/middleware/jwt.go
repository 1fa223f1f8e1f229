package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/utils"
)

// Context keys populated by SessionAuth for downstream handlers.
const (
	CtxActorID = "actor_id"
	CtxRole    = "role"
)

// SessionAuth returns an Echo middleware that validates a Bearer
// session token and injects the verified actor id and role into the
// request context. Requests without a parseable, correctly signed,
// unexpired token are rejected with 401; role checks are a separate
// concern handled by RequireRole.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseSessionToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxActorID, claims.ActorID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
