package handler // handler implements the HTTP-facing side of each operation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/middleware"
)

// dbTimeout bounds every store call issued from a handler. A store
// that cannot answer within this window fails the operation with a
// retryable 503 instead of hanging the request.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// actorID extracts the authenticated actor id placed in the context by
// the session middleware, which always stores it as uint64.
func actorID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxActorID).(uint64)
	if !ok {
		return 0, errors.New("missing actor_id in context")
	}
	return id, nil
}

// actorRole extracts the authenticated actor's role from the context.
func actorRole(c echo.Context) string {
	if s, ok := c.Get(middleware.CtxRole).(string); ok {
		return s
	}
	return ""
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// storeError maps an unexpected repository error onto an HTTP
// response: timeouts become 503 (the one condition a client may safely
// retry), everything else is a 500. Sentinel errors are handled by the
// callers before reaching here.
func storeError(c echo.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
