package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/repository"
)

// ProfileHandler serves profile mutation endpoints. Every operation is
// ownership-gated: the :id in the path must match the session's actor
// id, on top of the role check applied by the route group. A valid
// session editing someone else's profile is a 403, not a 401.
type ProfileHandler struct {
	Actors *repository.ActorRepo
}

func NewProfileHandler(a *repository.ActorRepo) *ProfileHandler {
	if a == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Actors: a}
}

type updateCustomerReq struct {
	Name   string `json:"name" validate:"required"`
	Mobile string `json:"mobile" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

type updateMechanicReq struct {
	Name      string   `json:"name" validate:"required"`
	Mobile    string   `json:"mobile" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// ownID returns the session actor id if it matches the :id path
// parameter. When it does not, the error response has already been
// written and ok is false.
func ownID(c echo.Context) (id uint64, ok bool) {
	self, err := actorID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return 0, false
	}
	target, err := pathID(c)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return 0, false
	}
	if self != target {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return 0, false
	}
	return self, true
}

// UpdateCustomer handles PUT /v1/customers/:id.
func (h *ProfileHandler) UpdateCustomer(c echo.Context) error {
	id, ok := ownID(c)
	if !ok {
		return nil
	}
	var req updateCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, mobile and email are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Actors.UpdateCustomerProfile(ctx, id, req.Name, req.Mobile, req.Email); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// UpdateMechanic handles PUT /v1/mechanics/:id.
func (h *ProfileHandler) UpdateMechanic(c echo.Context) error {
	id, ok := ownID(c)
	if !ok {
		return nil
	}
	var req updateMechanicReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, mobile, email and coordinates are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	err := h.Actors.UpdateMechanicProfile(ctx, id, req.Name, req.Mobile, req.Email, *req.Latitude, *req.Longitude)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "mechanic profile updated"})
}

// Delete handles DELETE /v1/profile/:id for either role. The row is
// removed from the table matching the session's role.
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, ok := ownID(c)
	if !ok {
		return nil
	}
	role := actorRole(c)
	if !model.ValidRole(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Actors.Delete(ctx, role, id); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile deleted"})
}
