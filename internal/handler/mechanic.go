package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/repository"
)

// MechanicHandler serves the mechanic self-service endpoints:
// availability flag and the detailed own-profile view. All routes are
// mechanic-scoped by middleware; the id always comes from the session.
type MechanicHandler struct {
	Actors *repository.ActorRepo
}

func NewMechanicHandler(a *repository.ActorRepo) *MechanicHandler {
	if a == nil {
		panic("nil repository passed to NewMechanicHandler")
	}
	return &MechanicHandler{Actors: a}
}

type availabilityReq struct {
	// Pointer so an absent field is distinguishable from false.
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// GetStatus handles GET /v1/mechanic/status.
func (h *MechanicHandler) GetStatus(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	avail, err := h.Actors.GetAvailability(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"is_available": avail})
}

// UpdateStatus handles PUT /v1/mechanic/status.
func (h *MechanicHandler) UpdateStatus(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Actors.SetAvailability(ctx, id, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "availability updated"})
}

// Details handles GET /v1/mechanic/details: the mechanic's own full
// record including coordinates and availability.
func (h *MechanicHandler) Details(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	a, err := h.Actors.GetByID(ctx, actorRole(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"mechanic": echo.Map{
		"id":           a.ID,
		"name":         a.Name,
		"username":     a.Username,
		"mobile":       a.Mobile,
		"email":        a.Email,
		"latitude":     a.Latitude,
		"longitude":    a.Longitude,
		"is_available": a.IsAvailable,
	}})
}
