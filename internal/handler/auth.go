package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/config"
	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/queue"
	"github.com/osmapp/osm-backend/internal/repository"
	queue_publisher "github.com/osmapp/osm-backend/internal/service"
	"github.com/osmapp/osm-backend/internal/utils"
)

// AuthHandler bundles dependencies for identity endpoints: register,
// login, the password reset pair, and the authenticated "me" view.
type AuthHandler struct {
	Cfg    config.Config
	Actors *repository.ActorRepo
	Resets *repository.ResetTokenRepo
}

func NewAuthHandler(cfg config.Config, a *repository.ActorRepo, r *repository.ResetTokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Actors: a, Resets: r}
}

// ----- DTOs -----

type registerReq struct {
	Name      string   `json:"name" validate:"required"`
	Username  string   `json:"username" validate:"required,min=3"`
	Mobile    string   `json:"mobile" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6"`
	Role      string   `json:"role"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}
type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}
type resetReq struct {
	Token       string `json:"token" validate:"required,len=48,hexadecimal"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type sessionResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	ActorID uint64    `json:"actor_id"`
	Role    string    `json:"role"`
}

// normalizeRole maps free-form client role strings onto the two known
// roles, defaulting to customer.
func normalizeRole(s string) string {
	if strings.ToUpper(strings.TrimSpace(s)) == model.RoleMechanic {
		return model.RoleMechanic
	}
	return model.RoleCustomer
}

// Register creates an actor in the role's table. The username and
// email must be free across both actor tables; mechanics must supply
// their base coordinates.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing or malformed fields"})
	}
	role := normalizeRole(req.Role)
	if role == model.RoleMechanic && (req.Latitude == nil || req.Longitude == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mechanic must provide latitude and longitude"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Actors.Create(ctx, repository.NewActor{
		Role:      role,
		Name:      req.Name,
		Username:  req.Username,
		Mobile:    req.Mobile,
		Email:     req.Email,
		Password:  req.Password,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "role": role})
}

// Login verifies credentials against the requested role's table and
// issues a session token valid for the configured number of days.
// Unknown usernames and wrong passwords are reported identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role := normalizeRole(req.Role)

	ctx, cancel := reqContext(c)
	defer cancel()

	a, err := h.Actors.GetByUsername(ctx, role, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		}
		return storeError(c, err)
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, a.ID, role, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, sessionResp{Token: tok.Token, Expires: tok.Exp, ActorID: a.ID, Role: role})
}

// ForgotPassword issues a reset token for the actor owning the email,
// searching both roles. The token is handed to the delivery
// collaborator via the notification queue; the response body never
// contains it.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	role, id, err := h.Actors.FindRoleByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "email not found"})
		}
		return storeError(c, err)
	}

	token, err := utils.NewResetToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	expires := time.Now().UTC().Add(time.Duration(h.Cfg.ResetTokenTTLMin) * time.Minute)
	if err := h.Resets.Store(ctx, role, id, token, expires); err != nil {
		return storeError(c, err)
	}

	// Delivery is out-of-band. Publishing failures are logged inside the
	// publisher and must not fail the request.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pubCancel()
		_ = queue_publisher.Publish(pubCtx, queue.Notification{
			Type: queue.TypePasswordReset,
			PasswordReset: &queue.PasswordResetNotice{
				Email:     strings.ToLower(strings.TrimSpace(req.Email)),
				ActorRole: role,
				Token:     token,
				ExpiresAt: expires.Format(time.RFC3339),
			},
		})
	}()
	log.Printf("password reset token issued for %s actor %d", role, id)

	return c.JSON(http.StatusOK, echo.Map{"message": "reset token generated; delivery is sent out-of-band"})
}

// ResetPassword redeems a reset token and installs the new password.
// Unknown, expired and already-used tokens all produce the same 400.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new password are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Resets.Redeem(ctx, req.Token, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrResetTokenInvalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// Me returns a summary of the authenticated actor, whichever role it
// holds. Mechanics additionally see their coordinates and availability.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role := actorRole(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	a, err := h.Actors.GetByID(ctx, role, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return storeError(c, err)
	}

	resp := echo.Map{
		"id":       a.ID,
		"role":     a.Role,
		"name":     a.Name,
		"username": a.Username,
		"mobile":   a.Mobile,
		"email":    a.Email,
	}
	if a.IsMechanic() {
		resp["latitude"] = a.Latitude
		resp["longitude"] = a.Longitude
		resp["is_available"] = a.IsAvailable
	}
	return c.JSON(http.StatusOK, echo.Map{"user": resp})
}
