package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/queue"
	"github.com/osmapp/osm-backend/internal/repository"
	queue_publisher "github.com/osmapp/osm-backend/internal/service"
)

// RequestHandler owns the service request lifecycle endpoints:
// creation (public), approve/reject (mechanic), and the two role-scoped
// list views.
type RequestHandler struct {
	Requests *repository.ServiceRequestRepo
}

func NewRequestHandler(r *repository.ServiceRequestRepo) *RequestHandler {
	if r == nil {
		panic("nil repository passed to NewRequestHandler")
	}
	return &RequestHandler{Requests: r}
}

type createRequestReq struct {
	CustomerName string  `json:"customer_name" validate:"required"`
	PhoneNumber  string  `json:"phone_number" validate:"required"`
	ServiceType  string  `json:"service_type" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	UserID       *uint64 `json:"user_id"`
}

type serviceRequestResp struct {
	ID           uint64    `json:"id"`
	CustomerName string    `json:"customer_name"`
	PhoneNumber  string    `json:"phone_number"`
	ServiceType  string    `json:"service_type"`
	Location     string    `json:"location"`
	UserID       *uint64   `json:"user_id,omitempty"`
	MechanicID   *uint64   `json:"mechanic_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRequestResp(sr model.ServiceRequest) serviceRequestResp {
	return serviceRequestResp{
		ID:           sr.ID,
		CustomerName: sr.CustomerName,
		PhoneNumber:  sr.PhoneNumber,
		ServiceType:  sr.ServiceType,
		Location:     sr.Location,
		UserID:       sr.UserID,
		MechanicID:   sr.MechanicID,
		Status:       sr.Status,
		CreatedAt:    sr.CreatedAt,
	}
}

// Create handles POST /v1/service-requests. No session is required:
// stranded customers may file a request before ever registering. When
// a customer account id is supplied it is stored as a back-reference.
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Requests.Create(ctx, repository.NewServiceRequest{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		ServiceType:  req.ServiceType,
		Location:     req.Location,
		UserID:       req.UserID,
	})
	if err != nil {
		return storeError(c, err)
	}

	h.publishUpdate(id, model.StatusPending, req.ServiceType, req.Location, nil)
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "request submitted"})
}

// Approve handles PUT /v1/service-requests/:id/approve. The approving
// mechanic comes from the session, never from the body. An unknown id
// is a 404; the current status is not checked before the overwrite.
func (h *RequestHandler) Approve(c echo.Context) error {
	mechID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reqID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Requests.Approve(ctx, reqID, mechID); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service request not found"})
		}
		return storeError(c, err)
	}

	h.publishUpdate(reqID, model.StatusApproved, "", "", &mechID)
	return c.JSON(http.StatusOK, echo.Map{"message": "request approved"})
}

// Reject handles PUT /v1/service-requests/:id/reject.
func (h *RequestHandler) Reject(c echo.Context) error {
	reqID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Requests.Reject(ctx, reqID); err != nil {
		return storeError(c, err)
	}

	h.publishUpdate(reqID, model.StatusRejected, "", "", nil)
	return c.JSON(http.StatusOK, echo.Map{"message": "request rejected"})
}

// ListMine handles GET /v1/my-requests for customers: every request
// filed under their account, newest first.
func (h *RequestHandler) ListMine(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	list, err := h.Requests.ListByCustomer(ctx, userID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"service_requests": toRequestResps(list)})
}

// Inbox handles GET /v1/mechanic/requests: everything unclaimed plus
// everything this mechanic already claimed, newest first.
func (h *RequestHandler) Inbox(c echo.Context) error {
	mechID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	list, err := h.Requests.MechanicInbox(ctx, mechID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"service_requests": toRequestResps(list)})
}

func toRequestResps(list []model.ServiceRequest) []serviceRequestResp {
	out := make([]serviceRequestResp, 0, len(list))
	for _, sr := range list {
		out = append(out, toRequestResp(sr))
	}
	return out
}

// publishUpdate hands a lifecycle event to the notification queue in
// the background; delivery failures never affect the request.
func (h *RequestHandler) publishUpdate(id uint64, status, serviceType, location string, mechanicID *uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = queue_publisher.Publish(ctx, queue.Notification{
			Type: queue.TypeRequestUpdate,
			RequestUpdate: &queue.RequestUpdateNotice{
				RequestID:   id,
				Status:      status,
				ServiceType: serviceType,
				Location:    location,
				MechanicID:  mechanicID,
				OccurredAt:  time.Now().UTC().Format(time.RFC3339),
			},
		})
	}()
}
