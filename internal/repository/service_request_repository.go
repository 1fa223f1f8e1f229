package repository

import (
	"context"
	"database/sql"

	"github.com/osmapp/osm-backend/internal/model"
)

// ServiceRequestRepo provides CRUD operations for service requests.
// A request starts Pending; a mechanic moves it to Approved (claiming
// it) or Rejected. The transition statements do not guard on the
// current status: re-approving or rejecting an already decided request
// overwrites it.
type ServiceRequestRepo struct{ db *sql.DB }

// NewServiceRequestRepo returns a repo bound to the given database.
func NewServiceRequestRepo(db *sql.DB) *ServiceRequestRepo { return &ServiceRequestRepo{db: db} }

// NewServiceRequest carries the input fields for Create. UserID is nil
// when the request was filed without a logged-in customer.
type NewServiceRequest struct {
	CustomerName string
	PhoneNumber  string
	ServiceType  string
	Location     string
	UserID       *uint64
}

// Create inserts a request with status Pending and returns its id.
func (r *ServiceRequestRepo) Create(ctx context.Context, in NewServiceRequest) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO service_requests (customer_name, phone_number, service_type, location, user_id, status) VALUES (?,?,?,?,?,?)",
		in.CustomerName, in.PhoneNumber, in.ServiceType, in.Location, in.UserID, model.StatusPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single request.
func (r *ServiceRequestRepo) GetByID(ctx context.Context, id uint64) (model.ServiceRequest, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, customer_name, phone_number, service_type, location, user_id, mechanic_id, status, created_at FROM service_requests WHERE id=? LIMIT 1",
		id)
	sr, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return model.ServiceRequest{}, ErrRequestNotFound
	}
	return sr, err
}

// Approve assigns the request to the given mechanic and marks it
// Approved. The request must exist (ErrRequestNotFound otherwise); its
// current status is not checked before the overwrite.
func (r *ServiceRequestRepo) Approve(ctx context.Context, requestID, mechanicID uint64) error {
	var exists uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM service_requests WHERE id=? LIMIT 1", requestID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE service_requests SET status=?, mechanic_id=? WHERE id=?",
		model.StatusApproved, mechanicID, requestID)
	return err
}

// Reject marks the request Rejected. Like Approve, it overwrites
// whatever status the request currently has; unknown ids are a no-op.
func (r *ServiceRequestRepo) Reject(ctx context.Context, requestID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE service_requests SET status=? WHERE id=?",
		model.StatusRejected, requestID)
	return err
}

// ListByCustomer returns all requests filed under the given customer
// account, newest first.
func (r *ServiceRequestRepo) ListByCustomer(ctx context.Context, userID uint64) ([]model.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, customer_name, phone_number, service_type, location, user_id, mechanic_id, status, created_at FROM service_requests WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// MechanicInbox returns the union of every unclaimed Pending request
// and every request the mechanic already claimed, newest first.
func (r *ServiceRequestRepo) MechanicInbox(ctx context.Context, mechanicID uint64) ([]model.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, customer_name, phone_number, service_type, location, user_id, mechanic_id, status, created_at FROM service_requests WHERE status=? OR mechanic_id=? ORDER BY created_at DESC",
		model.StatusPending, mechanicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...interface{}) error }

func scanRequest(rs rowScanner) (model.ServiceRequest, error) {
	var sr model.ServiceRequest
	err := rs.Scan(&sr.ID, &sr.CustomerName, &sr.PhoneNumber, &sr.ServiceType,
		&sr.Location, &sr.UserID, &sr.MechanicID, &sr.Status, &sr.CreatedAt)
	return sr, err
}

func collectRequests(rows *sql.Rows) ([]model.ServiceRequest, error) {
	out := []model.ServiceRequest{}
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
