package model

import "time"

// Service request statuses as stored in service_requests.status.
// A request starts Pending and is moved to Approved or Rejected by
// a mechanic. Approved and Rejected are terminal in intent, but the
// transition statements do not guard on the current status; see the
// repository for details.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ServiceRequest records a customer's call for roadside help. The
// contact fields are free text because a request may be filed
// without an account; UserID links it to a customer when one was
// logged in, and MechanicID is set when a mechanic approves it.
//
// Fields:
//  ID           – primary key identifier.
//  CustomerName – contact name as entered on the request form.
//  PhoneNumber  – callback number.
//  ServiceType  – kind of work requested (e.g. "Towing").
//  Location     – free-text breakdown location.
//  UserID       – owning customer account (nullable).
//  MechanicID   – mechanic who approved the request (nullable).
//  Status       – Pending, Approved or Rejected.
//  CreatedAt    – creation timestamp.
type ServiceRequest struct {
	ID           uint64    // service_requests.id
	CustomerName string    // service_requests.customer_name
	PhoneNumber  string    // service_requests.phone_number
	ServiceType  string    // service_requests.service_type
	Location     string    // service_requests.location
	UserID       *uint64   // service_requests.user_id (nullable)
	MechanicID   *uint64   // service_requests.mechanic_id (nullable)
	Status       string    // service_requests.status
	CreatedAt    time.Time // service_requests.created_at
}
