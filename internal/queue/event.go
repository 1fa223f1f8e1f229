// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification is the envelope published to the notifications queue.
// Exactly one of the payload pointers is set, selected by Type. The
// consumer (the out-of-band delivery collaborator) switches on Type;
// this service only produces tokens and events, it never delivers them
// to end users itself.
type Notification struct {
	Type          string               `json:"type"` // "password_reset" or "request_update"
	PasswordReset *PasswordResetNotice `json:"password_reset,omitempty"`
	RequestUpdate *RequestUpdateNotice `json:"request_update,omitempty"`
}

// PasswordResetNotice is emitted when a reset token has been issued.
// It carries everything the delivery channel needs to compose the
// message: the recipient address, the token, and its expiry.
type PasswordResetNotice struct {
	Email     string `json:"email"`
	ActorRole string `json:"actor_role"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// RequestUpdateNotice is emitted when a service request is created or
// changes status, for downstream logging and customer notification.
type RequestUpdateNotice struct {
	RequestID   uint64  `json:"request_id"`
	Status      string  `json:"status"`
	ServiceType string  `json:"service_type"`
	Location    string  `json:"location"`
	MechanicID  *uint64 `json:"mechanic_id,omitempty"`
	OccurredAt  string  `json:"occurred_at"`
}

// Notification type tags.
const (
	TypePasswordReset = "password_reset"
	TypeRequestUpdate = "request_update"
)
