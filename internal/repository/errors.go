// Package repository implements data access over the MySQL store. All
// coordination happens in the database: uniqueness via the union probe
// plus unique indexes, and single-use reset redemption via a
// transactional delete. Sentinel errors defined here let handlers map
// failures onto HTTP responses without inspecting SQL errors.
package repository

import "errors"

// ErrIdentityExists is returned when a username or email is already
// taken by any actor, customer or mechanic. Handlers should translate
// this into an HTTP 409 response.
var ErrIdentityExists = errors.New("username or email already exists")

// ErrActorNotFound is returned when no actor row matches the lookup.
var ErrActorNotFound = errors.New("actor not found")

// ErrRequestNotFound is returned when a service request id does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrRequestNotFound = errors.New("service request not found")

// ErrResetTokenInvalid is returned for reset tokens that are unknown,
// expired or already redeemed. The three cases are deliberately
// indistinguishable so callers cannot probe which tokens ever existed.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")
