package model

import "time"

// PasswordResetToken models a row in the password_reset_tokens
// table. Each token is a one-shot secret: redemption deletes the
// row in the same transaction that rewrites the password hash, so
// it can never be used twice. Expired rows simply stop matching
// and are left in place.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	ActorRole string    // password_reset_tokens.actor_role (CUSTOMER or MECHANIC)
	ActorID   uint64    // password_reset_tokens.actor_id
	Token     string    // password_reset_tokens.token (48 hex chars, unique)
	ExpiresAt time.Time // password_reset_tokens.expires_at
	CreatedAt time.Time // password_reset_tokens.created_at
}
