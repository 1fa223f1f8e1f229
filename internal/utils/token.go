package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// resetTokenBytes is the entropy of a password reset token. 24 random
// bytes render as a 48-character hex string.
const resetTokenBytes = 24

// NewResetToken returns a cryptographically random reset token as a
// fixed-length hex string. Uniqueness is additionally enforced by a
// unique index on the password_reset_tokens.token column.
func NewResetToken() (string, error) {
	return randomHex(resetTokenBytes)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
