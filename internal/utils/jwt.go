package utils // package utils provides helpers for session tokens and hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for signed session tokens
)

// ErrInvalidSession is returned by ParseSessionToken for any token that
// cannot be accepted: bad signature, unexpected algorithm, malformed
// claims or an expired token. Callers get no further detail.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed JWT asserting an actor's identity and role.
// Tokens are stateless: nothing is persisted server-side and there is
// no revocation list, so a leaked token stays valid until its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	ActorID uint64 // subject: id within the role's actor table
	Role    string // CUSTOMER or MECHANIC
}

// NewSessionToken builds and signs an HS256 JWT for an actor. Claims are
// sub (actor id), role, iat and exp; the expiry is ttlDays from now.
// The signing secret is threaded in from config, never read from a
// global.
func NewSessionToken(secret string, actorID uint64, role string, ttlDays int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  actorID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies a serialized session token and extracts its
// claims. Only HMAC-signed tokens are accepted; expired tokens are
// rejected by the jwt library during Parse.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidSession
	}
	sub, ok := claims["sub"].(float64) // numeric JSON claims decode as float64
	if !ok || sub <= 0 {
		return SessionClaims{}, ErrInvalidSession
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	return SessionClaims{ActorID: uint64(sub), Role: role}, nil
}
