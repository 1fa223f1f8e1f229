package model

import "time"

// Role names an actor variant. The two variants live in separate
// tables (`customers` and `mechanics`) but share one logical
// identity namespace: usernames and emails are unique across the
// union of both. The role value is embedded in session tokens and
// stored alongside password reset tokens so that the owning table
// can be resolved later.
const (
	RoleCustomer = "CUSTOMER"
	RoleMechanic = "MECHANIC"
)

// Actor represents a row from either actor table. Rather than
// duplicating query logic per table, the repository layer scans
// both `customers` and `mechanics` rows into this single shape and
// tags it with the Role. Mechanic-only columns are pointers so a
// customer row leaves them nil.
type Actor struct {
	ID           uint64    // customers.id / mechanics.id
	Role         string    // tag: which table the row came from
	Name         string    // name
	Username     string    // username
	Mobile       string    // mobile
	Email        string    // email
	PasswordHash string    // password_hash
	Latitude     *float64  // mechanics.latitude (nullable)
	Longitude    *float64  // mechanics.longitude (nullable)
	IsAvailable  bool      // mechanics.is_available
	CreatedAt    time.Time // created_at
	UpdatedAt    time.Time // updated_at
}

// IsMechanic reports whether the actor came from the mechanics table.
func (a Actor) IsMechanic() bool { return a.Role == RoleMechanic }

// ValidRole reports whether s is one of the two known role names.
func ValidRole(s string) bool { return s == RoleCustomer || s == RoleMechanic }
