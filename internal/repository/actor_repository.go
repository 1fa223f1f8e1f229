package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/utils"
)

// ActorRepo provides access to the two actor tables. Customers and
// mechanics are stored separately but share one identity namespace:
// every username/email lookup and the pre-insert duplicate probe run
// against the union of both tables.
type ActorRepo struct{ DB *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{DB: db} }

// tableFor maps a role constant to its actor table.
func tableFor(role string) string {
	if role == model.RoleMechanic {
		return "mechanics"
	}
	return "customers"
}

// NewActor carries the input fields for Create. Latitude and Longitude
// are required when Role is RoleMechanic and ignored otherwise.
type NewActor struct {
	Role      string
	Name      string
	Username  string
	Mobile    string
	Email     string
	Password  string
	Latitude  *float64
	Longitude *float64
}

// Create inserts an actor into its role's table and returns the new id.
// The username/email pair is probed across both tables first; the
// unique indexes back the probe up under concurrent inserts (MySQL
// error 1062 maps to the same sentinel).
func (r *ActorRepo) Create(ctx context.Context, in NewActor, cost int) (uint64, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	var dup uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM customers WHERE username=? OR email=? UNION SELECT id FROM mechanics WHERE username=? OR email=? LIMIT 1",
		in.Username, in.Email, in.Username, in.Email).Scan(&dup)
	if err == nil {
		return 0, ErrIdentityExists
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return 0, err
	}

	var res sql.Result
	if in.Role == model.RoleMechanic {
		res, err = r.DB.ExecContext(ctx,
			"INSERT INTO mechanics (name, username, mobile, email, password_hash, latitude, longitude) VALUES (?,?,?,?,?,?,?)",
			in.Name, in.Username, in.Mobile, in.Email, hash, in.Latitude, in.Longitude)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"INSERT INTO customers (name, username, mobile, email, password_hash) VALUES (?,?,?,?,?)",
			in.Name, in.Username, in.Mobile, in.Email, hash)
	}
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrIdentityExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an actor of the given role by username.
func (r *ActorRepo) GetByUsername(ctx context.Context, role, username string) (model.Actor, error) {
	return r.getBy(ctx, role, "username=?", strings.TrimSpace(username))
}

// GetByID fetches an actor of the given role by id.
func (r *ActorRepo) GetByID(ctx context.Context, role string, id uint64) (model.Actor, error) {
	return r.getBy(ctx, role, "id=?", id)
}

func (r *ActorRepo) getBy(ctx context.Context, role, where string, arg interface{}) (model.Actor, error) {
	a := model.Actor{Role: role}
	var err error
	if role == model.RoleMechanic {
		err = r.DB.QueryRowContext(ctx,
			"SELECT id,name,username,mobile,email,password_hash,latitude,longitude,is_available,created_at,updated_at FROM mechanics WHERE "+where+" LIMIT 1",
			arg).Scan(&a.ID, &a.Name, &a.Username, &a.Mobile, &a.Email, &a.PasswordHash, &a.Latitude, &a.Longitude, &a.IsAvailable, &a.CreatedAt, &a.UpdatedAt)
	} else {
		err = r.DB.QueryRowContext(ctx,
			"SELECT id,name,username,mobile,email,password_hash,created_at,updated_at FROM customers WHERE "+where+" LIMIT 1",
			arg).Scan(&a.ID, &a.Name, &a.Username, &a.Mobile, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	}
	if err == sql.ErrNoRows {
		return model.Actor{}, ErrActorNotFound
	}
	return a, err
}

// FindRoleByEmail resolves an email to the owning actor's role and id,
// searching customers first and mechanics second. Used by the password
// reset flow, which has only an email to go on.
func (r *ActorRepo) FindRoleByEmail(ctx context.Context, email string) (role string, id uint64, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, 'CUSTOMER' AS role FROM customers WHERE email=? UNION SELECT id, 'MECHANIC' AS role FROM mechanics WHERE email=? LIMIT 1",
		email, email).Scan(&id, &role)
	if err == sql.ErrNoRows {
		return "", 0, ErrActorNotFound
	}
	return role, id, err
}

// UpdateCustomerProfile rewrites a customer's mutable contact fields.
// Ownership is enforced by the caller; this statement is scoped to id.
func (r *ActorRepo) UpdateCustomerProfile(ctx context.Context, id uint64, name, mobile, email string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET name=?, mobile=?, email=? WHERE id=?",
		name, mobile, strings.ToLower(strings.TrimSpace(email)), id)
	return oneRowTouched(res, err, ErrActorNotFound)
}

// UpdateMechanicProfile rewrites a mechanic's contact fields and base
// coordinates.
func (r *ActorRepo) UpdateMechanicProfile(ctx context.Context, id uint64, name, mobile, email string, lat, lon float64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE mechanics SET name=?, mobile=?, email=?, latitude=?, longitude=? WHERE id=?",
		name, mobile, strings.ToLower(strings.TrimSpace(email)), lat, lon, id)
	return oneRowTouched(res, err, ErrActorNotFound)
}

// Delete removes an actor row from its role's table.
func (r *ActorRepo) Delete(ctx context.Context, role string, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM "+tableFor(role)+" WHERE id=?", id)
	return oneRowTouched(res, err, ErrActorNotFound)
}

// GetAvailability reads a mechanic's availability flag.
func (r *ActorRepo) GetAvailability(ctx context.Context, mechanicID uint64) (bool, error) {
	var avail bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_available FROM mechanics WHERE id=? LIMIT 1", mechanicID).Scan(&avail)
	if err == sql.ErrNoRows {
		return false, ErrActorNotFound
	}
	return avail, err
}

// SetAvailability flips a mechanic's availability flag.
func (r *ActorRepo) SetAvailability(ctx context.Context, mechanicID uint64, available bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE mechanics SET is_available=? WHERE id=?", available, mechanicID)
	return oneRowTouched(res, err, ErrActorNotFound)
}

// oneRowTouched converts a zero-row write into notFound. The DSN sets
// clientFoundRows, so RowsAffected counts matched rows and a no-change
// update does not trip this.
func oneRowTouched(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
