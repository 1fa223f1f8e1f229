package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/utils"
)

const dupProbeSQL = "SELECT id FROM customers WHERE username=? OR email=? UNION SELECT id FROM mechanics WHERE username=? OR email=? LIMIT 1"

func newActorRepo(t *testing.T) (*ActorRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewActorRepo(db), mock
}

func TestActorCreateCustomer(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(dupProbeSQL)).
		WithArgs("alice", "alice@x.com", "alice", "alice@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers (name, username, mobile, email, password_hash) VALUES (?,?,?,?,?)")).
		WithArgs("Alice", "alice", "555-0100", "alice@x.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Create(context.Background(), NewActor{
		Role:     model.RoleCustomer,
		Name:     "Alice",
		Username: "alice",
		Mobile:   "555-0100",
		Email:    "Alice@X.com", // normalized to lower case
		Password: "secret123",
	}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorCreateMechanic(t *testing.T) {
	repo, mock := newActorRepo(t)
	lat, lon := 1.0, 2.0

	mock.ExpectQuery(regexp.QuoteMeta(dupProbeSQL)).
		WithArgs("bob", "bob@x.com", "bob", "bob@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mechanics (name, username, mobile, email, password_hash, latitude, longitude) VALUES (?,?,?,?,?,?,?)")).
		WithArgs("Bob", "bob", "555-0101", "bob@x.com", sqlmock.AnyArg(), lat, lon).
		WillReturnResult(sqlmock.NewResult(2, 1))

	id, err := repo.Create(context.Background(), NewActor{
		Role:      model.RoleMechanic,
		Name:      "Bob",
		Username:  "bob",
		Mobile:    "555-0101",
		Email:     "bob@x.com",
		Password:  "secret123",
		Latitude:  &lat,
		Longitude: &lon,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Registering a username that exists in either table fails the same
// way: the identity namespace is the union of customers and mechanics.
func TestActorCreateDuplicateAcrossRoles(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(dupProbeSQL)).
		WithArgs("alice", "third@x.com", "alice", "third@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.Create(context.Background(), NewActor{
		Role:     model.RoleMechanic,
		Name:     "Third",
		Username: "alice",
		Mobile:   "555-0102",
		Email:    "third@x.com",
		Password: "secret123",
	}, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrIdentityExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two concurrent registrations can both pass the probe; the unique
// index then rejects the loser with MySQL error 1062, which must map
// to the same sentinel.
func TestActorCreateRaceMapsUniqueViolation(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(dupProbeSQL)).
		WithArgs("alice", "alice@x.com", "alice", "alice@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'uq_customers_username'"))

	_, err := repo.Create(context.Background(), NewActor{
		Role:     model.RoleCustomer,
		Name:     "Alice",
		Username: "alice",
		Mobile:   "555-0100",
		Email:    "alice@x.com",
		Password: "secret123",
	}, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrIdentityExists)
}

func TestActorGetByUsername(t *testing.T) {
	repo, mock := newActorRepo(t)
	now := time.Now().UTC()
	hash, err := utils.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,username,mobile,email,password_hash,created_at,updated_at FROM customers WHERE username=? LIMIT 1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "mobile", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(1, "Alice", "alice", "555-0100", "alice@x.com", hash, now, now))

	a, err := repo.GetByUsername(context.Background(), model.RoleCustomer, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, model.RoleCustomer, a.Role)
	assert.True(t, utils.VerifyPassword(a.PasswordHash, "secret123"))
	assert.Nil(t, a.Latitude)
}

func TestActorGetByUsernameNotFound(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery("SELECT .+ FROM mechanics WHERE username=").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), model.RoleMechanic, "ghost")
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestFindRoleByEmail(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery("SELECT id, 'CUSTOMER' AS role FROM customers").
		WithArgs("alice@x.com", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).AddRow(3, "CUSTOMER"))

	role, id, err := repo.FindRoleByEmail(context.Background(), " Alice@X.com ")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, role)
	assert.Equal(t, uint64(3), id)
}

func TestFindRoleByEmailNotFound(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery("SELECT id, 'CUSTOMER' AS role FROM customers").
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.FindRoleByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestSetAvailability(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mechanics SET is_available=? WHERE id=?")).
		WithArgs(true, uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAvailability(context.Background(), 2, true))
}

// The DSN sets clientFoundRows, so a matched-but-unchanged row still
// reports one affected row. Re-submitting the current value succeeds
// instead of being mistaken for an unknown mechanic.
func TestSetAvailabilityNoChange(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mechanics SET is_available=? WHERE id=?")).
		WithArgs(false, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAvailability(context.Background(), 7, false))
}

func TestUpdateCustomerProfileNoChange(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET name=?, mobile=?, email=? WHERE id=?")).
		WithArgs("Alice", "555-0100", "alice@x.com", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCustomerProfile(context.Background(), 3, "Alice", "555-0100", "alice@x.com"))
}

func TestSetAvailabilityUnknownMechanic(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mechanics SET is_available=? WHERE id=?")).
		WithArgs(false, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAvailability(context.Background(), 99, false)
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestDeleteActor(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mechanics WHERE id=?")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), model.RoleMechanic, 2))
}
