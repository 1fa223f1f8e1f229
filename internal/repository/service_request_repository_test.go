package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmapp/osm-backend/internal/model"
)

const requestColsSQL = "id, customer_name, phone_number, service_type, location, user_id, mechanic_id, status, created_at"

func newRequestRepo(t *testing.T) (*ServiceRequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewServiceRequestRepo(db), mock
}

func requestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "customer_name", "phone_number", "service_type",
		"location", "user_id", "mechanic_id", "status", "created_at"})
}

func TestRequestCreateAnonymous(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO service_requests (customer_name, phone_number, service_type, location, user_id, status) VALUES (?,?,?,?,?,?)")).
		WithArgs("Dana", "555-0110", "Towing", "I-95 exit 4", nil, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(10, 1))

	id, err := repo.Create(context.Background(), NewServiceRequest{
		CustomerName: "Dana",
		PhoneNumber:  "555-0110",
		ServiceType:  "Towing",
		Location:     "I-95 exit 4",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), id)
}

func TestRequestCreateWithAccount(t *testing.T) {
	repo, mock := newRequestRepo(t)
	uid := uint64(3)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO service_requests")).
		WithArgs("Dana", "555-0110", "Battery", "Main St 12", int64(3), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), NewServiceRequest{
		CustomerName: "Dana",
		PhoneNumber:  "555-0110",
		ServiceType:  "Battery",
		Location:     "Main St 12",
		UserID:       &uid,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
}

func TestApproveSetsStatusAndMechanic(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM service_requests WHERE id=? LIMIT 1")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE service_requests SET status=?, mechanic_id=? WHERE id=?")).
		WithArgs(model.StatusApproved, uint64(2), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Approve(context.Background(), 10, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUnknownRequest(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM service_requests WHERE id=? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	err := repo.Approve(context.Background(), 404, 2)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

// Approve does not guard on the current status: re-approving an
// already decided request overwrites it. Long-standing behavior,
// recorded here rather than prevented.
func TestApproveOverwritesDecidedRequest(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM service_requests WHERE id=? LIMIT 1")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE service_requests SET status=?, mechanic_id=? WHERE id=?")).
		WithArgs(model.StatusApproved, uint64(5), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Approve(context.Background(), 10, 5))
}

func TestRejectLeavesMechanicUnset(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE service_requests SET status=? WHERE id=?")).
		WithArgs(model.StatusRejected, uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reject(context.Background(), 10))
}

func TestListByCustomerNewestFirst(t *testing.T) {
	repo, mock := newRequestRepo(t)
	uid := uint64(3)
	newer := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	older := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+requestColsSQL+" FROM service_requests WHERE user_id=? ORDER BY created_at DESC")).
		WithArgs(uint64(3)).
		WillReturnRows(requestRows().
			AddRow(12, "Dana", "555-0110", "Towing", "I-95", uid, nil, model.StatusPending, newer).
			AddRow(11, "Dana", "555-0110", "Battery", "Main St", uid, nil, model.StatusApproved, older))

	list, err := repo.ListByCustomer(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(12), list[0].ID)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
}

// The inbox is the union of everything unclaimed and everything this
// mechanic already claimed.
func TestMechanicInbox(t *testing.T) {
	repo, mock := newRequestRepo(t)
	mech := uint64(2)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+requestColsSQL+" FROM service_requests WHERE status=? OR mechanic_id=? ORDER BY created_at DESC")).
		WithArgs(model.StatusPending, uint64(2)).
		WillReturnRows(requestRows().
			AddRow(13, "Eve", "555-0111", "Flat tire", "Oak Ave", nil, nil, model.StatusPending, now).
			AddRow(12, "Dana", "555-0110", "Towing", "I-95", uint64(3), mech, model.StatusApproved, now.Add(-time.Hour)))

	list, err := repo.MechanicInbox(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.StatusPending, list[0].Status)
	assert.Nil(t, list[0].MechanicID)
	require.NotNil(t, list[1].MechanicID)
	assert.Equal(t, mech, *list[1].MechanicID)
}

func TestMechanicInboxEmpty(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery("SELECT .+ FROM service_requests WHERE status=").
		WithArgs(model.StatusPending, uint64(7)).
		WillReturnRows(requestRows())

	list, err := repo.MechanicInbox(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}
