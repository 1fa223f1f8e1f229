package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func readNotifyLog(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("logs", "notifications.log"))
	require.NoError(t, err)
	return string(b)
}

func TestHandlePasswordResetMessage(t *testing.T) {
	chdirTemp(t)

	body, err := json.Marshal(Notification{
		Type: TypePasswordReset,
		PasswordReset: &PasswordResetNotice{
			Email:     "alice@x.com",
			ActorRole: "CUSTOMER",
			Token:     "deadbeef",
			ExpiresAt: "2026-08-29T12:00:00Z",
		},
	})
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	log := readNotifyLog(t)
	assert.Contains(t, log, "alice@x.com")
	assert.Contains(t, log, "deadbeef")
}

func TestHandleRequestUpdateMessage(t *testing.T) {
	chdirTemp(t)

	mech := uint64(7)
	body, err := json.Marshal(Notification{
		Type: TypeRequestUpdate,
		RequestUpdate: &RequestUpdateNotice{
			RequestID:   11,
			Status:      "Approved",
			MechanicID:  &mech,
			OccurredAt:  "2026-08-29T12:00:00Z",
			ServiceType: "Towing",
			Location:    "Main St",
		},
	})
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	log := readNotifyLog(t)
	assert.Contains(t, log, "request_id=11")
	assert.Contains(t, log, "mechanic_id=7")
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	chdirTemp(t)

	assert.Error(t, handleMessage([]byte("not json")))
	assert.Error(t, handleMessage([]byte(`{"type":"unknown"}`)))
	// type/payload mismatch
	assert.Error(t, handleMessage([]byte(`{"type":"password_reset"}`)))
}
