package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

func insertMessageAt(t *testing.T, senderId, receiverId domain.ProfileId, created time.Time) {
	t.Helper()

	_, err := storage.db.Exec("INSERT INTO messages(sender_id, receiver_id, text, tenant_id, created) VALUES($1, $2, $3, $4, $5)",
		senderId, receiverId, "backdated", 1, created)
	require.NoError(t, err)
}

func TestCreateMessage(t *testing.T) {
	sender := createTestProfile(t)
	receiver := createTestProfile(t)

	msgID, err := storage.CreateMessage(domain.Message{
		SenderId:   sender.Id,
		ReceiverId: receiver.Id,
		Text:       "Test message",
		TenantId:   1,
	})
	require.NoError(t, err, "CreateMessage should not return an error")
	assert.Greater(t, msgID, int64(0))

	// Unknown sender violates the FK
	_, err = storage.CreateMessage(domain.Message{SenderId: -1, ReceiverId: receiver.Id, Text: "x", TenantId: 1})
	require.Error(t, err)
}

func TestCountSentSince(t *testing.T) {
	sender := createTestProfile(t)
	receiver := createTestProfile(t)

	for i := 0; i < 3; i++ {
		_, err := storage.CreateMessage(domain.Message{SenderId: sender.Id, ReceiverId: receiver.Id, Text: "hi", TenantId: 1})
		require.NoError(t, err)
	}

	count, err := storage.CountSentSince(sender.Id, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Another sender's messages never count
	other := createTestProfile(t)
	count, err = storage.CountSentSince(other.Id, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountSentSinceIsStrictlyGreater(t *testing.T) {
	sender := createTestProfile(t)
	receiver := createTestProfile(t)

	cutoff := time.Now().UTC().Add(-24 * time.Hour).Round(time.Microsecond)
	// one row exactly at the boundary, one just inside, one just outside
	insertMessageAt(t, sender.Id, receiver.Id, cutoff)
	insertMessageAt(t, sender.Id, receiver.Id, cutoff.Add(time.Microsecond))
	insertMessageAt(t, sender.Id, receiver.Id, cutoff.Add(-time.Microsecond))

	count, err := storage.CountSentSince(sender.Id, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only created > cutoff counts, the boundary row is excluded")
}
