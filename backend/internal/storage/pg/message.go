package pg

import (
	"fmt"
	"time"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

// CreateMessage inserts a message row. The creation timestamp is assigned
// here; the database rounds to microseconds anyway.
func (s *Storage) CreateMessage(msg domain.Message) (domain.MsgId, error) {
	createdTs := time.Now().UTC().Round(time.Microsecond)

	var id domain.MsgId
	err := s.db.QueryRow(`
	INSERT INTO messages(sender_id, receiver_id, text, tenant_id, created)
	VALUES($1, $2, $3, $4, $5)
	RETURNING id`,
		msg.SenderId, msg.ReceiverId, msg.Text, msg.TenantId, createdTs).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// CountSentSince counts messages the sender created strictly after the
// given timestamp. The rate-limit window is "now minus 24h"; the strict
// greater-than matters for messages created exactly on the boundary.
func (s *Storage) CountSentSince(senderId domain.ProfileId, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM messages WHERE sender_id = $1 AND created > $2", senderId, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
