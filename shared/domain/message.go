package domain

import "time"

type MsgId = int64

// Message is a direct message between two profiles. Immutable once
// created; there is no edit or delete path.
type Message struct {
	Id         MsgId
	SenderId   ProfileId
	ReceiverId ProfileId
	Text       string
	TenantId   int64
	CreatedAt  time.Time
}

// MessageCreationData carries everything the send flow needs beyond the
// authenticated user: recipient username, body text and the optional
// display-name override shown in the notification email.
type MessageCreationData struct {
	To          string
	Text        string
	DisplayName string
}
