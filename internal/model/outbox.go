package model

import (
	"time"

	"github.com/google/uuid"
)

type OutboxEvent struct {
	ID        uuid.UUID  `db:"id"`
	Topic     string     `db:"topic"`
	Payload   []byte     `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
	Sent      bool       `db:"sent"`
	SentAt    *time.Time `db:"sent_at"`
}

// DeliveryAuditEvent is the payload published for every terminal status
// write, forming the audit trail of the sweep.
type DeliveryAuditEvent struct {
	MessageID uuid.UUID     `json:"messageId"`
	Status    MessageStatus `json:"status"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	SweptAt   time.Time     `json:"sweptAt"`
}
