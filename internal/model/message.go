package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageStatus string

const (
	StatusDraft         MessageStatus = "draft"
	StatusScheduled     MessageStatus = "scheduled"
	StatusProcessing    MessageStatus = "processing"
	StatusSent          MessageStatus = "sent"
	StatusPartiallySent MessageStatus = "partially_sent"
	StatusFailed        MessageStatus = "failed"
)

// IsTerminal reports whether the status can never be re-entered by a sweep.
func (s MessageStatus) IsTerminal() bool {
	return s == StatusSent || s == StatusPartiallySent || s == StatusFailed
}

// IsEditable reports whether user CRUD may still mutate the message.
func (s MessageStatus) IsEditable() bool {
	return s == StatusDraft || s == StatusScheduled
}

const ChannelEmail = "EMAIL"

type Message struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	UserID       uuid.UUID     `db:"user_id" json:"userId"`
	Title        string        `db:"title" json:"title"`
	Content      string        `db:"content" json:"content"`
	Types        []string      `db:"types" json:"types"`
	RecipientIDs []uuid.UUID   `db:"recipient_ids" json:"recipientIds"`
	Attachments  []string      `db:"attachments" json:"attachments"`
	Status       MessageStatus `db:"status" json:"status"`
	ScheduledFor *time.Time    `db:"scheduled_for" json:"scheduledFor,omitempty"`
	ClaimedAt    *time.Time    `db:"claimed_at" json:"-"`
	LastError    *string       `db:"last_error" json:"lastError,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// MessageCreateRequest
// @Description Payload for creating a message in draft or scheduled status.
type MessageCreateRequest struct {
	UserID       string     `binding:"required,uuid" json:"userId"`
	Title        string     `binding:"required" json:"title" example:"To my family"`
	Content      string     `binding:"required" json:"content"`
	Types        []string   `json:"types" example:"EMAIL"`
	RecipientIDs []string   `binding:"dive,uuid" json:"recipientIds"`
	Attachments  []string   `json:"attachments"`
	Scheduled    bool       `json:"scheduled"`
	ScheduledFor *time.Time `json:"scheduledFor"`
} // @Name MessageCreateRequest

// MessageUpdateRequest
// @Description Partial update; only draft and scheduled messages are editable.
type MessageUpdateRequest struct {
	Title        *string    `json:"title"`
	Content      *string    `json:"content"`
	Types        []string   `json:"types"`
	RecipientIDs []string   `binding:"dive,uuid" json:"recipientIds"`
	Attachments  []string   `json:"attachments"`
	ScheduledFor *time.Time `json:"scheduledFor"`
} // @Name MessageUpdateRequest

type MessageIDPathParam struct {
	ID string `binding:"required,uuid" uri:"id" example:"0b41a9f2-9a4c-493e-92a2-6b6d5c1f6f5a"`
}
