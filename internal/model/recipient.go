package model

import (
	"time"

	"github.com/google/uuid"
)

type Recipient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Verified  bool      `db:"verified" json:"verified"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RecipientCreateRequest
// @Description Payload for creating a recipient contact record.
type RecipientCreateRequest struct {
	UserID   string `binding:"required,uuid" json:"userId"`
	Name     string `binding:"required" json:"name" example:"Jamie"`
	Email    string `binding:"required,email" json:"email" example:"jamie@example.com"`
	Timezone string `json:"timezone" example:"Europe/London"`
} // @Name RecipientCreateRequest

// RecipientUpdateRequest
// @Description Partial update of a recipient contact record.
type RecipientUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `binding:"omitempty,email" json:"email"`
	Timezone *string `json:"timezone"`
	Verified *bool   `json:"verified"`
} // @Name RecipientUpdateRequest

type RecipientIDPathParam struct {
	ID string `binding:"required,uuid" uri:"id" example:"6f0b7c2e-3d0e-4f1b-9a95-67e2a7e21c55"`
}
