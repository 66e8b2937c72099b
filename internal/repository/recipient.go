package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
)

type RecipientRepository struct {
	db *pgxpool.Pool
}

func NewRecipientRepository(db *pgxpool.Pool) *RecipientRepository {
	return &RecipientRepository{db: db}
}

const recipientColumns = `
	id, user_id, name, email, timezone, verified, created_at, updated_at
`

func (r *RecipientRepository) InsertRecipient(ctx context.Context, ext RepoExtension, recipient *model.Recipient) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO scheduler.recipients
			(id, user_id, name, email, timezone, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now().UTC()
	recipient.CreatedAt = now
	recipient.UpdatedAt = now

	_, err := ext.Exec(ctx, query,
		recipient.ID,
		recipient.UserID,
		recipient.Name,
		recipient.Email,
		recipient.Timezone,
		recipient.Verified,
		recipient.CreatedAt,
		recipient.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *RecipientRepository) SelectRecipientByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Recipient, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + recipientColumns + `
		FROM scheduler.recipients
		WHERE id = $1
	`

	var recipient model.Recipient

	if err := ext.QueryRow(ctx, query, id).Scan(
		&recipient.ID,
		&recipient.UserID,
		&recipient.Name,
		&recipient.Email,
		&recipient.Timezone,
		&recipient.Verified,
		&recipient.CreatedAt,
		&recipient.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecipientDoesNotExist
		}

		return nil, err
	}

	return &recipient, nil
}

// SelectRecipientsByIDs resolves a message's recipient references. Missing
// identifiers are simply absent from the result; the caller decides how to
// treat them.
func (r *RecipientRepository) SelectRecipientsByIDs(ctx context.Context, ext RepoExtension, ids []uuid.UUID) ([]model.Recipient, error) {
	if ext == nil {
		ext = r.db
	}

	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT ` + recipientColumns + `
		FROM scheduler.recipients
		WHERE id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := ext.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var recipients []model.Recipient

	for rows.Next() {
		var recipient model.Recipient

		if err := rows.Scan(
			&recipient.ID,
			&recipient.UserID,
			&recipient.Name,
			&recipient.Email,
			&recipient.Timezone,
			&recipient.Verified,
			&recipient.CreatedAt,
			&recipient.UpdatedAt,
		); err != nil {
			return nil, err
		}

		recipients = append(recipients, recipient)
	}

	return recipients, rows.Err()
}

func (r *RecipientRepository) SelectRecipientsByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Recipient, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + recipientColumns + `
		FROM scheduler.recipients
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := ext.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var recipients []model.Recipient

	for rows.Next() {
		var recipient model.Recipient

		if err := rows.Scan(
			&recipient.ID,
			&recipient.UserID,
			&recipient.Name,
			&recipient.Email,
			&recipient.Timezone,
			&recipient.Verified,
			&recipient.CreatedAt,
			&recipient.UpdatedAt,
		); err != nil {
			return nil, err
		}

		recipients = append(recipients, recipient)
	}

	return recipients, rows.Err()
}

func (r *RecipientRepository) UpdateRecipient(ctx context.Context, ext RepoExtension, recipient *model.Recipient) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE scheduler.recipients
		SET name = $2, email = $3, timezone = $4, verified = $5, updated_at = $6
		WHERE id = $1
	`

	recipient.UpdatedAt = time.Now().UTC()

	tag, err := ext.Exec(ctx, query,
		recipient.ID,
		recipient.Name,
		recipient.Email,
		recipient.Timezone,
		recipient.Verified,
		recipient.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrRecipientDoesNotExist
	}

	return nil
}

func (r *RecipientRepository) DeleteRecipient(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		DELETE FROM scheduler.recipients
		WHERE id = $1
	`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrRecipientDoesNotExist
	}

	return nil
}
