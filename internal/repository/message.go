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

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Pool() *pgxpool.Pool {
	return r.db
}

const messageColumns = `
	id, user_id, title, content, types, recipient_ids, attachments,
	status, scheduled_for, claimed_at, last_error, created_at, updated_at
`

func (r *MessageRepository) InsertMessage(ctx context.Context, ext RepoExtension, message *model.Message) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO scheduler.messages
			(id, user_id, title, content, types, recipient_ids, attachments, status, scheduled_for, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := ext.Exec(ctx, query,
		message.ID,
		message.UserID,
		message.Title,
		message.Content,
		message.Types,
		message.RecipientIDs,
		message.Attachments,
		message.Status,
		message.ScheduledFor,
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *MessageRepository) SelectMessageByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + messageColumns + `
		FROM scheduler.messages
		WHERE id = $1
	`

	message, err := scanMessage(ext.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageDoesNotExist
		}

		return nil, err
	}

	return message, nil
}

func (r *MessageRepository) SelectMessagesByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + messageColumns + `
		FROM scheduler.messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := ext.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var messages []model.Message

	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}

		messages = append(messages, *message)
	}

	return messages, rows.Err()
}

func (r *MessageRepository) UpdateMessage(ctx context.Context, ext RepoExtension, message *model.Message) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE scheduler.messages
		SET title = $2, content = $3, types = $4, recipient_ids = $5,
		    attachments = $6, status = $7, scheduled_for = $8, updated_at = $9
		WHERE id = $1 AND status IN ('draft', 'scheduled')
	`

	message.UpdatedAt = time.Now().UTC()

	tag, err := ext.Exec(ctx, query,
		message.ID,
		message.Title,
		message.Content,
		message.Types,
		message.RecipientIDs,
		message.Attachments,
		message.Status,
		message.ScheduledFor,
		message.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotEditable
	}

	return nil
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		DELETE FROM scheduler.messages
		WHERE id = $1
	`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageDoesNotExist
	}

	return nil
}

// SelectDueBatch returns messages eligible for dispatch at now: scheduled
// and due, or claimed by a sweep that went silent for longer than the
// grace period. Ordering is deterministic for reproducible sweeps.
func (r *MessageRepository) SelectDueBatch(ctx context.Context, ext RepoExtension, now time.Time, grace time.Duration, batchSize int) ([]model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + messageColumns + `
		FROM scheduler.messages
		WHERE (status = 'scheduled' AND scheduled_for <= $1)
		   OR (status = 'processing' AND claimed_at <= $2)
		ORDER BY scheduled_for ASC, id ASC
		LIMIT $3
	`

	rows, err := ext.Query(ctx, query, now, now.Add(-grace), batchSize)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var messages []model.Message

	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}

		messages = append(messages, *message)
	}

	return messages, rows.Err()
}

// ClaimMessage is the atomic compare-and-swap that reserves a message for
// exactly one sweep. Zero rows affected means another sweep won the claim.
func (r *MessageRepository) ClaimMessage(ctx context.Context, ext RepoExtension, id uuid.UUID, now time.Time, grace time.Duration) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE scheduler.messages
		SET status = 'processing', claimed_at = $2, updated_at = $2
		WHERE id = $1
		  AND ((status = 'scheduled' AND scheduled_for <= $2)
		    OR (status = 'processing' AND claimed_at <= $3))
	`

	tag, err := ext.Exec(ctx, query, id, now, now.Add(-grace))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrClaimConflict
	}

	return nil
}

// UpdateTerminalStatus writes the final status of a dispatch attempt. It is
// conditioned on the writer's own claim timestamp, so a sweep that lost its
// claim to a post-grace reclaim cannot finalize the message.
func (r *MessageRepository) UpdateTerminalStatus(ctx context.Context, ext RepoExtension, id uuid.UUID, status model.MessageStatus, lastError *string, claimedAt, now time.Time) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE scheduler.messages
		SET status = $2, last_error = $3, claimed_at = NULL, updated_at = $5
		WHERE id = $1 AND status = 'processing' AND claimed_at = $4
	`

	tag, err := ext.Exec(ctx, query, id, status, lastError, claimedAt, now)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrClaimConflict
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var message model.Message
	var status string

	if err := row.Scan(
		&message.ID,
		&message.UserID,
		&message.Title,
		&message.Content,
		&message.Types,
		&message.RecipientIDs,
		&message.Attachments,
		&status,
		&message.ScheduledFor,
		&message.ClaimedAt,
		&message.LastError,
		&message.CreatedAt,
		&message.UpdatedAt,
	); err != nil {
		return nil, err
	}

	message.Status = model.MessageStatus(status)

	return &message, nil
}
