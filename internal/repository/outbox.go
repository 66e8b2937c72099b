package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"legacy-scheduler/internal/model"
)

type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{
		db: db,
	}
}

func (r *OutboxRepository) InsertEvent(ctx context.Context, ext RepoExtension, event model.OutboxEvent) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO scheduler.outbox_events (id, topic, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING;
	`

	_, err := ext.Exec(ctx, query, event.ID, event.Topic, event.Payload)
	if err != nil {
		return err
	}

	return nil
}

func (r *OutboxRepository) UpdateAsSent(ctx context.Context, ext RepoExtension, eventID uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE scheduler.outbox_events
		SET sent = true, sent_at = NOW()
		WHERE id = $1;
	`

	_, err := ext.Exec(ctx, query, eventID)
	if err != nil {
		return err
	}

	return nil
}

func (r *OutboxRepository) SelectUnsentBatch(ctx context.Context, ext RepoExtension, batchSize int) ([]model.OutboxEvent, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, topic, payload, created_at, sent, sent_at
		FROM scheduler.outbox_events
		WHERE sent = false
		ORDER BY created_at
		LIMIT $1;
	`

	rows, err := ext.Query(ctx, query, batchSize)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var events []model.OutboxEvent

	for rows.Next() {
		var event model.OutboxEvent
		if err := rows.Scan(
			&event.ID,
			&event.Topic,
			&event.Payload,
			&event.CreatedAt,
			&event.Sent,
			&event.SentAt,
		); err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, rows.Err()
}
