package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/repository"
	"legacy-scheduler/pkg/kafka"
)

const pipeSizeMultiplier = 5

type Repository interface {
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, eventID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxEvent, error)
}

type Config struct {
	Name         string
	WorkerCount  int
	PollInterval time.Duration
	BatchSize    int
}

// Publisher drains the audit outbox table into the broker. Events are
// written in the same transaction as the terminal status update, so
// everything the sweep decided eventually reaches the audit topic.
type Publisher struct {
	l          *zap.Logger
	cfg        Config
	producer   kafka.Producer
	outboxRepo Repository
}

func NewPublisher(l *zap.Logger, cfg Config, producer kafka.Producer, outboxRepo Repository) *Publisher {
	return &Publisher{
		l:          l,
		cfg:        cfg,
		producer:   producer,
		outboxRepo: outboxRepo,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventPipe := make(chan model.OutboxEvent, p.cfg.BatchSize*pipeSizeMultiplier)

	for i := 0; i < p.cfg.WorkerCount; i++ {
		go p.worker(ctx, i, eventPipe)
	}

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Audit publisher stopped", zap.String("name", p.cfg.Name))
			close(eventPipe)

			return
		case <-ticker.C:
			events, err := p.outboxRepo.SelectUnsentBatch(ctx, nil, p.cfg.BatchSize)
			if err != nil {
				p.l.Error("Failed to select unsent audit events", zap.Error(err))
				continue
			}

			for _, event := range events {
				eventPipe <- event
			}
		}
	}
}

func (p *Publisher) worker(ctx context.Context, id int, eventPipe <-chan model.OutboxEvent) {
	p.l.Info("Audit worker started", zap.Int("id", id))

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Audit worker stopping", zap.Int("id", id))

			return
		case event, ok := <-eventPipe:
			if !ok {
				p.l.Info("Audit event channel closed", zap.Int("id", id))

				return
			}

			partition, offset, err := p.sendAndMark(ctx, event)
			if err != nil {
				p.l.Error("Failed to publish audit event", zap.Error(err), zap.String("event_id", event.ID.String()))
				continue
			}

			p.l.Info("Audit event published",
				zap.String("event_id", event.ID.String()),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
			)
		}
	}
}

func (p *Publisher) sendAndMark(ctx context.Context, event model.OutboxEvent) (partition int32, offset int64, err error) {
	eventID, err := event.ID.MarshalBinary()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal event id: %w", err)
	}

	partition, offset, err = p.producer.PushMessage(ctx, eventID, event.Payload, event.Topic)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to push event: %w", err)
	}

	if err := p.outboxRepo.UpdateAsSent(ctx, nil, event.ID); err != nil {
		return 0, 0, fmt.Errorf("failed to mark event as sent: %w", err)
	}

	return partition, offset, nil
}
