package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/render"
	"legacy-scheduler/internal/repository"
	"legacy-scheduler/pkg/mailer"
)

type SweepMessageRepository interface {
	SelectDueBatch(ctx context.Context, ext repository.RepoExtension, now time.Time, grace time.Duration, batchSize int) ([]model.Message, error)
	ClaimMessage(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, now time.Time, grace time.Duration) error
	UpdateTerminalStatus(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, status model.MessageStatus, lastError *string, claimedAt, now time.Time) error
}

type SweepRecipientRepository interface {
	SelectRecipientsByIDs(ctx context.Context, ext repository.RepoExtension, ids []uuid.UUID) ([]model.Recipient, error)
}

type SweepOutboxRepository interface {
	InsertEvent(ctx context.Context, ext repository.RepoExtension, event model.OutboxEvent) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ext repository.RepoExtension) error) error
}

type SweepConfig struct {
	Timeout              time.Duration
	BatchSize            int
	WorkerCount          int
	RecipientConcurrency int
	ClaimGracePeriod     time.Duration
	MaxDeliveryAttempts  int
	DeliveryBackoffBase  time.Duration
	MaxPersistAttempts   int
	PersistBackoffBase   time.Duration
	AuditTopic           string
	SenderName           string
}

// SweepService runs one complete pass over due scheduled messages:
// claim, resolve recipients, render, dispatch, persist the terminal status.
type SweepService struct {
	log           *zap.Logger
	cfg           SweepConfig
	messageRepo   SweepMessageRepository
	recipientRepo SweepRecipientRepository
	outboxRepo    SweepOutboxRepository
	tx            TxRunner
	mailer        mailer.Mailer
}

func NewSweepService(
	log *zap.Logger,
	cfg SweepConfig,
	messageRepo SweepMessageRepository,
	recipientRepo SweepRecipientRepository,
	outboxRepo SweepOutboxRepository,
	tx TxRunner,
	mlr mailer.Mailer,
) *SweepService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.RecipientConcurrency <= 0 {
		cfg.RecipientConcurrency = 4
	}
	if cfg.ClaimGracePeriod <= 0 {
		cfg.ClaimGracePeriod = 10 * time.Minute
	}
	if cfg.MaxDeliveryAttempts <= 0 {
		cfg.MaxDeliveryAttempts = 3
	}
	if cfg.MaxPersistAttempts <= 0 {
		cfg.MaxPersistAttempts = 3
	}

	return &SweepService{
		log:           log,
		cfg:           cfg,
		messageRepo:   messageRepo,
		recipientRepo: recipientRepo,
		outboxRepo:    outboxRepo,
		tx:            tx,
		mailer:        mlr,
	}
}

// RunSweep executes one pass at the given evaluation time. A failure of the
// eligibility query aborts the sweep; every later failure stays inside its
// message's boundary.
func (s *SweepService) RunSweep(ctx context.Context, now time.Time) (model.SweepSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	due, err := s.messageRepo.SelectDueBatch(ctx, nil, now, s.cfg.ClaimGracePeriod, s.cfg.BatchSize)
	if err != nil {
		return model.SweepSummary{}, fmt.Errorf("failed to select due messages: %w", err)
	}

	summary := model.SweepSummary{Total: len(due), Timestamp: now}
	if len(due) == 0 {
		return summary, nil
	}

	var processed, failed atomic.Int64

	jobs := make(chan model.Message)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.WorkerCount; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for msg := range jobs {
				switch s.processMessage(ctx, msg, now) {
				case sweepProcessed:
					processed.Add(1)
				case sweepFailed:
					failed.Add(1)
				case sweepSkipped:
				}
			}
		}()
	}

feed:
	for _, msg := range due {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- msg:
		}
	}

	close(jobs)
	wg.Wait()

	summary.Processed = int(processed.Load())
	summary.Errors = int(failed.Load())

	s.log.Info("Sweep completed",
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("errors", summary.Errors),
	)

	return summary, nil
}

type sweepResult int

const (
	sweepSkipped sweepResult = iota
	sweepProcessed
	sweepFailed
)

func (s *SweepService) processMessage(ctx context.Context, msg model.Message, now time.Time) sweepResult {
	if err := s.messageRepo.ClaimMessage(ctx, nil, msg.ID, now, s.cfg.ClaimGracePeriod); err != nil {
		if errors.Is(err, apperrors.ErrClaimConflict) {
			s.log.Debug("Message already claimed, skipping", zap.String("message_id", msg.ID.String()))
			return sweepSkipped
		}

		// Claim never landed, so the message is still eligible for the
		// next sweep. Nothing to finalize.
		s.log.Error("Failed to claim message", zap.String("message_id", msg.ID.String()), zap.Error(err))
		return sweepFailed
	}

	outcome := s.dispatchMessage(ctx, msg)
	s.persistOutcome(ctx, outcome, now)

	if outcome.Status == model.StatusFailed {
		return sweepFailed
	}

	return sweepProcessed
}

// dispatchMessage resolves recipients and fans sends out under the
// per-recipient concurrency bound. It never escapes an error: any failure,
// including a panic, collapses into a failed outcome.
func (s *SweepService) dispatchMessage(ctx context.Context, msg model.Message) (outcome model.DispatchOutcome) {
	outcome = model.DispatchOutcome{MessageID: msg.ID}

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = model.StatusFailed
			outcome.LastError = fmt.Sprintf("panic while dispatching: %v", r)
			s.log.Error("Dispatch panic recovered", zap.String("message_id", msg.ID.String()), zap.Any("panic", r))
		}
	}()

	recipients, err := s.recipientRepo.SelectRecipientsByIDs(ctx, nil, msg.RecipientIDs)
	if err != nil {
		outcome.Status = model.StatusFailed
		outcome.LastError = fmt.Sprintf("failed to resolve recipients: %v", err)
		return outcome
	}

	if missing := len(msg.RecipientIDs) - len(recipients); missing > 0 {
		s.log.Warn("Some recipients could not be resolved, skipping them",
			zap.String("message_id", msg.ID.String()),
			zap.Int("missing", missing),
		)
	}

	if len(recipients) == 0 {
		outcome.Status = model.StatusFailed
		outcome.LastError = "no resolvable recipients"
		return outcome
	}

	outcome.Attempted = len(recipients)

	var succeeded, failed atomic.Int64

	var mu sync.Mutex
	var lastError string

	sem := make(chan struct{}, s.cfg.RecipientConcurrency)

	var wg sync.WaitGroup
	for _, rcpt := range recipients {
		wg.Add(1)
		sem <- struct{}{}

		go func(rcpt model.Recipient) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.sendWithRetry(ctx, msg, rcpt); err != nil {
				failed.Add(1)

				mu.Lock()
				lastError = err.Error()
				mu.Unlock()

				s.log.Warn("Recipient dispatch failed",
					zap.String("message_id", msg.ID.String()),
					zap.String("recipient_id", rcpt.ID.String()),
					zap.Error(err),
				)

				return
			}

			succeeded.Add(1)
		}(rcpt)
	}

	wg.Wait()

	outcome.Succeeded = int(succeeded.Load())
	outcome.Failed = int(failed.Load())
	outcome.LastError = lastError
	outcome.Status = outcome.TerminalStatus()

	return outcome
}

// sendWithRetry performs up to MaxDeliveryAttempts transport attempts with
// exponential backoff. Validation failures are terminal immediately.
func (s *SweepService) sendWithRetry(ctx context.Context, msg model.Message, rcpt model.Recipient) error {
	subject := render.Render(msg.Title, rcpt.Name, s.cfg.SenderName)
	body := render.Render(msg.Content, rcpt.Name, s.cfg.SenderName)

	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxDeliveryAttempts; attempt++ {
		_, err := s.mailer.Send(ctx, rcpt.Email, subject, body, msg.Attachments)
		if err == nil {
			return nil
		}

		lastErr = err

		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			return err
		}

		if attempt < s.cfg.MaxDeliveryAttempts {
			if err := sleepCtx(ctx, backoff(s.cfg.DeliveryBackoffBase, attempt)); err != nil {
				return lastErr
			}
		}
	}

	return lastErr
}

// persistOutcome writes the terminal status and the audit event in one
// transaction, retrying with backoff. An un-persisted terminal state risks
// duplicate dispatch, so exhaustion is logged loudly.
func (s *SweepService) persistOutcome(ctx context.Context, outcome model.DispatchOutcome, now time.Time) {
	var lastError *string
	if outcome.LastError != "" {
		lastError = &outcome.LastError
	}

	payload, err := json.Marshal(model.DeliveryAuditEvent{
		MessageID: outcome.MessageID,
		Status:    outcome.Status,
		Attempted: outcome.Attempted,
		Succeeded: outcome.Succeeded,
		Failed:    outcome.Failed,
		SweptAt:   now,
	})
	if err != nil {
		s.log.Error("Failed to marshal audit event", zap.Error(err))
	}

	for attempt := 1; attempt <= s.cfg.MaxPersistAttempts; attempt++ {
		err := s.tx.WithinTx(ctx, func(ext repository.RepoExtension) error {
			if err := s.messageRepo.UpdateTerminalStatus(ctx, ext, outcome.MessageID, outcome.Status, lastError, now, now); err != nil {
				return err
			}

			return s.outboxRepo.InsertEvent(ctx, ext, model.OutboxEvent{
				ID:      uuid.New(),
				Topic:   s.cfg.AuditTopic,
				Payload: payload,
			})
		})
		if err == nil {
			return
		}

		if errors.Is(err, apperrors.ErrClaimConflict) {
			// Another sweep reclaimed the message after our grace period
			// and will finalize it itself.
			s.log.Warn("Message reclaimed before terminal write", zap.String("message_id", outcome.MessageID.String()))
			return
		}

		s.log.Warn("Terminal status write failed",
			zap.String("message_id", outcome.MessageID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < s.cfg.MaxPersistAttempts {
			if err := sleepCtx(ctx, backoff(s.cfg.PersistBackoffBase, attempt)); err != nil {
				break
			}
		}
	}

	s.log.Error("Terminal status write exhausted retries, message stuck in processing until reclaimed",
		zap.String("message_id", outcome.MessageID.String()),
		zap.String("status", string(outcome.Status)),
	)
}

func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	return base << (attempt - 1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
