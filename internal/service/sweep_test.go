package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/repository"
	"legacy-scheduler/pkg/mailer"
)

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*model.Message

	terminalWrites map[uuid.UUID]int
	failPersists   int
}

func newFakeMessageRepo(messages ...*model.Message) *fakeMessageRepo {
	r := &fakeMessageRepo{
		messages:       make(map[uuid.UUID]*model.Message),
		terminalWrites: make(map[uuid.UUID]int),
	}

	for _, m := range messages {
		r.messages[m.ID] = m
	}

	return r
}

func (r *fakeMessageRepo) SelectDueBatch(_ context.Context, _ repository.RepoExtension, now time.Time, grace time.Duration, batchSize int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []model.Message
	for _, m := range r.messages {
		if len(due) >= batchSize {
			break
		}

		eligible := (m.Status == model.StatusScheduled && m.ScheduledFor != nil && !m.ScheduledFor.After(now)) ||
			(m.Status == model.StatusProcessing && m.ClaimedAt != nil && !m.ClaimedAt.After(now.Add(-grace)))
		if eligible {
			due = append(due, *m)
		}
	}

	return due, nil
}

func (r *fakeMessageRepo) ClaimMessage(_ context.Context, _ repository.RepoExtension, id uuid.UUID, now time.Time, grace time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return apperrors.ErrClaimConflict
	}

	eligible := (m.Status == model.StatusScheduled && m.ScheduledFor != nil && !m.ScheduledFor.After(now)) ||
		(m.Status == model.StatusProcessing && m.ClaimedAt != nil && !m.ClaimedAt.After(now.Add(-grace)))
	if !eligible {
		return apperrors.ErrClaimConflict
	}

	claimedAt := now
	m.Status = model.StatusProcessing
	m.ClaimedAt = &claimedAt

	return nil
}

func (r *fakeMessageRepo) UpdateTerminalStatus(_ context.Context, _ repository.RepoExtension, id uuid.UUID, status model.MessageStatus, lastError *string, claimedAt, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failPersists > 0 {
		r.failPersists--
		return errors.New("connection reset")
	}

	m, ok := r.messages[id]
	if !ok || m.Status != model.StatusProcessing || m.ClaimedAt == nil || !m.ClaimedAt.Equal(claimedAt) {
		return apperrors.ErrClaimConflict
	}

	m.Status = status
	m.ClaimedAt = nil
	m.LastError = lastError
	r.terminalWrites[id]++

	return nil
}

func (r *fakeMessageRepo) status(id uuid.UUID) model.MessageStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.messages[id].Status
}

type fakeRecipientRepo struct {
	recipients map[uuid.UUID]model.Recipient
}

func newFakeRecipientRepo(recipients ...model.Recipient) *fakeRecipientRepo {
	r := &fakeRecipientRepo{recipients: make(map[uuid.UUID]model.Recipient)}
	for _, rcpt := range recipients {
		r.recipients[rcpt.ID] = rcpt
	}

	return r
}

func (r *fakeRecipientRepo) SelectRecipientsByIDs(_ context.Context, _ repository.RepoExtension, ids []uuid.UUID) ([]model.Recipient, error) {
	var out []model.Recipient
	for _, id := range ids {
		if rcpt, ok := r.recipients[id]; ok {
			out = append(out, rcpt)
		}
	}

	return out, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []model.OutboxEvent
}

func (r *fakeOutboxRepo) InsertEvent(_ context.Context, _ repository.RepoExtension, event model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(_ context.Context, fn func(ext repository.RepoExtension) error) error {
	return fn(nil)
}

type fakeMailer struct {
	mu    sync.Mutex
	sends map[string]int
	fail  func(to string, attempt int) error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sends: make(map[string]int)}
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string, _ []string) (*mailer.Receipt, error) {
	m.mu.Lock()
	m.sends[to]++
	attempt := m.sends[to]
	m.mu.Unlock()

	if m.fail != nil {
		if err := m.fail(to, attempt); err != nil {
			return nil, err
		}
	}

	return &mailer.Receipt{ID: uuid.NewString(), DeliveredAt: time.Now().UTC()}, nil
}

func (m *fakeMailer) sendCount(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sends[to]
}

func newTestRecipient() model.Recipient {
	return model.Recipient{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     gofakeit.FirstName(),
		Email:    gofakeit.Email(),
		Timezone: "UTC",
		Verified: true,
	}
}

func newScheduledMessage(scheduledFor time.Time, recipientIDs ...uuid.UUID) *model.Message {
	return &model.Message{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Title:        "Dear {{name}}",
		Content:      gofakeit.Sentence(),
		Types:        []string{model.ChannelEmail},
		RecipientIDs: recipientIDs,
		Status:       model.StatusScheduled,
		ScheduledFor: &scheduledFor,
	}
}

func newSweepService(msgRepo *fakeMessageRepo, rcptRepo *fakeRecipientRepo, outbox *fakeOutboxRepo, mlr mailer.Mailer) *SweepService {
	return NewSweepService(
		zap.NewNop(),
		SweepConfig{
			MaxDeliveryAttempts: 3,
			AuditTopic:          "legacy-scheduler-audit",
			SenderName:          "Alex",
		},
		msgRepo,
		rcptRepo,
		outbox,
		fakeTxRunner{},
		mlr,
	)
}

func TestRunSweepDeliversDueMessage(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sweepAt := scheduledFor.Add(time.Second)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	outbox := &fakeOutboxRepo{}
	mlr := newFakeMailer()

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), outbox, mlr)

	summary, err := svc.RunSweep(context.Background(), sweepAt)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Errors)

	assert.Equal(t, model.StatusSent, msgRepo.status(msg.ID))
	assert.Equal(t, 1, mlr.sendCount(rcpt.Email))
	assert.Len(t, outbox.events, 1)
}

func TestRunSweepLeavesFutureMessagesUntouched(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sweepAt := scheduledFor.Add(-time.Second)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), sweepAt)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, model.StatusScheduled, msgRepo.status(msg.ID))
	assert.Equal(t, 0, mlr.sendCount(rcpt.Email))
}

func TestRunSweepMarksFailedAfterExhaustedRetries(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()
	mlr.fail = func(string, int) error {
		return &apperrors.DeliveryError{StatusCode: 503, Message: "provider unavailable"}
	}

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Errors)

	assert.Equal(t, model.StatusFailed, msgRepo.status(msg.ID))
	assert.Equal(t, 3, mlr.sendCount(rcpt.Email), "delivery errors are retried up to the limit")
}

func TestRunSweepRecoversAfterTransientDeliveryError(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()
	mlr.fail = func(_ string, attempt int) error {
		if attempt == 1 {
			return &apperrors.DeliveryError{StatusCode: 500, Message: "flaky"}
		}

		return nil
	}

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, model.StatusSent, msgRepo.status(msg.ID))
	assert.Equal(t, 2, mlr.sendCount(rcpt.Email))
}

func TestRunSweepDoesNotRetryValidationErrors(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()
	mlr.fail = func(string, int) error {
		return &apperrors.ValidationError{Field: "to", Reason: "recipient address is malformed"}
	}

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, model.StatusFailed, msgRepo.status(msg.ID))
	assert.Equal(t, 1, mlr.sendCount(rcpt.Email), "validation failures must not be retried")
}

func TestRunSweepMarksPartiallySentOnMixedOutcome(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	good := newTestRecipient()
	bad := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, good.ID, bad.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()
	mlr.fail = func(to string, _ int) error {
		if to == bad.Email {
			return &apperrors.DeliveryError{StatusCode: 400, Message: "rejected"}
		}

		return nil
	}

	svc := newSweepService(msgRepo, newFakeRecipientRepo(good, bad), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, model.StatusPartiallySent, msgRepo.status(msg.ID))
}

func TestRunSweepFailsMessageWithoutResolvableRecipients(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	msg := newScheduledMessage(scheduledFor, uuid.New())

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()

	svc := newSweepService(msgRepo, newFakeRecipientRepo(), &fakeOutboxRepo{}, mlr)

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, model.StatusFailed, msgRepo.status(msg.ID))
	require.NotNil(t, msgRepo.messages[msg.ID].LastError)
	assert.Equal(t, "no resolvable recipients", *msgRepo.messages[msg.ID].LastError)
}

func TestConcurrentSweepsDispatchExactlyOnce(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sweepAt := scheduledFor.Add(time.Second)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	mlr := newFakeMailer()

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, mlr)

	const sweeps = 8

	var wg sync.WaitGroup
	for i := 0; i < sweeps; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.RunSweep(context.Background(), sweepAt)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, mlr.sendCount(rcpt.Email), "exactly one sweep may win the claim")
	assert.Equal(t, 1, msgRepo.terminalWrites[msg.ID], "exactly one terminal write")
	assert.Equal(t, model.StatusSent, msgRepo.status(msg.ID))
}

func TestPersistOutcomeRetriesTerminalWrite(t *testing.T) {
	scheduledFor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(scheduledFor, rcpt.ID)

	msgRepo := newFakeMessageRepo(msg)
	msgRepo.failPersists = 2

	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, newFakeMailer())

	summary, err := svc.RunSweep(context.Background(), scheduledFor.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, model.StatusSent, msgRepo.status(msg.ID), "terminal write lands after retries")
}

func TestPersistOutcomeLosesToReclaim(t *testing.T) {
	claimedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reclaimedAt := claimedAt.Add(time.Hour)

	rcpt := newTestRecipient()
	msg := newScheduledMessage(claimedAt, rcpt.ID)
	msg.Status = model.StatusProcessing
	msg.ClaimedAt = &reclaimedAt

	msgRepo := newFakeMessageRepo(msg)
	svc := newSweepService(msgRepo, newFakeRecipientRepo(rcpt), &fakeOutboxRepo{}, newFakeMailer())

	// A sweep that claimed at claimedAt finished its dispatch only after the
	// message was reclaimed. Its terminal write must not land.
	svc.persistOutcome(context.Background(), model.DispatchOutcome{
		MessageID: msg.ID,
		Status:    model.StatusSent,
		Attempted: 1,
		Succeeded: 1,
	}, claimedAt)

	assert.Equal(t, model.StatusProcessing, msgRepo.status(msg.ID), "reclaim holds the message")
	assert.Zero(t, msgRepo.terminalWrites[msg.ID])
}
