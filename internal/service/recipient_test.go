package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/repository"
)

type memRecipientRepo struct {
	recipients map[uuid.UUID]*model.Recipient
}

func newMemRecipientRepo() *memRecipientRepo {
	return &memRecipientRepo{recipients: make(map[uuid.UUID]*model.Recipient)}
}

func (r *memRecipientRepo) InsertRecipient(_ context.Context, _ repository.RepoExtension, recipient *model.Recipient) error {
	cp := *recipient
	r.recipients[recipient.ID] = &cp
	return nil
}

func (r *memRecipientRepo) SelectRecipientByID(_ context.Context, _ repository.RepoExtension, id uuid.UUID) (*model.Recipient, error) {
	rcpt, ok := r.recipients[id]
	if !ok {
		return nil, apperrors.ErrRecipientDoesNotExist
	}

	cp := *rcpt
	return &cp, nil
}

func (r *memRecipientRepo) SelectRecipientsByUser(_ context.Context, _ repository.RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Recipient, error) {
	var out []model.Recipient
	for _, rcpt := range r.recipients {
		if rcpt.UserID == userID {
			out = append(out, *rcpt)
		}
	}

	return out, nil
}

func (r *memRecipientRepo) UpdateRecipient(_ context.Context, _ repository.RepoExtension, recipient *model.Recipient) error {
	cp := *recipient
	r.recipients[recipient.ID] = &cp
	return nil
}

func (r *memRecipientRepo) DeleteRecipient(_ context.Context, _ repository.RepoExtension, id uuid.UUID) error {
	delete(r.recipients, id)
	return nil
}

func newTestRecipientService() (*RecipientService, *memRecipientRepo) {
	repo := newMemRecipientRepo()
	return NewRecipientService(zap.NewNop(), repo), repo
}

func TestRecipientServiceCreateNormalizesEmail(t *testing.T) {
	svc, _ := newTestRecipientService()

	rcpt, err := svc.Create(context.Background(), &model.RecipientCreateRequest{
		UserID: uuid.NewString(),
		Name:   " Jamie ",
		Email:  "Jamie Doe <jamie@example.com>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jamie", rcpt.Name)
	assert.Equal(t, "jamie@example.com", rcpt.Email, "display name is stripped")
}

func TestRecipientServiceCreateRejectsMalformedEmail(t *testing.T) {
	svc, _ := newTestRecipientService()

	_, err := svc.Create(context.Background(), &model.RecipientCreateRequest{
		UserID: uuid.NewString(),
		Name:   "Jamie",
		Email:  "not-an-address",
	})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}

func TestRecipientServiceUpdate(t *testing.T) {
	svc, repo := newTestRecipientService()

	id := uuid.New()
	repo.recipients[id] = &model.Recipient{ID: id, Name: "Jamie", Email: "jamie@example.com"}

	verified := true
	email := "new@example.com"
	rcpt, err := svc.Update(context.Background(), id, &model.RecipientUpdateRequest{
		Email:    &email,
		Verified: &verified,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", rcpt.Email)
	assert.True(t, rcpt.Verified)
	assert.Equal(t, "Jamie", rcpt.Name, "untouched fields survive")
}

func TestRecipientServiceUpdateMissing(t *testing.T) {
	svc, _ := newTestRecipientService()

	name := "x"
	_, err := svc.Update(context.Background(), uuid.New(), &model.RecipientUpdateRequest{Name: &name})
	require.ErrorIs(t, err, apperrors.ErrRecipientDoesNotExist)
}
