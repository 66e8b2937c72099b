package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/repository"
)

type RecipientRepository interface {
	InsertRecipient(ctx context.Context, ext repository.RepoExtension, recipient *model.Recipient) error
	SelectRecipientByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Recipient, error)
	SelectRecipientsByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Recipient, error)
	UpdateRecipient(ctx context.Context, ext repository.RepoExtension, recipient *model.Recipient) error
	DeleteRecipient(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type RecipientService struct {
	log  *zap.Logger
	repo RecipientRepository
}

func NewRecipientService(log *zap.Logger, repo RecipientRepository) *RecipientService {
	return &RecipientService{
		log:  log,
		repo: repo,
	}
}

func (s *RecipientService) Create(ctx context.Context, req *model.RecipientCreateRequest) (*model.Recipient, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "userId", Reason: "must be a valid uuid"}
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	recipient := &model.Recipient{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Timezone: req.Timezone,
	}

	if err := s.repo.InsertRecipient(ctx, nil, recipient); err != nil {
		return nil, fmt.Errorf("failed to insert recipient: %w", err)
	}

	return recipient, nil
}

func (s *RecipientService) Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error) {
	recipient, err := s.repo.SelectRecipientByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select recipient: %w", err)
	}

	return recipient, nil
}

func (s *RecipientService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Recipient, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	recipients, err := s.repo.SelectRecipientsByUser(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	return recipients, nil
}

func (s *RecipientService) Update(ctx context.Context, id uuid.UUID, req *model.RecipientUpdateRequest) (*model.Recipient, error) {
	recipient, err := s.repo.SelectRecipientByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		recipient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}

		recipient.Email = email
	}
	if req.Timezone != nil {
		recipient.Timezone = *req.Timezone
	}
	if req.Verified != nil {
		recipient.Verified = *req.Verified
	}

	if err := s.repo.UpdateRecipient(ctx, nil, recipient); err != nil {
		return nil, fmt.Errorf("failed to update recipient: %w", err)
	}

	return recipient, nil
}

func (s *RecipientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRecipient(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
	}

	return nil
}

// normalizeEmail rejects malformed addresses at the store boundary so the
// sweep never sees them.
func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", &apperrors.ValidationError{Field: "email", Reason: "address is malformed"}
	}

	return addr.Address, nil
}
