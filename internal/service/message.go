package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/repository"
)

type MessageRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, message *model.Message) error
	SelectMessageByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Message, error)
	SelectMessagesByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Message, error)
	UpdateMessage(ctx context.Context, ext repository.RepoExtension, message *model.Message) error
	DeleteMessage(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type MessageService struct {
	log  *zap.Logger
	repo MessageRepository
	now  func() time.Time
}

func NewMessageService(log *zap.Logger, repo MessageRepository) *MessageService {
	return &MessageService{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
}

func (s *MessageService) Create(ctx context.Context, req *model.MessageCreateRequest) (*model.Message, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "userId", Reason: "must be a valid uuid"}
	}

	recipientIDs, err := parseUUIDs(req.RecipientIDs)
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "recipientIds", Reason: "must be valid uuids"}
	}

	status := model.StatusDraft
	if req.Scheduled {
		if req.ScheduledFor == nil {
			return nil, apperrors.ErrScheduleTimeRequired
		}
		if !req.ScheduledFor.After(s.now()) {
			return nil, &apperrors.ValidationError{Field: "scheduledFor", Reason: "must be in the future"}
		}

		status = model.StatusScheduled
	}

	types := req.Types
	if len(types) == 0 {
		types = []string{model.ChannelEmail}
	}

	message := &model.Message{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		Content:      req.Content,
		Types:        types,
		RecipientIDs: recipientIDs,
		Attachments:  req.Attachments,
		Status:       status,
		ScheduledFor: req.ScheduledFor,
	}

	if err := s.repo.InsertMessage(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return message, nil
}

func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	message, err := s.repo.SelectMessageByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select message: %w", err)
	}

	return message, nil
}

func (s *MessageService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.SelectMessagesByUser(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// Update mutates a message while it is still editable. Messages that left
// the scheduled status are immutable.
func (s *MessageService) Update(ctx context.Context, id uuid.UUID, req *model.MessageUpdateRequest) (*model.Message, error) {
	message, err := s.repo.SelectMessageByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if !message.Status.IsEditable() {
		return nil, apperrors.ErrMessageNotEditable
	}

	if req.Title != nil {
		message.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		message.Content = *req.Content
	}
	if len(req.Types) > 0 {
		message.Types = req.Types
	}
	if req.RecipientIDs != nil {
		recipientIDs, err := parseUUIDs(req.RecipientIDs)
		if err != nil {
			return nil, &apperrors.ValidationError{Field: "recipientIds", Reason: "must be valid uuids"}
		}

		message.RecipientIDs = recipientIDs
	}
	if req.Attachments != nil {
		message.Attachments = req.Attachments
	}
	if req.ScheduledFor != nil {
		if !req.ScheduledFor.After(s.now()) {
			return nil, &apperrors.ValidationError{Field: "scheduledFor", Reason: "must be in the future"}
		}

		message.ScheduledFor = req.ScheduledFor
		message.Status = model.StatusScheduled
	}

	if err := s.repo.UpdateMessage(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	return message, nil
}

// CancelSchedule moves a scheduled message back to draft so the sweep will
// not pick it up.
func (s *MessageService) CancelSchedule(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	message, err := s.repo.SelectMessageByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if message.Status != model.StatusScheduled {
		return nil, apperrors.ErrMessageNotEditable
	}

	message.Status = model.StatusDraft
	message.ScheduledFor = nil

	if err := s.repo.UpdateMessage(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to cancel schedule: %w", err)
	}

	return message, nil
}

func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMessage(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))

	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}
