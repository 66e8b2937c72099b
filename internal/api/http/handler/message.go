package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
)

type MessageService interface {
	Create(ctx context.Context, req *model.MessageCreateRequest) (*model.Message, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Message, error)
	Update(ctx context.Context, id uuid.UUID, req *model.MessageUpdateRequest) (*model.Message, error)
	CancelSchedule(ctx context.Context, id uuid.UUID) (*model.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageHandler struct {
	BaseHandler
	svc MessageService
}

func NewMessageHandler(service MessageService) *MessageHandler {
	return &MessageHandler{
		svc: service,
	}
}

// CreateMessage
// @Summary Create a message
// @Description Creates a message in draft status, or scheduled status when a schedule time is supplied
// @Tags Messages
// @Accept json
// @Produce json
// @Param input body model.MessageCreateRequest true "Message payload"
// @Success 201 {object} ResponseWithData{data=model.Message} "Message created"
// @Failure 400 {object} ResponseWithMessage "Invalid payload"
// @Failure 500 {object} ResponseWithMessage "Failed to create message"
// @Router /messages [post]
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	msg, err := h.svc.Create(ctx, &req)
	if err != nil {
		status := http.StatusInternalServerError

		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) || errors.Is(err, apperrors.ErrScheduleTimeRequired) {
			status = http.StatusBadRequest
		}

		c.JSON(status, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   msg,
	})
}

// GetMessage
// @Summary Get a message by ID
// @Description Returns a single message with its delivery status
// @Tags Messages
// @Produce json
// @Param id path string true "Message UUID"
// @Success 200 {object} ResponseWithData{data=model.Message} "Message data"
// @Failure 400 {object} ResponseWithMessage "Invalid path parameter"
// @Failure 404 {object} ResponseWithMessage "Message not found"
// @Failure 500 {object} ResponseWithMessage "Failed to fetch message"
// @Router /messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	ctx := c.Request.Context()

	messageID, ok := h.bindMessageID(c)
	if !ok {
		return
	}

	msg, err := h.svc.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageDoesNotExist) {
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: "Message not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusInternalError,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   msg,
	})
}

// ListMessages
// @Summary List messages for a user
// @Description Returns the messages owned by a user, newest first
// @Tags Messages
// @Produce json
// @Param user_id query string true "User UUID"
// @Param limit query int false "Limit (default 50, maximum 100)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} ResponseWithMetaAndData{data=[]model.Message,_metadata=PaginationMetadata} "Message list"
// @Failure 400 {object} ResponseWithMessage "Invalid query parameters"
// @Failure 500 {object} ResponseWithMessage "Failed to list messages"
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Invalid user_id parameter",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.svc.List(ctx, userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusInternalError,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithMetaAndData{
		Status: StatusSuccess,
		Data:   messages,
		Metadata: PaginationMetadata{
			Limit:  limit,
			Offset: offset,
			Count:  len(messages),
		},
	})
}

// UpdateMessage
// @Summary Update a message
// @Description Updates a draft or scheduled message; messages past the claim point are immutable
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Message UUID"
// @Param input body model.MessageUpdateRequest true "Fields to update"
// @Success 200 {object} ResponseWithData{data=model.Message} "Updated message"
// @Failure 400 {object} ResponseWithMessage "Invalid payload"
// @Failure 404 {object} ResponseWithMessage "Message not found"
// @Failure 409 {object} ResponseWithMessage "Message is no longer editable"
// @Failure 500 {object} ResponseWithMessage "Failed to update message"
// @Router /messages/{id} [patch]
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	messageID, ok := h.bindMessageID(c)
	if !ok {
		return
	}

	var req model.MessageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	msg, err := h.svc.Update(ctx, messageID, &req)
	if err != nil {
		h.respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   msg,
	})
}

// CancelMessageSchedule
// @Summary Cancel a scheduled delivery
// @Description Moves a scheduled message back to draft so no sweep picks it up
// @Tags Messages
// @Produce json
// @Param id path string true "Message UUID"
// @Success 200 {object} ResponseWithData{data=model.Message} "Message back in draft"
// @Failure 400 {object} ResponseWithMessage "Invalid path parameter"
// @Failure 404 {object} ResponseWithMessage "Message not found"
// @Failure 409 {object} ResponseWithMessage "Message is no longer editable"
// @Failure 500 {object} ResponseWithMessage "Failed to cancel schedule"
// @Router /messages/{id}/cancel [post]
func (h *MessageHandler) CancelMessageSchedule(c *gin.Context) {
	ctx := c.Request.Context()

	messageID, ok := h.bindMessageID(c)
	if !ok {
		return
	}

	msg, err := h.svc.CancelSchedule(ctx, messageID)
	if err != nil {
		h.respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   msg,
	})
}

// DeleteMessage
// @Summary Delete a message
// @Description Deletes a message and its delivery history
// @Tags Messages
// @Produce json
// @Param id path string true "Message UUID"
// @Success 200 {object} ResponseWithMessage "Message deleted"
// @Failure 400 {object} ResponseWithMessage "Invalid path parameter"
// @Failure 404 {object} ResponseWithMessage "Message not found"
// @Failure 500 {object} ResponseWithMessage "Failed to delete message"
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()

	messageID, ok := h.bindMessageID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, messageID); err != nil {
		h.respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Message deleted successfully",
	})
}

func (h *MessageHandler) bindMessageID(c *gin.Context) (uuid.UUID, bool) {
	var uri model.MessageIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return uuid.Nil, false
	}

	messageID, err := uuid.Parse(uri.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Invalid message ID format",
		})
		return uuid.Nil, false
	}

	return messageID, true
}

func (h *MessageHandler) respondMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrMessageDoesNotExist):
		c.JSON(http.StatusNotFound, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Message not found",
		})
	case errors.Is(err, apperrors.ErrMessageNotEditable):
		c.JSON(http.StatusConflict, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Message is no longer editable",
		})
	default:
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) || errors.Is(err, apperrors.ErrScheduleTimeRequired) {
			c.JSON(http.StatusBadRequest, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusInternalError,
			Message: err.Error(),
		})
	}
}
