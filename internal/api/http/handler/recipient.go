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

type RecipientService interface {
	Create(ctx context.Context, req *model.RecipientCreateRequest) (*model.Recipient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Recipient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.RecipientUpdateRequest) (*model.Recipient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecipientHandler struct {
	BaseHandler
	svc RecipientService
}

func NewRecipientHandler(service RecipientService) *RecipientHandler {
	return &RecipientHandler{
		svc: service,
	}
}

// CreateRecipient
// @Summary Create a recipient
// @Description Creates a recipient contact record for a user
// @Tags Recipients
// @Accept json
// @Produce json
// @Param input body model.RecipientCreateRequest true "Recipient payload"
// @Success 201 {object} ResponseWithData{data=model.Recipient} "Recipient created"
// @Failure 400 {object} ResponseWithMessage "Invalid payload"
// @Failure 500 {object} ResponseWithMessage "Failed to create recipient"
// @Router /recipients [post]
func (h *RecipientHandler) CreateRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.RecipientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	rcpt, err := h.svc.Create(ctx, &req)
	if err != nil {
		h.respondRecipientError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   rcpt,
	})
}

// GetRecipient
// @Summary Get a recipient by ID
// @Description Returns a single recipient contact record
// @Tags Recipients
// @Produce json
// @Param id path string true "Recipient UUID"
// @Success 200 {object} ResponseWithData{data=model.Recipient} "Recipient data"
// @Failure 400 {object} ResponseWithMessage "Invalid path parameter"
// @Failure 404 {object} ResponseWithMessage "Recipient not found"
// @Failure 500 {object} ResponseWithMessage "Failed to fetch recipient"
// @Router /recipients/{id} [get]
func (h *RecipientHandler) GetRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID, ok := h.bindRecipientID(c)
	if !ok {
		return
	}

	rcpt, err := h.svc.Get(ctx, recipientID)
	if err != nil {
		h.respondRecipientError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   rcpt,
	})
}

// ListRecipients
// @Summary List recipients for a user
// @Description Returns the recipient contact records owned by a user
// @Tags Recipients
// @Produce json
// @Param user_id query string true "User UUID"
// @Param limit query int false "Limit (default 50, maximum 100)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} ResponseWithMetaAndData{data=[]model.Recipient,_metadata=PaginationMetadata} "Recipient list"
// @Failure 400 {object} ResponseWithMessage "Invalid query parameters"
// @Failure 500 {object} ResponseWithMessage "Failed to list recipients"
// @Router /recipients [get]
func (h *RecipientHandler) ListRecipients(c *gin.Context) {
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

	recipients, err := h.svc.List(ctx, userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusInternalError,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithMetaAndData{
		Status: StatusSuccess,
		Data:   recipients,
		Metadata: PaginationMetadata{
			Limit:  limit,
			Offset: offset,
			Count:  len(recipients),
		},
	})
}

// UpdateRecipient
// @Summary Update a recipient
// @Description Updates a recipient contact record
// @Tags Recipients
// @Accept json
// @Produce json
// @Param id path string true "Recipient UUID"
// @Param input body model.RecipientUpdateRequest true "Fields to update"
// @Success 200 {object} ResponseWithData{data=model.Recipient} "Updated recipient"
// @Failure 400 {object} ResponseWithMessage "Invalid payload"
// @Failure 404 {object} ResponseWithMessage "Recipient not found"
// @Failure 500 {object} ResponseWithMessage "Failed to update recipient"
// @Router /recipients/{id} [patch]
func (h *RecipientHandler) UpdateRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID, ok := h.bindRecipientID(c)
	if !ok {
		return
	}

	var req model.RecipientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	rcpt, err := h.svc.Update(ctx, recipientID, &req)
	if err != nil {
		h.respondRecipientError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   rcpt,
	})
}

// DeleteRecipient
// @Summary Delete a recipient
// @Description Deletes a recipient contact record
// @Tags Recipients
// @Produce json
// @Param id path string true "Recipient UUID"
// @Success 200 {object} ResponseWithMessage "Recipient deleted"
// @Failure 400 {object} ResponseWithMessage "Invalid path parameter"
// @Failure 404 {object} ResponseWithMessage "Recipient not found"
// @Failure 500 {object} ResponseWithMessage "Failed to delete recipient"
// @Router /recipients/{id} [delete]
func (h *RecipientHandler) DeleteRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID, ok := h.bindRecipientID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, recipientID); err != nil {
		h.respondRecipientError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Recipient deleted successfully",
	})
}

func (h *RecipientHandler) bindRecipientID(c *gin.Context) (uuid.UUID, bool) {
	var uri model.RecipientIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return uuid.Nil, false
	}

	recipientID, err := uuid.Parse(uri.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Invalid recipient ID format",
		})
		return uuid.Nil, false
	}

	return recipientID, true
}

func (h *RecipientHandler) respondRecipientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrRecipientDoesNotExist):
		c.JSON(http.StatusNotFound, ResponseWithMessage{
			Status:  StatusErr,
			Message: "Recipient not found",
		})
	default:
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
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
