package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/model"
)

type stubMessageService struct {
	msg *model.Message
	err error
}

func (s *stubMessageService) Create(context.Context, *model.MessageCreateRequest) (*model.Message, error) {
	return s.msg, s.err
}

func (s *stubMessageService) Get(context.Context, uuid.UUID) (*model.Message, error) {
	return s.msg, s.err
}

func (s *stubMessageService) List(context.Context, uuid.UUID, int, int) ([]model.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.Message{*s.msg}, nil
}

func (s *stubMessageService) Update(context.Context, uuid.UUID, *model.MessageUpdateRequest) (*model.Message, error) {
	return s.msg, s.err
}

func (s *stubMessageService) CancelSchedule(context.Context, uuid.UUID) (*model.Message, error) {
	return s.msg, s.err
}

func (s *stubMessageService) Delete(context.Context, uuid.UUID) error {
	return s.err
}

func newMessageRouter(svc MessageService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewMessageHandler(svc)

	router := gin.New()
	router.POST("/messages", h.CreateMessage)
	router.GET("/messages", h.ListMessages)
	router.GET("/messages/:id", h.GetMessage)
	router.PATCH("/messages/:id", h.UpdateMessage)
	router.POST("/messages/:id/cancel", h.CancelMessageSchedule)
	router.DELETE("/messages/:id", h.DeleteMessage)

	return router
}

func TestCreateMessageEndpoint(t *testing.T) {
	msg := &model.Message{ID: uuid.New(), Title: "To my family", Status: model.StatusDraft}
	router := newMessageRouter(&stubMessageService{msg: msg})

	body := `{"userId":"` + uuid.NewString() + `","title":"To my family","content":"hello"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string        `json:"status"`
		Data   model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, msg.ID, resp.Data.ID)
}

func TestCreateMessageEndpointRejectsBadPayload(t *testing.T) {
	router := newMessageRouter(&stubMessageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMessageEndpointScheduleTimeRequired(t *testing.T) {
	router := newMessageRouter(&stubMessageService{err: apperrors.ErrScheduleTimeRequired})

	body := `{"userId":"` + uuid.NewString() + `","title":"t","content":"c","scheduled":true}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessageEndpointNotFound(t *testing.T) {
	router := newMessageRouter(&stubMessageService{err: apperrors.ErrMessageDoesNotExist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMessageEndpointInvalidID(t *testing.T) {
	router := newMessageRouter(&stubMessageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMessageEndpointConflict(t *testing.T) {
	router := newMessageRouter(&stubMessageService{err: apperrors.ErrMessageNotEditable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/messages/"+uuid.NewString(), strings.NewReader(`{"title":"new"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListMessagesEndpointRequiresUserID(t *testing.T) {
	router := newMessageRouter(&stubMessageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMessagesEndpointPaginationMetadata(t *testing.T) {
	msg := &model.Message{ID: uuid.New(), Status: model.StatusScheduled}
	router := newMessageRouter(&stubMessageService{msg: msg})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages?user_id="+uuid.NewString()+"&limit=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string             `json:"status"`
		Data     []model.Message    `json:"data"`
		Metadata PaginationMetadata `json:"_metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 10, resp.Metadata.Limit)
	assert.Equal(t, 1, resp.Metadata.Count)
}
