package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legacy-scheduler/internal/model"
)

type stubSweepService struct {
	summary model.SweepSummary
	err     error

	hadDeadline bool
}

func (s *stubSweepService) RunSweep(ctx context.Context, _ time.Time) (model.SweepSummary, error) {
	_, s.hadDeadline = ctx.Deadline()
	return s.summary, s.err
}

type stubRunner struct {
	running bool
}

func (r *stubRunner) Start(context.Context) { r.running = true }
func (r *stubRunner) Stop()                 { r.running = false }
func (r *stubRunner) IsRunning() bool       { return r.running }

func newSweepRouter(svc SweepService, runner SweepRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewSweepHandler(zap.NewNop(), svc, runner)

	router := gin.New()
	router.POST("/sweep/run", h.RunSweep)
	router.GET("/sweep/status", h.SweepStatus)
	router.POST("/sweep/start", h.StartRunner)
	router.POST("/sweep/stop", h.StopRunner)

	return router
}

func TestRunSweepEndpoint(t *testing.T) {
	svc := &stubSweepService{
		summary: model.SweepSummary{
			Processed: 3,
			Errors:    1,
			Total:     4,
			Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	router := newSweepRouter(svc, &stubRunner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sweep/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string             `json:"status"`
		Data   model.SweepSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, 3, resp.Data.Processed)
	assert.Equal(t, 1, resp.Data.Errors)
	assert.Equal(t, 4, resp.Data.Total)
}

func TestRunSweepEndpointIgnoresRequestDeadline(t *testing.T) {
	svc := &stubSweepService{}
	router := newSweepRouter(svc, &stubRunner{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sweep/run", nil).WithContext(ctx)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.hadDeadline, "sweep must not inherit the request deadline")
}

func TestRunSweepEndpointFailure(t *testing.T) {
	svc := &stubSweepService{err: errors.New("select due batch: connection refused")}

	router := newSweepRouter(svc, &stubRunner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sweep/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ResponseWithMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusInternalError, resp.Status)
}

func TestSweepRunnerLifecycleEndpoints(t *testing.T) {
	runner := &stubRunner{}
	router := newSweepRouter(&stubSweepService{}, runner)

	statusOf := func(method, path string) SweepStatusResponse {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data SweepStatusResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		return resp.Data
	}

	assert.False(t, statusOf(http.MethodGet, "/sweep/status").Running)
	assert.True(t, statusOf(http.MethodPost, "/sweep/start").Running)
	assert.True(t, statusOf(http.MethodGet, "/sweep/status").Running)
	assert.False(t, statusOf(http.MethodPost, "/sweep/stop").Running)
}
