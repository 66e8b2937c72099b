package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legacy-scheduler/internal/model"
)

type SweepService interface {
	RunSweep(ctx context.Context, now time.Time) (model.SweepSummary, error)
}

type SweepRunner interface {
	Start(ctx context.Context)
	Stop()
	IsRunning() bool
}

// SweepStatusResponse
// @Description State of the periodic sweep runner.
type SweepStatusResponse struct {
	Running bool `json:"running"` // Whether the periodic runner is active
} // @Name SweepStatusResponse

type SweepHandler struct {
	BaseHandler

	log    *zap.Logger
	svc    SweepService
	runner SweepRunner
}

func NewSweepHandler(log *zap.Logger, svc SweepService, runner SweepRunner) *SweepHandler {
	return &SweepHandler{
		log:    log,
		svc:    svc,
		runner: runner,
	}
}

// RunSweep
// @Summary Run a delivery sweep now
// @Description Claims and dispatches every message whose schedule time has passed, then returns the sweep summary
// @Tags Sweep
// @Produce json
// @Success 200 {object} ResponseWithData{data=model.SweepSummary} "Sweep summary"
// @Failure 500 {object} ResponseWithMessage "Sweep could not query due messages"
// @Router /sweep/run [post]
func (h *SweepHandler) RunSweep(c *gin.Context) {
	// A sweep may outlast the request timeout; only its own budget applies.
	ctx := context.WithoutCancel(c.Request.Context())

	summary, err := h.svc.RunSweep(ctx, time.Now().UTC())
	if err != nil {
		h.log.Error("Manual sweep failed", zap.Error(err))

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusInternalError,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   summary,
	})
}

// SweepStatus
// @Summary Periodic runner status
// @Description Reports whether the background sweep runner is active
// @Tags Sweep
// @Produce json
// @Success 200 {object} ResponseWithData{data=SweepStatusResponse} "Runner state"
// @Router /sweep/status [get]
func (h *SweepHandler) SweepStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   SweepStatusResponse{Running: h.runner.IsRunning()},
	})
}

// StartRunner
// @Summary Start the periodic sweep runner
// @Description Starts background sweeping; a no-op when already running
// @Tags Sweep
// @Produce json
// @Success 200 {object} ResponseWithData{data=SweepStatusResponse} "Runner state"
// @Router /sweep/start [post]
func (h *SweepHandler) StartRunner(c *gin.Context) {
	h.runner.Start(context.WithoutCancel(c.Request.Context()))

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   SweepStatusResponse{Running: h.runner.IsRunning()},
	})
}

// StopRunner
// @Summary Stop the periodic sweep runner
// @Description Stops background sweeping; a no-op when already stopped
// @Tags Sweep
// @Produce json
// @Success 200 {object} ResponseWithData{data=SweepStatusResponse} "Runner state"
// @Router /sweep/stop [post]
func (h *SweepHandler) StopRunner(c *gin.Context) {
	h.runner.Stop()

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   SweepStatusResponse{Running: h.runner.IsRunning()},
	})
}
