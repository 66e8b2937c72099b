package route

import (
	"github.com/gin-gonic/gin"
)

type SweepHandler interface {
	RunSweep(c *gin.Context)
	SweepStatus(c *gin.Context)
	StartRunner(c *gin.Context)
	StopRunner(c *gin.Context)
}

func RegisterSweepRoutes(g *gin.RouterGroup, h SweepHandler) {
	g.POST("/run", h.RunSweep)
	g.GET("/status", h.SweepStatus)
	g.POST("/start", h.StartRunner)
	g.POST("/stop", h.StopRunner)
}
