package route

import (
	"github.com/gin-gonic/gin"
)

type MessageHandler interface {
	CreateMessage(c *gin.Context)
	GetMessage(c *gin.Context)
	ListMessages(c *gin.Context)
	UpdateMessage(c *gin.Context)
	CancelMessageSchedule(c *gin.Context)
	DeleteMessage(c *gin.Context)
}

func RegisterMessageRoutes(g *gin.RouterGroup, h MessageHandler) {
	g.GET("", h.ListMessages)
	g.POST("", h.CreateMessage)
	g.GET("/:id", h.GetMessage)
	g.PATCH("/:id", h.UpdateMessage)
	g.POST("/:id/cancel", h.CancelMessageSchedule)
	g.DELETE("/:id", h.DeleteMessage)
}
