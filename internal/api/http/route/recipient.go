package route

import (
	"github.com/gin-gonic/gin"
)

type RecipientHandler interface {
	CreateRecipient(c *gin.Context)
	GetRecipient(c *gin.Context)
	ListRecipients(c *gin.Context)
	UpdateRecipient(c *gin.Context)
	DeleteRecipient(c *gin.Context)
}

func RegisterRecipientRoutes(g *gin.RouterGroup, h RecipientHandler) {
	g.GET("", h.ListRecipients)
	g.POST("", h.CreateRecipient)
	g.GET("/:id", h.GetRecipient)
	g.PATCH("/:id", h.UpdateRecipient)
	g.DELETE("/:id", h.DeleteRecipient)
}
