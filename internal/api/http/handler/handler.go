package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusErr           = "error"
	StatusSuccess       = "success"
	StatusNotAvailable  = "not available"
	StatusOK            = "ok"
	StatusInvalidInput  = "invalid_input"
	StatusInternalError = "internal_error"
)

type BaseHandler struct{}

// ResponseWithData
// @Description Generic success/error response carrying an arbitrary payload.
type ResponseWithData struct {
	Status string `json:"status"` // Request outcome
	Data   any    `json:"data"`   // Payload object
} // @Name _ResponseWithData

// ResponseWithMetaAndData
// @Description Generic response returning data plus pagination or extra metadata.
type ResponseWithMetaAndData struct {
	Status   string `json:"status"`    // Request outcome
	Data     any    `json:"data"`      // Payload object
	Metadata any    `json:"_metadata"` // Metadata
} // @Name _ResponseWithMetaAndData

// ResponseWithMessage
// @Description Generic plain response carrying only a human-readable message.
type ResponseWithMessage struct {
	Status  string `json:"status"`  // Request outcome
	Message string `json:"message"` // Human-readable message
} // @Name _ResponseWithMessage

// PaginationMetadata
// @Description Offset/limit style pagination.
type PaginationMetadata struct {
	Limit  int `example:"50" json:"limit"`  // Items per page
	Offset int `example:"0"  json:"offset"` // Items skipped
	Count  int `example:"20" json:"count"`  // Items in this page
} // @Name _PaginationMetadata

func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "method not allowed on this endpoint",
	})
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "page not found",
	})
}
