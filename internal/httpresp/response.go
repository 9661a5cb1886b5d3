package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Payload[T any] struct {
	Data T `json:"data"`
}

type Envelope[T any] struct {
	Status  string     `json:"status"`
	Results *int       `json:"results,omitempty"`
	Message string     `json:"message,omitempty"`
	Data    Payload[T] `json:"data"`
}

func Write[T any](c *gin.Context, status int, data T) {
	c.JSON(status, Envelope[T]{Status: "success", Data: Payload[T]{Data: data}})
}

func OK[T any](c *gin.Context, data T) {
	Write(c, http.StatusOK, data)
}

func Created[T any](c *gin.Context, data T) {
	Write(c, http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	n := len(data)
	c.JSON(http.StatusOK, Envelope[[]T]{
		Status:  "success",
		Results: &n,
		Data:    Payload[[]T]{Data: data},
	})
}

// Message answers with a success status and a human readable message only.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message})
}
