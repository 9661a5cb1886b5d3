package httperr

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Error   *Detail `json:"error,omitempty"`
}

type Detail struct {
	StatusCode    int    `json:"statusCode"`
	IsOperational bool   `json:"isOperational"`
	Cause         string `json:"cause,omitempty"`
}

// Handler renders the last error recorded on the context with c.Error.
// Handlers never write failure responses themselves.
func Handler(detail bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Write(c, c.Errors.Last().Err, detail, logger)
	}
}

// Write renders err using the failure envelope.
func Write(c *gin.Context, err error, detail bool, logger *slog.Logger) {
	status := http.StatusInternalServerError
	message := "Something went wrong"
	operational := false

	if e, ok := As(err); ok {
		status = e.Status
		message = e.Message
		operational = true
	}

	if logger != nil {
		attrs := []any{"method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "error", err}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Debug("request rejected", attrs...)
		}
	}

	resp := Response{Status: label(status), Message: message}
	if detail {
		resp.Error = &Detail{StatusCode: status, IsOperational: operational, Cause: err.Error()}
	}
	c.AbortWithStatusJSON(status, resp)
}

// Recovery turns panics into 500 responses using the same envelope.
func Recovery(detail bool, logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Write(c, fmt.Errorf("panic: %v", recovered), detail, logger)
	})
}

// NoRoute answers unknown endpoints with a 404 envelope.
func NoRoute(detail bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		Write(c, NotFound(fmt.Sprintf("Cannot find %s on this server", c.Request.URL.Path)), detail, logger)
	}
}
