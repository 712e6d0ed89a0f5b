package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/intake/internal/action"
)

// errorResponder translates the last error recorded by a handler into an
// HTTP response. It is the only place that maps error kinds to status codes.
func errorResponder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := translateError(err)
		if status == http.StatusInternalServerError {
			log.Printf("api: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, body)
	}
}

func translateError(err error) (int, gin.H) {
	var verr *action.ValidationError
	var gerr *action.GuardError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, gin.H{"error": "validation error", "fields": verr.Fields}
	case errors.As(err, &gerr):
		return http.StatusUnprocessableEntity, gin.H{"error": gerr.Message, "code": gerr.Code}
	case errors.Is(err, action.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "action not found"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}
