package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers from any panics and handles errors. The
// request ID set by RequestID is echoed in the log line and the response so
// a failed request can be traced.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")

				// Log the error and stack trace
				log.Printf("Panic recovered (request %s): %v\nStack trace:\n%s", requestID, err, debug.Stack())

				// Return a 500 error to the client
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "An unexpected error occurred",
					"request_id": requestID,
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
