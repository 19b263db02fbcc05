package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records served HTTP requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, seconds float64)
}

// Metrics returns a Gin middleware that reports each request to observer.
// Routes are labelled by their pattern; unmatched requests use "unmatched".
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
