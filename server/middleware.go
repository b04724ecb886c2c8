package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
)

// requestLog logs every request once and records it on m. Requests that
// matched no route are counted under the route "unmatched".
func requestLog(log logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Request(c.Request.Method, route, strconv.Itoa(status), elapsed)

		if route == "/healthz" || route == "/metrics" {
			return
		}
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("duration", elapsed),
			logger.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			log.Error("HTTP request with errors", append(fields, logger.String("errors", c.Errors.String()))...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}

// recovery turns a handler panic into a 500.
func recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					logger.String("panic", fmt.Sprint(r)),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
