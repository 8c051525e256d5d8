package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one access log line per request through the request's logger.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		t0 := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := zerolog.Ctx(c.Request.Context()).Info()
		if status >= 500 {
			event = zerolog.Ctx(c.Request.Context()).Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Int64("content_length", c.Request.ContentLength).
			Dur("duration", time.Since(t0)).
			Str("client_ip", c.ClientIP()).
			Msg("inbound request")
	}
}
