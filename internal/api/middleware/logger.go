package middleware

import (
	"time"

	"zapdash/internal/logging"

	"github.com/gin-gonic/gin"
)

// Logger logs every request through the application logger.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logging.GetGlobalLogger().LogHTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
