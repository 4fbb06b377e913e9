package middleware

import (
	"net/http"
	"runtime/debug"

	"zapdash/internal/api/dto/common"
	"zapdash/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into a 500 envelope instead of a dropped
// connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.GetGlobalLogger().Error("[PANIC] %s %s from %s: %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					err,
					debug.Stack(),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					common.NewErrorResponse(common.ErrCodeInternalServer, "Internal server error", nil))
			}
		}()

		c.Next()
	}
}
