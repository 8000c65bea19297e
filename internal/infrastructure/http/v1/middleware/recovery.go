// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"optiretail/internal/core/apperror"
	appctx "optiretail/internal/core/context"
	"optiretail/pkg/logger"
)

// Recovery turns a panic into a 500 rendered by ErrorHandler.
// Register it after ErrorHandler so the pushed error is still rendered.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := c.Request.Context()
				logger.Error(ctx, "panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
						WithDetail("request_id", appctx.GetRequestID(ctx)),
				)
				c.Abort()
			}
		}()
		c.Next()
	}
}
