package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"optiretail/internal/core/apperror"
	appctx "optiretail/internal/core/context"
	"optiretail/internal/infrastructure/http/v1/dto"
	"optiretail/pkg/logger"
)

// ErrorHandler renders the last error pushed by a handler into the error envelope.
// Internal causes are logged, never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()
		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(ctx, "unhandled error", "error", err)
			appErr = apperror.NewInternal(err).WithDetail("request_id", appctx.GetRequestID(ctx))
		} else if appErr.Err != nil {
			logger.Error(ctx, "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, dto.NewErrorResponse(appErr))
	}
}
