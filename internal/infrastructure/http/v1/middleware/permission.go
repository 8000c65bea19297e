package middleware

import (
	"github.com/gin-gonic/gin"

	"optiretail/internal/core/apperror"
	appctx "optiretail/internal/core/context"
)

// Route permissions.
const (
	PermLedgerRead     = "report:ledger:read"
	PermBankingRead    = "report:banking:read"
	PermDepositConfirm = "banking:deposit:confirm"
)

// RequirePermission aborts with 403 unless the user holds permission.
// Admins hold every permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if appctx.GetUser(ctx) == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if !appctx.HasPermission(ctx, permission) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_permission", permission),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
