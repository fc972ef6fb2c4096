package middleware

import (
	"meetings_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext is middleware that extracts actor info for audit logging.
// It must run after RequireAuth to see the user.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := services.AuditContextForUser(GetCurrentUser(c), c.RealIP(), c.Request().UserAgent())
			c.Set(ContextKeyAuditContext, ctx)
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context from the request, building
// one on the spot when the middleware did not run
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return services.AuditContextForUser(GetCurrentUser(c), c.RealIP(), c.Request().UserAgent())
}
