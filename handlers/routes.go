package handlers

import (
	"meetings_app_go/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API on e. Paths keep their trailing slash.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthHandler)

	// Public auth routes
	e.POST("/api/auth/register/", RegisterHandler, middleware.RegisterRateLimiter.Middleware())
	e.POST("/api/auth/login/", LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	protected.Use(middleware.APIRateLimiter.Middleware())
	{
		protected.POST("/auth/logout/", LogoutHandler)
		protected.GET("/users/me/", MeHandler)

		protected.GET("/meetings/", ListMeetingsHandler)
		protected.POST("/meetings/", CreateMeetingHandler)
		protected.GET("/meetings/export.ics", ExportMeetingsICSHandler)
		protected.GET("/meetings/export.xlsx", ExportMeetingsXLSXHandler)
		protected.GET("/meetings/:id/", GetMeetingHandler)
		protected.PUT("/meetings/:id/", UpdateMeetingHandler)
		protected.PATCH("/meetings/:id/", PatchMeetingHandler)
		protected.DELETE("/meetings/:id/", DeleteMeetingHandler)
		protected.GET("/meetings/:id/history/", MeetingHistoryHandler)
	}
}
